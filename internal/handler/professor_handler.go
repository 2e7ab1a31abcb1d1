package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/peerjury/peerjury-go-api/internal/policy"
	"github.com/peerjury/peerjury-go-api/internal/service"
	"github.com/peerjury/peerjury-go-api/internal/utils"
)

// ProfessorHandler serves the anonymized oversight views. Routes are role
// gated at registration time; the policy check backs that gate up so the
// handlers stay safe under any future rewiring.
type ProfessorHandler struct {
	projects service.ProjectService
	grading  service.GradingService
	access   policy.Policy
	logger   zerolog.Logger
}

// NewProfessorHandler constructs the handler.
func NewProfessorHandler(projects service.ProjectService, grading service.GradingService, access policy.Policy, logger zerolog.Logger) *ProfessorHandler {
	return &ProfessorHandler{
		projects: projects,
		grading:  grading,
		access:   access,
		logger:   logger.With().Str("component", "professor_handler").Logger(),
	}
}

// Register attaches oversight endpoints to the router group.
func (h *ProfessorHandler) Register(router fiber.Router) {
	router.Get("/projects", h.requireOversight, h.listProjects)
	router.Get("/projects/:id/evaluations", h.requireOversight, h.projectEvaluations)
	router.Get("/deliverables/:id/stats", h.requireOversight, h.deliverableStats)
}

func (h *ProfessorHandler) requireOversight(c *fiber.Ctx) error {
	if !h.access.CanOversee(userRoleFromContext(c)) {
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
	return c.Next()
}

func (h *ProfessorHandler) listProjects(c *fiber.Ctx) error {
	projects, err := h.projects.ListAll(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "projects retrieved", projects)
}

func (h *ProfessorHandler) projectEvaluations(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	evaluations, err := h.grading.ProjectEvaluations(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "project evaluations retrieved", evaluations)
}

func (h *ProfessorHandler) deliverableStats(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := h.grading.DeliverableStats(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "deliverable stats retrieved", stats)
}

func (h *ProfessorHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrDeliverableNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "deliverable not found")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
