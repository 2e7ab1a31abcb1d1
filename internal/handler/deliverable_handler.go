package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/peerjury/peerjury-go-api/internal/dto"
	"github.com/peerjury/peerjury-go-api/internal/service"
	"github.com/peerjury/peerjury-go-api/internal/utils"
)

// DeliverableHandler wires deliverable HTTP routes, including the owner's
// lifecycle controls, jury selection and grade view.
type DeliverableHandler struct {
	deliverables service.DeliverableService
	jury         service.JuryService
	grading      service.GradingService
	logger       zerolog.Logger
}

// NewDeliverableHandler constructs the handler.
func NewDeliverableHandler(deliverables service.DeliverableService, jury service.JuryService, grading service.GradingService, logger zerolog.Logger) *DeliverableHandler {
	return &DeliverableHandler{
		deliverables: deliverables,
		jury:         jury,
		grading:      grading,
		logger:       logger.With().Str("component", "deliverable_handler").Logger(),
	}
}

// Register attaches deliverable endpoints to the router group.
func (h *DeliverableHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Post("/:id/open-grading", h.openGrading)
	router.Post("/:id/close-grading", h.closeGrading)
	router.Post("/:id/select-jury", h.selectJury)
	router.Get("/:id/grade", h.grade)
}

func (h *DeliverableHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	deliverable, err := h.deliverables.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "deliverable retrieved", deliverable)
}

func (h *DeliverableHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.DeliverableUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	deliverable, err := h.deliverables.Update(c.Context(), id, payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "deliverable updated", deliverable)
}

func (h *DeliverableHandler) openGrading(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	deliverable, err := h.deliverables.OpenGrading(c.Context(), id, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grading opened", deliverable)
}

func (h *DeliverableHandler) closeGrading(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	deliverable, err := h.deliverables.CloseGrading(c.Context(), id, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grading closed", deliverable)
}

func (h *DeliverableHandler) selectJury(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.JurySelectionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	selection, err := h.jury.SelectJury(c.Context(), id, payload.JurySize, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "jury selected", selection)
}

func (h *DeliverableHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	grade, err := h.grading.DeliverableGrade(c.Context(), id, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade retrieved", grade)
}

func (h *DeliverableHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var poolErr *service.InsufficientPoolError
	switch {
	case errors.Is(err, service.ErrDeliverableNotFound), errors.Is(err, service.ErrProjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "deliverable not found")
	case errors.Is(err, service.ErrNotProjectOwner):
		return utils.SendError(c, fiber.StatusForbidden, "only the project owner may do this")
	case errors.Is(err, service.ErrLifecycleTransition):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lifecycle transition")
	case errors.Is(err, service.ErrSelectionClosed):
		return utils.SendError(c, fiber.StatusBadRequest, "jury selection is closed for this deliverable")
	case errors.As(err, &poolErr):
		return utils.SendError(c, fiber.StatusBadRequest, poolErr.Error())
	case errors.Is(err, service.ErrInvalidDueDate):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
