package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/peerjury/peerjury-go-api/internal/service"
	"github.com/peerjury/peerjury-go-api/internal/utils"
)

// JuryHandler serves the evaluator's own view of their assignments.
type JuryHandler struct {
	jury   service.JuryService
	logger zerolog.Logger
}

// NewJuryHandler constructs the handler.
func NewJuryHandler(jury service.JuryService, logger zerolog.Logger) *JuryHandler {
	return &JuryHandler{
		jury:   jury,
		logger: logger.With().Str("component", "jury_handler").Logger(),
	}
}

// Register attaches jury endpoints to the router group.
func (h *JuryHandler) Register(router fiber.Router) {
	router.Get("/assignments", h.listAssignments)
}

func (h *JuryHandler) listAssignments(c *fiber.Ctx) error {
	assignments, err := h.jury.ListAssignments(c.Context(), userIDFromContext(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}
