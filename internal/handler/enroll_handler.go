package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/csta-edu/enrollment-api/internal/dto"
	"github.com/csta-edu/enrollment-api/internal/service"
	"github.com/csta-edu/enrollment-api/internal/utils"
)

// EnrollHandler serves the public enrollment submission endpoint.
type EnrollHandler struct {
	service service.RequestService
	logger  zerolog.Logger
}

// NewEnrollHandler constructs the handler.
func NewEnrollHandler(service service.RequestService, logger zerolog.Logger) *EnrollHandler {
	return &EnrollHandler{
		service: service,
		logger:  logger.With().Str("component", "enroll_handler").Logger(),
	}
}

// Register attaches the public enrollment route.
func (h *EnrollHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
}

func (h *EnrollHandler) submit(c *fiber.Ctx) error {
	var payload dto.EnrollSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Submit(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit enrollment request")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit enrollment request")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrollment request submitted", response)
}
