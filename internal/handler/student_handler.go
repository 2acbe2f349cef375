package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/csta-edu/enrollment-api/internal/service"
	"github.com/csta-edu/enrollment-api/internal/utils"
)

// StudentHandler serves the authenticated student's own profile.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student profile routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/me", h.me)
}

func (h *StudentHandler) me(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	profile, err := h.service.Me(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student record not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch student profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch student profile")
	}

	return utils.SendSuccess(c, "student profile retrieved", profile)
}
