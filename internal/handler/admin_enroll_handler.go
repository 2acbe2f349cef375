package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/csta-edu/enrollment-api/internal/service"
	"github.com/csta-edu/enrollment-api/internal/utils"
)

// AdminEnrollHandler wires the admin review endpoints for enrollment
// requests.
type AdminEnrollHandler struct {
	requests   service.RequestService
	enrollment service.EnrollmentService
	logger     zerolog.Logger
}

// NewAdminEnrollHandler constructs the handler.
func NewAdminEnrollHandler(requests service.RequestService, enrollment service.EnrollmentService, logger zerolog.Logger) *AdminEnrollHandler {
	return &AdminEnrollHandler{
		requests:   requests,
		enrollment: enrollment,
		logger:     logger.With().Str("component", "admin_enroll_handler").Logger(),
	}
}

// Register attaches enrollment review routes to the admin group.
func (h *AdminEnrollHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/:id/accept", h.accept)
	router.Post("/:id/reject", h.reject)
}

func (h *AdminEnrollHandler) list(c *fiber.Ctx) error {
	requests, err := h.requests.ListPending(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list enrollment requests")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list enrollment requests")
	}

	return utils.SendSuccess(c, "enrollment requests retrieved", requests)
}

func (h *AdminEnrollHandler) accept(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	result, err := h.enrollment.Accept(c.Context(), id, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "enrollment request not found")
		case errors.Is(err, service.ErrRequestAlreadyHandled):
			return utils.SendError(c, fiber.StatusBadRequest, "enrollment request already processed")
		case errors.Is(err, service.ErrUsernameExhausted):
			requestLogger(h.logger, c).Error().Uint("request_id", id).Msg("username candidates exhausted")
			return utils.SendError(c, fiber.StatusInternalServerError, "could not generate unique username; manual intervention required")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("request_id", id).Msg("failed to accept enrollment request")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to accept enrollment request")
		}
	}

	return utils.SendSuccess(c, "enrollment request accepted", result)
}

func (h *AdminEnrollHandler) reject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	result, err := h.enrollment.Reject(c.Context(), id, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "enrollment request not found")
		case errors.Is(err, service.ErrRequestAlreadyHandled):
			return utils.SendError(c, fiber.StatusBadRequest, "enrollment request already processed")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("request_id", id).Msg("failed to reject enrollment request")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to reject enrollment request")
		}
	}

	return utils.SendSuccess(c, "enrollment request rejected", result)
}
