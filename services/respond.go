package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RespondDomainError maps domain error kinds onto HTTP responses with stable
// reason strings, so the frontend can render specific guidance per kind.
func RespondDomainError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	reason := "internal error"

	switch {
	case errors.Is(err, ErrForbidden):
		status, reason = fiber.StatusForbidden, "forbidden"
	case errors.Is(err, ErrProjectNotFound):
		status, reason = fiber.StatusNotFound, "project_not_found"
	case errors.Is(err, ErrNotFound):
		status, reason = fiber.StatusNotFound, "not_found"
	case errors.Is(err, ErrAlreadyCompleted):
		status, reason = fiber.StatusConflict, "already_completed"
	case errors.Is(err, ErrAlreadyHighlighted):
		status, reason = fiber.StatusConflict, "already_highlighted"
	case errors.Is(err, ErrInsufficientPoints):
		status, reason = fiber.StatusBadRequest, "insufficient_points"
	case errors.Is(err, ErrInvalidReward):
		status, reason = fiber.StatusBadRequest, "invalid_reward"
	case errors.Is(err, ErrInvalidPaymentMethod):
		status, reason = fiber.StatusBadRequest, "invalid_payment_method"
	case errors.Is(err, ErrNotYetAchieved):
		status, reason = fiber.StatusBadRequest, "not_yet_achieved"
	case errors.Is(err, ErrStreakNotInDanger):
		status, reason = fiber.StatusBadRequest, "streak_not_in_danger"
	}

	return c.Status(status).JSON(fiber.Map{
		"error":  reason,
		"detail": err.Error(),
	})
}
