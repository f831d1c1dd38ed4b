package services

import "errors"

// Domain error kinds. Handlers match these with errors.Is and map them to a
// stable reason string plus HTTP status, so the frontend can render specific
// guidance instead of a generic failure banner. Every kind is detected before
// any document mutation — a partial mutation followed by an error is never
// acceptable.
var (
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrAlreadyCompleted     = errors.New("challenge already completed")
	ErrAlreadyHighlighted   = errors.New("shared challenge already highlighted")
	ErrInsufficientPoints   = errors.New("insufficient points")
	ErrInvalidReward        = errors.New("invalid reward")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrNotYetAchieved       = errors.New("rank requirement not yet achieved")
	ErrStreakNotInDanger    = errors.New("streak is not in danger")
)
