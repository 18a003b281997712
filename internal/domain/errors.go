package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to status codes; anything else is internal.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
)

var (
	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)
	ErrWalletNotFound      = fmt.Errorf("%w: wallet", ErrNotFound)
	ErrTaskNotFound        = fmt.Errorf("%w: task", ErrNotFound)
	ErrEquipmentNotFound   = fmt.Errorf("%w: equipment", ErrNotFound)
	ErrAchievementNotFound = fmt.Errorf("%w: achievement", ErrNotFound)

	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	ErrInvalidReward = fmt.Errorf("%w: reward must not be negative", ErrInvalidArgument)

	ErrAlreadyCompleted      = fmt.Errorf("%w: task already completed", ErrConflict)
	ErrAlreadyCompletedToday = fmt.Errorf("%w: task already completed today", ErrConflict)
	ErrAlreadyOwned          = fmt.Errorf("%w: equipment already in inventory", ErrConflict)
	ErrEmailTaken            = fmt.Errorf("%w: email already in use", ErrConflict)

	ErrLevelTooLow = fmt.Errorf("%w: level requirement not met", ErrForbidden)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
)
