package card

import "errors"

var (
	ErrAlreadyCompleted = errors.New("task is already completed")
	ErrTaskRecovering   = errors.New("task is recovering")
	ErrNoSuchSlot       = errors.New("no such slot on the card")
	ErrPoolTooSmall     = errors.New("task pool is too small for the card size")
)
