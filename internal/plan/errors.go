package plan

import "errors"

var (
	ErrInvalidTransition = errors.New("plan transition not allowed from current state")
	ErrPlanStillActive   = errors.New("current plan is still active")
	ErrNoExpiry          = errors.New("professional has no plan expiry to change")
	ErrInvalidDuration   = errors.New("plan duration must be positive")
)
