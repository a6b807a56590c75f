package flap

import "errors"

var (
	// ErrRunning is returned when Animate is called while a run is active.
	ErrRunning = errors.New("flap: animation already running")

	// ErrInvalidOptions wraps every options validation failure.
	ErrInvalidOptions = errors.New("flap: invalid options")

	// ErrNoScheduler is returned when an animator has no scheduler.
	ErrNoScheduler = errors.New("flap: no scheduler")
)
