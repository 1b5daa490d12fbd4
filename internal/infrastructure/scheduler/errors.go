package scheduler

import "errors"

var (
	// ErrReconcilerNotRunning is returned when triggering a sweep on a stopped reconciler
	ErrReconcilerNotRunning = errors.New("reconciler is not running")

	// ErrReconcilerDisabled is returned when the reconciler is disabled by configuration
	ErrReconcilerDisabled = errors.New("reconciler is disabled")

	// ErrSweepAlreadyRunning is returned when a sweep is already in progress
	ErrSweepAlreadyRunning = errors.New("reconciliation sweep already in progress")
)
