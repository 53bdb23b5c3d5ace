package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrNonPositiveQuota = fmt.Errorf("quota must be positive")
	ErrNonPositiveBound = fmt.Errorf("bound must be positive")
	ErrBoundsInverted   = fmt.Errorf("minimum length exceeds maximum length")
	ErrConnClosed       = fmt.Errorf("connection already closed")
)
