package wait

import (
	"errors"
	"fmt"
	"time"
)

var ErrTimeout = errors.New("wait timed out")

// TimeoutError is returned when a condition does not hold in time. It matches
// ErrTimeout with errors.Is and unwraps to the last ignored condition error.
type TimeoutError struct {
	Message string
	Timeout time.Duration
	LastErr error
}

func (e *TimeoutError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("timed out after %s", e.Timeout)
	}
	if e.LastErr != nil {
		return fmt.Sprintf("%s (last error: %v)", msg, e.LastErr)
	}
	return msg
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

func (e *TimeoutError) Unwrap() error {
	return e.LastErr
}
