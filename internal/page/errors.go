package page

import (
	"errors"
	"fmt"
	"time"

	"github.com/grez-lucas/pageobject/internal/wait"
)

var (
	// ErrFatal marks failures after which the suite should stop rather than
	// move on to the next assertion.
	ErrFatal = errors.New("fatal page failure")

	ErrEmptyVersionMap = errors.New("versioned selector has no entries")
)

// FatalError is returned by WaitForJS when the expression never reaches the
// expected value. It matches both ErrFatal and wait.ErrTimeout.
type FatalError struct {
	Message string
	Timeout time.Duration
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Message
}

func (e *FatalError) Is(target error) bool {
	return target == ErrFatal || target == wait.ErrTimeout
}

// VersionError reports a version string that could not be parsed.
type VersionError struct {
	Version string
	Err     error
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("parse version %q: %v", e.Version, e.Err)
}

func (e *VersionError) Unwrap() error {
	return e.Err
}
