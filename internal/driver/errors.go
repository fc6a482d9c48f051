package driver

import (
	"errors"
	"fmt"
)

var (
	ErrNoSuchElement = errors.New("no such element")
	ErrStaleElement  = errors.New("stale element reference")
	ErrUnsupported   = errors.New("not supported by this driver")
)

// NotFoundError reports a FindElement miss together with the selector.
type NotFoundError struct {
	Selector Selector
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNoSuchElement, e.Selector)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNoSuchElement
}
