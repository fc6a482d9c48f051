package wddriver

import (
	"context"
	"errors"
	"time"

	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/grez-lucas/pageobject/internal/wait"
	"github.com/tebeka/selenium"
)

// Engine is a wait.Engine that runs conditions inside the session's own
// WaitWithTimeoutAndInterval loop.
type Engine struct {
	wd       selenium.WebDriver
	interval time.Duration
	ignored  []error
}

// NewEngine returns an Engine polling every interval, or
// wait.DefaultInterval when interval is zero.
func NewEngine(wd selenium.WebDriver, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = wait.DefaultInterval
	}
	return &Engine{
		wd:       wd,
		interval: interval,
		ignored:  []error{driver.ErrNoSuchElement, driver.ErrStaleElement},
	}
}

func (e *Engine) Until(ctx context.Context, d driver.Driver, cond wait.Condition, timeout time.Duration, message string) (any, error) {
	var result any
	var lastErr, abort error

	err := e.wd.WaitWithTimeoutAndInterval(func(selenium.WebDriver) (bool, error) {
		if err := ctx.Err(); err != nil {
			abort = err
			return false, err
		}

		v, err := cond.Check(d)
		if err != nil {
			if e.isIgnored(err) {
				lastErr = err
				return false, nil
			}
			abort = err
			return false, err
		}
		if wait.Truthy(v) {
			result = v
			return true, nil
		}
		return false, nil
	}, timeout, e.interval)

	switch {
	case err == nil:
		return result, nil
	case abort != nil:
		return nil, abort
	}
	return nil, &wait.TimeoutError{Message: message, Timeout: timeout, LastErr: lastErr}
}

func (e *Engine) isIgnored(err error) bool {
	for _, target := range e.ignored {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
