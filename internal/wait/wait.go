// Package wait polls conditions against a driver until they hold or a
// timeout elapses.
package wait

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/sirupsen/logrus"
)

// DefaultInterval matches the polling frequency of Selenium's WebDriverWait.
const DefaultInterval = 500 * time.Millisecond

// Condition is a named check evaluated on every poll. Check reports success
// by returning a truthy value (see Truthy); that value is handed back to the
// caller of Engine.Until.
type Condition struct {
	Name  string
	Check func(d driver.Driver) (any, error)
}

func (c Condition) String() string {
	return c.Name
}

// Engine runs a Condition until it holds. On timeout it returns a
// *TimeoutError carrying message.
type Engine interface {
	Until(ctx context.Context, d driver.Driver, cond Condition, timeout time.Duration, message string) (any, error)
}

// Truthy reports whether a condition result counts as success: anything but
// nil, false and an empty element slice.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case []driver.Element:
		return len(x) > 0
	}
	return true
}

// Any combines conditions with OR. A poll succeeds on the first member that
// yields a truthy value. Member errors are treated as "not yet" so a missing
// element in one branch does not abort the others.
func Any(conds ...Condition) Condition {
	names := make([]string, len(conds))
	for i, c := range conds {
		names[i] = c.Name
	}

	return Condition{
		Name: "any of [" + strings.Join(names, "; ") + "]",
		Check: func(d driver.Driver) (any, error) {
			for _, c := range conds {
				v, err := c.Check(d)
				if err == nil && Truthy(v) {
					return true, nil
				}
			}
			return nil, nil
		},
	}
}

// Poller is the default Engine. It sleeps Interval between polls and treats
// errors matching one of Ignored as an unsatisfied poll.
type Poller struct {
	interval time.Duration
	ignored  []error
	log      logrus.FieldLogger
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the delay between polls.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		p.interval = d
	}
}

// WithIgnored replaces the list of errors that do not abort a wait.
func WithIgnored(errs ...error) Option {
	return func(p *Poller) {
		p.ignored = errs
	}
}

// WithLogger sets the logger used for wait progress.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Poller) {
		p.log = l
	}
}

// NewPoller returns a Poller that ignores missing and stale elements.
func NewPoller(opts ...Option) *Poller {
	p := &Poller{
		interval: DefaultInterval,
		ignored:  []error{driver.ErrNoSuchElement, driver.ErrStaleElement},
		log:      logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Until evaluates cond at least once, then every interval until it holds,
// timeout elapses or ctx is done.
func (p *Poller) Until(ctx context.Context, d driver.Driver, cond Condition, timeout time.Duration, message string) (any, error) {
	log := p.log.WithField("condition", cond.Name)
	start := time.Now()
	deadline := start.Add(timeout)

	log.WithField("timeout", timeout).Debug("waiting")

	var lastErr error
	for {
		v, err := cond.Check(d)
		if err == nil && Truthy(v) {
			log.WithField("elapsed", time.Since(start)).Debug("condition met")
			return v, nil
		}
		if err != nil {
			if !p.isIgnored(err) {
				return nil, err
			}
			lastErr = err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &TimeoutError{Message: message, Timeout: timeout, LastErr: lastErr}
		}

		timer := time.NewTimer(min(p.interval, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *Poller) isIgnored(err error) bool {
	for _, target := range p.ignored {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
