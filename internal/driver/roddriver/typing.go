package roddriver

import (
	"math/rand/v2"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
)

// Typing turns text into keystrokes on an element.
type Typing func(el *rod.Element, text string) error

// TypeHuman types one key at a time with 50-150ms between keystrokes, for
// sites that score input cadence.
func TypeHuman(el *rod.Element, text string) error {
	for _, r := range text {
		if err := el.Type(input.Key(r)); err != nil {
			return err
		}
		time.Sleep(time.Duration(50+rand.IntN(100)) * time.Millisecond)
	}
	return nil
}

// TypeFast sends every key in one call. Each key still fires keydown and
// keyup.
func TypeFast(el *rod.Element, text string) error {
	keys := make([]input.Key, 0, len(text))
	for _, r := range text {
		keys = append(keys, input.Key(r))
	}
	return el.Type(keys...)
}
