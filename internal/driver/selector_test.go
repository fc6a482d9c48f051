package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelector_AsCSS(t *testing.T) {
	tests := []struct {
		name string
		sel  Selector
		want string
		ok   bool
	}{
		{"css passthrough", CSS("div.popup > button"), "div.popup > button", true},
		{"id", Selector{ByID, "login"}, `[id="login"]`, true},
		{"id with quote", Selector{ByID, `a"b`}, `[id="a\"b"]`, true},
		{"name", Selector{ByName, "email"}, `[name="email"]`, true},
		{"tag", Selector{ByTagName, "iframe"}, "iframe", true},
		{"class", Selector{ByClassName, "btn"}, `[class~="btn"]`, true},
		{"xpath", XPath("//a"), "", false},
		{"link text", Selector{ByLinkText, "Home"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.sel.AsCSS()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelector_AsXPath(t *testing.T) {
	tests := []struct {
		name string
		sel  Selector
		want string
		ok   bool
	}{
		{"xpath passthrough", XPath("//div[@id='x']"), "//div[@id='x']", true},
		{"id", Selector{ByID, "login"}, `//*[@id="login"]`, true},
		{"tag", Selector{ByTagName, "a"}, "//a", true},
		{"link text", Selector{ByLinkText, "Sign in"}, `//a[normalize-space(.)="Sign in"]`, true},
		{"partial link text", Selector{ByPartialLinkText, "Sign"}, `//a[contains(., "Sign")]`, true},
		{"single quotes kept", Selector{ByLinkText, `say "hi"`}, `//a[normalize-space(.)='say "hi"']`, true},
		{"both quotes", Selector{ByName, `it's "x"`}, `//*[@name=concat("it's ", '"', "x", '"')]`, true},
		{"css", CSS("div"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.sel.AsXPath()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelector_ResolveIsIdentity(t *testing.T) {
	sel := CSS("#main")

	got, err := sel.Resolve("9.9")

	assert.NoError(t, err)
	assert.Equal(t, sel, got)
	assert.Equal(t, `(css selector, "#main")`, sel.String())
}
