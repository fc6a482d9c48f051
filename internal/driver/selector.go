package driver

import (
	"fmt"
	"strings"
)

// By is a lookup strategy. The values match the W3C WebDriver strategy names
// so they can be passed to a remote end untouched.
type By string

const (
	ByCSSSelector     By = "css selector"
	ByXPath           By = "xpath"
	ByID              By = "id"
	ByName            By = "name"
	ByTagName         By = "tag name"
	ByClassName       By = "class name"
	ByLinkText        By = "link text"
	ByPartialLinkText By = "partial link text"
)

// Selector identifies element(s) in the current document.
type Selector struct {
	By    By
	Value string
}

// CSS returns a selector for the given CSS expression.
func CSS(value string) Selector {
	return Selector{By: ByCSSSelector, Value: value}
}

// XPath returns a selector for the given XPath expression.
func XPath(value string) Selector {
	return Selector{By: ByXPath, Value: value}
}

func (s Selector) String() string {
	return fmt.Sprintf("(%s, %q)", s.By, s.Value)
}

// Resolve returns s unchanged. It lets a plain Selector be used wherever a
// versioned locator is accepted.
func (s Selector) Resolve(string) (Selector, error) {
	return s, nil
}

// AsCSS translates s into an equivalent CSS selector. The second result is
// false for strategies CSS cannot express (xpath and link text).
func (s Selector) AsCSS() (string, bool) {
	switch s.By {
	case ByCSSSelector:
		return s.Value, true
	case ByID:
		return fmt.Sprintf(`[id=%s]`, cssString(s.Value)), true
	case ByName:
		return fmt.Sprintf(`[name=%s]`, cssString(s.Value)), true
	case ByTagName:
		return s.Value, true
	case ByClassName:
		return fmt.Sprintf(`[class~=%s]`, cssString(s.Value)), true
	default:
		return "", false
	}
}

// AsXPath translates s into an equivalent XPath expression. The second result
// is false for CSS selectors.
func (s Selector) AsXPath() (string, bool) {
	switch s.By {
	case ByXPath:
		return s.Value, true
	case ByID:
		return fmt.Sprintf(`//*[@id=%s]`, xpathString(s.Value)), true
	case ByName:
		return fmt.Sprintf(`//*[@name=%s]`, xpathString(s.Value)), true
	case ByTagName:
		return "//" + s.Value, true
	case ByClassName:
		return fmt.Sprintf(`//*[contains(concat(' ', normalize-space(@class), ' '), %s)]`,
			xpathString(" "+s.Value+" ")), true
	case ByLinkText:
		return fmt.Sprintf(`//a[normalize-space(.)=%s]`, xpathString(s.Value)), true
	case ByPartialLinkText:
		return fmt.Sprintf(`//a[contains(., %s)]`, xpathString(s.Value)), true
	default:
		return "", false
	}
}

func cssString(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(v) + `"`
}

// xpathString quotes v as an XPath 1.0 literal. XPath has no escape
// character, so values holding both quote kinds are built with concat().
func xpathString(v string) string {
	if !strings.Contains(v, `"`) {
		return `"` + v + `"`
	}
	if !strings.Contains(v, `'`) {
		return `'` + v + `'`
	}

	parts := strings.Split(v, `"`)
	args := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `'"'`)
		}
		if p != "" {
			args = append(args, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}
