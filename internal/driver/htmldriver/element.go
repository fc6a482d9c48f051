package htmldriver

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/grez-lucas/pageobject/internal/driver"
	"golang.org/x/net/html"
)

// hiddenTags never render.
var hiddenTags = map[string]bool{
	"head":     true,
	"title":    true,
	"meta":     true,
	"link":     true,
	"script":   true,
	"style":    true,
	"template": true,
	"noscript": true,
}

type element struct {
	d    *Driver
	node *html.Node
}

func (e *element) Click() error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if !e.d.attached(e.node) {
		return driver.ErrStaleElement
	}
	if !displayed(e.node) {
		return ErrNotInteractable
	}

	e.d.clicked = append(e.d.clicked, label(e.node))
	return nil
}

// SendKeys appends text to the value attribute.
func (e *element) SendKeys(text string) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if !e.d.attached(e.node) {
		return driver.ErrStaleElement
	}
	if !displayed(e.node) || hasAttr(e.node, "disabled") {
		return ErrNotInteractable
	}

	for i, a := range e.node.Attr {
		if a.Key == "value" {
			e.node.Attr[i].Val += text
			return nil
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: "value", Val: text})
	return nil
}

// Text returns the whitespace-collapsed text of a displayed element, and ""
// for hidden ones, like a WebDriver remote end does.
func (e *element) Text() (string, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if !e.d.attached(e.node) {
		return "", driver.ErrStaleElement
	}
	if !displayed(e.node) {
		return "", nil
	}

	text := goquery.NewDocumentFromNode(e.node).Text()
	return strings.Join(strings.Fields(text), " "), nil
}

func (e *element) Attribute(name string) (string, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if !e.d.attached(e.node) {
		return "", driver.ErrStaleElement
	}
	return htmlquery.SelectAttr(e.node, name), nil
}

func (e *element) IsDisplayed() (bool, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if !e.d.attached(e.node) {
		return false, driver.ErrStaleElement
	}
	return displayed(e.node), nil
}

func (e *element) IsEnabled() (bool, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if !e.d.attached(e.node) {
		return false, driver.ErrStaleElement
	}
	return !hasAttr(e.node, "disabled"), nil
}

func (e *element) Hover() error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if !e.d.attached(e.node) {
		return driver.ErrStaleElement
	}
	return nil
}

// displayed walks up from n looking for anything that hides it: a
// non-rendered tag, the hidden attribute, a hidden input or an inline
// display:none / visibility:hidden style.
func displayed(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if hiddenTags[cur.Data] || hasAttr(cur, "hidden") {
			return false
		}
		if cur.Data == "input" && strings.EqualFold(htmlquery.SelectAttr(cur, "type"), "hidden") {
			return false
		}

		style := strings.ToLower(strings.ReplaceAll(htmlquery.SelectAttr(cur, "style"), " ", ""))
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

func label(n *html.Node) string {
	if id := htmlquery.SelectAttr(n, "id"); id != "" {
		return "#" + id
	}
	return n.Data
}
