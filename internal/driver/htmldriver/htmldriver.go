// Package htmldriver implements driver.Driver over static HTML documents.
// Page objects can be exercised against captured fixtures without a browser:
// CSS lookups go through goquery, XPath lookups through htmlquery, and
// scripts are answered by registered handlers.
package htmldriver

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/grez-lucas/pageobject/internal/driver"
	"golang.org/x/net/html"
)

var (
	ErrNoSuchPage      = errors.New("no fixture registered for url")
	ErrInvalidSelector = errors.New("invalid selector")
	ErrNotInteractable = errors.New("element not interactable")
)

// ScriptFunc answers an ExecuteScript call.
type ScriptFunc func(d *Driver, args []any) (any, error)

// Driver holds one parsed document plus a stack of entered frames. It is safe
// for concurrent use so tests can swap documents while a wait is polling.
type Driver struct {
	mu sync.Mutex

	pages   map[string]string
	scripts map[string]ScriptFunc

	url    string
	doc    *html.Node
	frames []*html.Node
	// frameDocs caches parsed iframe documents by iframe node so repeated
	// lookups inside a frame see the same nodes.
	frameDocs map[*html.Node]*html.Node

	cookies    map[string]string
	clicked    []string
	appVersion string
}

// Option configures a Driver.
type Option func(*Driver)

// WithPage registers the document served when url is navigated to.
func WithPage(url, doc string) Option {
	return func(d *Driver) {
		d.pages[url] = doc
	}
}

// WithScript registers a handler for an exact script body.
func WithScript(script string, fn ScriptFunc) Option {
	return func(d *Driver) {
		d.scripts[script] = fn
	}
}

// WithAppVersion sets the application version reported to page objects.
func WithAppVersion(v string) Option {
	return func(d *Driver) {
		d.appVersion = v
	}
}

// New returns a Driver showing an empty document.
func New(opts ...Option) *Driver {
	d := &Driver{
		pages:     make(map[string]string),
		scripts:   make(map[string]ScriptFunc),
		cookies:   make(map[string]string),
		frameDocs: make(map[*html.Node]*html.Node),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.doc, _ = html.Parse(strings.NewReader(""))
	return d
}

// Load replaces the current document. Elements found before the call become
// stale.
func (d *Driver) Load(doc string) error {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.doc = root
	d.frames = nil
	d.frameDocs = make(map[*html.Node]*html.Node)
	return nil
}

// MustLoad is like Load but panics on error.
func (d *Driver) MustLoad(doc string) {
	if err := d.Load(doc); err != nil {
		panic(err)
	}
}

// Handle registers a handler for an exact script body.
func (d *Driver) Handle(script string, fn ScriptFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scripts[script] = fn
}

// URL returns the last URL navigated to.
func (d *Driver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

// Clicked lists the elements clicked so far, as "#id" or the tag name.
func (d *Driver) Clicked() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicked...)
}

// SetCookie stores a cookie in the in-memory jar.
func (d *Driver) SetCookie(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cookies[name] = value
}

// Cookies returns a copy of the cookie jar.
func (d *Driver) Cookies() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]string, len(d.cookies))
	for k, v := range d.cookies {
		out[k] = v
	}
	return out
}

// FrameDepth reports how many frames have been entered.
func (d *Driver) FrameDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

func (d *Driver) AppVersion() string {
	return d.appVersion
}

func (d *Driver) Navigate(url string) error {
	d.mu.Lock()
	doc, ok := d.pages[url]
	d.mu.Unlock()

	if !ok {
		return fmt.Errorf("navigate: %w: %s", ErrNoSuchPage, url)
	}
	if err := d.Load(doc); err != nil {
		return err
	}

	d.mu.Lock()
	d.url = url
	d.mu.Unlock()
	return nil
}

func (d *Driver) FindElement(sel driver.Selector) (driver.Element, error) {
	els, err := d.FindElements(sel)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, &driver.NotFoundError{Selector: sel}
	}
	return els[0], nil
}

func (d *Driver) FindElements(sel driver.Selector) ([]driver.Element, error) {
	d.mu.Lock()
	root := d.current()
	d.mu.Unlock()

	nodes, err := query(root, sel)
	if err != nil {
		return nil, err
	}

	els := make([]driver.Element, len(nodes))
	for i, n := range nodes {
		els[i] = &element{d: d, node: n}
	}
	return els, nil
}

func query(root *html.Node, sel driver.Selector) ([]*html.Node, error) {
	if css, ok := sel.AsCSS(); ok {
		m, err := cascadia.Compile(css)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrInvalidSelector, sel, err)
		}
		return goquery.NewDocumentFromNode(root).FindMatcher(m).Nodes, nil
	}

	expr, ok := sel.AsXPath()
	if !ok {
		return nil, fmt.Errorf("%w: strategy %q", driver.ErrUnsupported, sel.By)
	}
	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidSelector, sel, err)
	}
	return nodes, nil
}

func (d *Driver) ExecuteScript(script string, args ...any) (any, error) {
	d.mu.Lock()
	fn, ok := d.scripts[script]
	d.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("execute script: %w: no handler for %q", driver.ErrUnsupported, script)
	}
	return fn(d, args)
}

func (d *Driver) DeleteAllCookies() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cookies = make(map[string]string)
	return nil
}

// SwitchToFrame enters an iframe. The frame document comes from the srcdoc
// attribute or, failing that, from the page registered for its src.
func (d *Driver) SwitchToFrame(frame driver.Element) error {
	el, ok := frame.(*element)
	if !ok {
		return fmt.Errorf("switch to frame: %w: foreign element %T", driver.ErrUnsupported, frame)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.attached(el.node) {
		return driver.ErrStaleElement
	}
	if el.node.Data != "iframe" && el.node.Data != "frame" {
		return fmt.Errorf("switch to frame: <%s> is not a frame", el.node.Data)
	}

	doc, ok := d.frameDocs[el.node]
	if !ok {
		src := htmlquery.SelectAttr(el.node, "srcdoc")
		if src == "" {
			src = d.pages[htmlquery.SelectAttr(el.node, "src")]
		}
		parsed, err := html.Parse(strings.NewReader(src))
		if err != nil {
			return fmt.Errorf("parse frame document: %w", err)
		}
		doc = parsed
		d.frameDocs[el.node] = doc
	}

	d.frames = append(d.frames, doc)
	return nil
}

func (d *Driver) SwitchToParentFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.frames) > 0 {
		d.frames = d.frames[:len(d.frames)-1]
	}
	return nil
}

// current returns the document lookups run against. Callers hold d.mu.
func (d *Driver) current() *html.Node {
	if len(d.frames) > 0 {
		return d.frames[len(d.frames)-1]
	}
	return d.doc
}

// attached reports whether n still belongs to a live document. Callers hold
// d.mu.
func (d *Driver) attached(n *html.Node) bool {
	top := n
	for top.Parent != nil {
		top = top.Parent
	}
	if top == d.doc {
		return true
	}
	for _, doc := range d.frameDocs {
		if top == doc {
			return true
		}
	}
	return false
}
