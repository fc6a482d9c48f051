// Package driver defines the capability set page objects need from a browser
// automation backend. Concrete backends live in the sub-packages.
package driver

// Driver is a handle to one browser session. Implementations are not safe for
// concurrent use; a single caller owns the handle at a time.
type Driver interface {
	// Navigate loads url in the current top-level browsing context.
	Navigate(url string) error

	// FindElement returns the first element matching sel in the current
	// frame, or an error wrapping ErrNoSuchElement. It never waits.
	FindElement(sel Selector) (Element, error)
	// FindElements returns every element matching sel in document order. An
	// empty result is not an error.
	FindElements(sel Selector) ([]Element, error)

	// ExecuteScript runs script as the body of a function, Selenium style, so
	// values are returned with an explicit "return". Arguments are available
	// through the arguments object. Promises are awaited.
	ExecuteScript(script string, args ...any) (any, error)

	DeleteAllCookies() error

	// SwitchToFrame makes the document of the given iframe element the
	// context of subsequent lookups.
	SwitchToFrame(frame Element) error
	// SwitchToParentFrame moves one level up the frame stack. At the top
	// level it is a no-op.
	SwitchToParentFrame() error
}

// Element is a handle to a node found by a Driver.
type Element interface {
	Click() error
	SendKeys(text string) error
	Text() (string, error)
	// Attribute returns the attribute value, or "" when it is absent.
	Attribute(name string) (string, error)
	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	Hover() error
}

// AppVersioner is implemented by drivers that know the version of the
// application under test.
type AppVersioner interface {
	// AppVersion returns "" when the version is unknown.
	AppVersion() string
}

// ActionBuilder is implemented by drivers with a native input pipeline. Other
// drivers get the element-level chain returned by NewActionChain.
type ActionBuilder interface {
	Actions() ActionChain
}
