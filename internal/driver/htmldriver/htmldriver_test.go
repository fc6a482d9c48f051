package htmldriver

import (
	"errors"
	"testing"

	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/grez-lucas/pageobject/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginURL = "https://app.example.test/login"

// setupDriver returns a driver already navigated to the login fixture.
func setupDriver(t *testing.T, opts ...Option) *Driver {
	t.Helper()

	opts = append([]Option{
		WithPage(loginURL, testutil.LoadFixture(t, "login")),
		WithPage("https://ads.example.test/frame", `<div id="ad">Buy now</div>`),
	}, opts...)
	d := New(opts...)
	require.NoError(t, d.Navigate(loginURL))

	return d
}

func TestNavigate_UnknownURL(t *testing.T) {
	d := New()

	err := d.Navigate("https://nowhere.test")

	assert.ErrorIs(t, err, ErrNoSuchPage)
	assert.Empty(t, d.URL())
}

func TestFindElements_Strategies(t *testing.T) {
	d := setupDriver(t)

	tests := []struct {
		name string
		sel  driver.Selector
		want int
	}{
		{"css", driver.CSS("form#login-form input"), 3},
		{"xpath", driver.XPath("//button"), 2},
		{"id", driver.Selector{By: driver.ByID, Value: "user"}, 1},
		{"name", driver.Selector{By: driver.ByName, Value: "password"}, 1},
		{"tag", driver.Selector{By: driver.ByTagName, Value: "iframe"}, 2},
		{"class", driver.Selector{By: driver.ByClassName, Value: "primary"}, 2},
		{"link text collapses whitespace", driver.Selector{By: driver.ByLinkText, Value: "Need help?"}, 1},
		{"partial link text", driver.Selector{By: driver.ByPartialLinkText, Value: "account"}, 1},
		{"no match", driver.CSS("#missing"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			els, err := d.FindElements(tt.sel)
			require.NoError(t, err)
			assert.Len(t, els, tt.want)
		})
	}
}

func TestFindElement_NotFound(t *testing.T) {
	d := setupDriver(t)

	_, err := d.FindElement(driver.CSS("#missing"))

	assert.ErrorIs(t, err, driver.ErrNoSuchElement)
	var nf *driver.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, driver.CSS("#missing"), nf.Selector)
}

func TestFindElements_InvalidSelectors(t *testing.T) {
	d := setupDriver(t)

	_, err := d.FindElements(driver.CSS("div[[["))
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = d.FindElements(driver.XPath("//div[@id="))
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = d.FindElements(driver.Selector{By: "shadow", Value: "x"})
	assert.ErrorIs(t, err, driver.ErrUnsupported)
}

func TestElement_Visibility(t *testing.T) {
	d := setupDriver(t)

	tests := []struct {
		id   string
		want bool
	}{
		{"user", true},
		{"csrf", false},
		{"spinner", false},
		{"notice", false},
		{"accept-cookies", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			el, err := d.FindElement(driver.Selector{By: driver.ByID, Value: tt.id})
			require.NoError(t, err)

			visible, err := el.IsDisplayed()
			require.NoError(t, err)
			assert.Equal(t, tt.want, visible)
		})
	}
}

func TestElement_TextAndAttributes(t *testing.T) {
	d := setupDriver(t)

	banner, err := d.FindElement(driver.CSS("#cookie-banner"))
	require.NoError(t, err)
	text, err := banner.Text()
	require.NoError(t, err)
	assert.Equal(t, "We use cookies. Accept", text)

	spinner, err := d.FindElement(driver.CSS("#spinner"))
	require.NoError(t, err)
	text, err = spinner.Text()
	require.NoError(t, err)
	assert.Empty(t, text, "hidden elements have no text")

	csrf, err := d.FindElement(driver.CSS("#csrf"))
	require.NoError(t, err)
	value, err := csrf.Attribute("value")
	require.NoError(t, err)
	assert.Equal(t, "token", value)

	missing, err := csrf.Attribute("data-nope")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestElement_ClickAndEnabled(t *testing.T) {
	d := setupDriver(t)

	submit, err := d.FindElement(driver.CSS("#submit"))
	require.NoError(t, err)
	enabled, err := submit.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	accept, err := d.FindElement(driver.CSS("#accept-cookies"))
	require.NoError(t, err)
	require.NoError(t, accept.Click())

	spinner, err := d.FindElement(driver.CSS("#spinner"))
	require.NoError(t, err)
	assert.ErrorIs(t, spinner.Click(), ErrNotInteractable)

	assert.Equal(t, []string{"#accept-cookies"}, d.Clicked())
}

func TestElement_SendKeys(t *testing.T) {
	d := setupDriver(t)

	user, err := d.FindElement(driver.CSS("#user"))
	require.NoError(t, err)

	require.NoError(t, user.SendKeys("ali"))
	require.NoError(t, user.SendKeys("ce"))

	value, err := user.Attribute("value")
	require.NoError(t, err)
	assert.Equal(t, "alice", value)
}

func TestElement_StaleAfterLoad(t *testing.T) {
	d := setupDriver(t)

	user, err := d.FindElement(driver.CSS("#user"))
	require.NoError(t, err)

	d.MustLoad(`<p>other page</p>`)

	_, err = user.IsDisplayed()
	assert.ErrorIs(t, err, driver.ErrStaleElement)
	assert.ErrorIs(t, user.Click(), driver.ErrStaleElement)
}

func TestFrames_SwitchAndReturn(t *testing.T) {
	d := setupDriver(t)

	captcha, err := d.FindElement(driver.CSS("#captcha"))
	require.NoError(t, err)
	require.NoError(t, d.SwitchToFrame(captcha))
	assert.Equal(t, 1, d.FrameDepth())

	challenge, err := d.FindElement(driver.CSS("#challenge"))
	require.NoError(t, err)
	text, err := challenge.Text()
	require.NoError(t, err)
	assert.Equal(t, "Pick all the boats", text)

	_, err = d.FindElement(driver.CSS("#user"))
	assert.ErrorIs(t, err, driver.ErrNoSuchElement, "outer document is out of scope inside a frame")

	require.NoError(t, d.SwitchToParentFrame())
	assert.Equal(t, 0, d.FrameDepth())
	require.NoError(t, d.SwitchToParentFrame(), "parent of the top level is a no-op")

	ads, err := d.FindElement(driver.CSS("#ads"))
	require.NoError(t, err)
	require.NoError(t, d.SwitchToFrame(ads))
	_, err = d.FindElement(driver.CSS("#ad"))
	assert.NoError(t, err, "src frames are served from registered pages")
}

func TestFrames_RejectsNonFrame(t *testing.T) {
	d := setupDriver(t)

	user, err := d.FindElement(driver.CSS("#user"))
	require.NoError(t, err)

	assert.Error(t, d.SwitchToFrame(user))
	assert.Equal(t, 0, d.FrameDepth())
}

func TestExecuteScript(t *testing.T) {
	d := setupDriver(t, WithScript("return document.title", func(*Driver, []any) (any, error) {
		return "Sign in", nil
	}))

	v, err := d.ExecuteScript("return document.title")
	require.NoError(t, err)
	assert.Equal(t, "Sign in", v)

	_, err = d.ExecuteScript("return 1")
	assert.ErrorIs(t, err, driver.ErrUnsupported)

	boom := errors.New("boom")
	d.Handle("throw", func(_ *Driver, args []any) (any, error) {
		assert.Equal(t, []any{"a", 1}, args)
		return nil, boom
	})
	_, err = d.ExecuteScript("throw", "a", 1)
	assert.ErrorIs(t, err, boom)
}

func TestCookies(t *testing.T) {
	d := setupDriver(t)
	d.SetCookie("session", "abc")
	assert.Len(t, d.Cookies(), 1)

	require.NoError(t, d.DeleteAllCookies())

	assert.Empty(t, d.Cookies())
}

func TestAppVersion(t *testing.T) {
	assert.Empty(t, New().AppVersion())
	assert.Equal(t, "3.1", New(WithAppVersion("3.1")).AppVersion())

	var _ driver.AppVersioner = New()
}
