package page

import (
	"testing"
	"time"

	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/grez-lucas/pageobject/internal/driver/htmldriver"
	"github.com/grez-lucas/pageobject/internal/wait"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	loginURL   = "https://app.example.test/login"
	accountURL = "https://app.example.test/account"
)

const loginDoc = `<!DOCTYPE html>
<html>
<body>
	<div id="cookie-banner"><button id="accept-cookies">Accept</button></div>
	<form id="login-form">
		<input id="user" type="text">
		<input id="password" type="password">
		<input id="csrf" type="hidden" value="token">
		<button id="submit" disabled>Sign in</button>
	</form>
	<div id="spinner" style="display: none">Loading...</div>
	<p id="status">Signed out</p>
	<a href="/help">Need help?</a>
	<iframe id="captcha" srcdoc="&lt;div id=&quot;challenge&quot;&gt;Pick all the boats&lt;/div&gt;"></iframe>
</body>
</html>`

const accountDoc = `<html><body><h1 id="welcome">Welcome back</h1></body></html>`

func quietLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

// fastEngine polls often enough that tests measured in milliseconds are
// meaningful.
func fastEngine() wait.Engine {
	return wait.NewPoller(wait.WithInterval(5*time.Millisecond), wait.WithLogger(quietLogger()))
}

// setupPage returns a page over an htmldriver already showing the login
// document.
func setupPage(t *testing.T, desc Descriptor, opts ...htmldriver.Option) (*Page, *htmldriver.Driver) {
	t.Helper()

	opts = append([]htmldriver.Option{
		htmldriver.WithPage(loginURL, loginDoc),
		htmldriver.WithPage(accountURL, accountDoc),
	}, opts...)
	d := htmldriver.New(opts...)
	require.NoError(t, d.Navigate(loginURL))

	if desc.URL == "" {
		desc.URL = loginURL
	}
	p := New(d, desc, WithEngine(fastEngine()), WithLogger(quietLogger()), WithJSPollInterval(time.Millisecond))
	return p, d
}

func TestNew_DefaultTimeout(t *testing.T) {
	p := New(htmldriver.New(), Descriptor{URL: loginURL}, WithLogger(quietLogger()))

	assert.Equal(t, DefaultTimeout, p.Descriptor().Timeout)
	assert.Equal(t, 3*time.Second, New(htmldriver.New(), Descriptor{Timeout: 3 * time.Second}).Descriptor().Timeout)
}

func TestNavigate(t *testing.T) {
	p, d := setupPage(t, Descriptor{URL: accountURL})

	require.NoError(t, p.Navigate(""))
	assert.Equal(t, accountURL, d.URL(), "empty url navigates to the descriptor url")

	require.NoError(t, p.Navigate(loginURL))
	assert.Equal(t, loginURL, d.URL())

	err := p.Navigate("https://nowhere.test")
	assert.ErrorIs(t, err, htmldriver.ErrNoSuchPage, "driver errors are returned as is")
}

func TestAppVersion(t *testing.T) {
	d := htmldriver.New(htmldriver.WithAppVersion("2.1"))

	assert.Equal(t, "2.1", New(d, Descriptor{}).AppVersion(), "reported by the driver")
	assert.Equal(t, "3.0", New(d, Descriptor{}, WithAppVersion("3.0")).AppVersion(), "override wins")
	assert.Empty(t, New(htmldriver.New(), Descriptor{}).AppVersion())
}

func TestExists(t *testing.T) {
	p, _ := setupPage(t, Descriptor{Timeout: time.Minute})

	start := time.Now()
	missing, err := p.Exists(driver.CSS("#missing"))
	require.NoError(t, err)
	assert.False(t, missing)
	assert.Less(t, time.Since(start), time.Second, "exists never waits")

	hidden, err := p.Exists(driver.CSS("#csrf"))
	require.NoError(t, err)
	assert.True(t, hidden, "hidden elements still exist")

	_, err = p.Exists(driver.CSS("div[[["))
	assert.ErrorIs(t, err, htmldriver.ErrInvalidSelector)
}

func TestElementLookups(t *testing.T) {
	p, _ := setupPage(t, Descriptor{})

	el, err := p.Element(driver.Selector{By: driver.ByLinkText, Value: "Need help?"})
	require.NoError(t, err)
	text, err := el.Text()
	require.NoError(t, err)
	assert.Equal(t, "Need help?", text)

	els, err := p.Elements(driver.CSS("input"))
	require.NoError(t, err)
	assert.Len(t, els, 3)

	_, err = p.Element(driver.CSS("#missing"))
	assert.ErrorIs(t, err, driver.ErrNoSuchElement)
}

func TestFetchJSON(t *testing.T) {
	var gotURL any
	p, _ := setupPage(t, Descriptor{}, htmldriver.WithScript(fetchJSONScript, func(_ *htmldriver.Driver, args []any) (any, error) {
		gotURL = args[0]
		return map[string]any{
			"user":  map[string]any{"name": "alice", "id": 7},
			"roles": []any{"admin", "ops"},
		}, nil
	}))

	res, err := p.FetchJSON("/api/me")

	require.NoError(t, err)
	assert.Equal(t, "/api/me", gotURL)
	assert.Equal(t, "alice", res.Get("user.name").String())
	assert.Equal(t, int64(7), res.Get("user.id").Int())
	assert.Equal(t, "ops", res.Get("roles.1").String())
}

func TestFetchJSON_ScriptError(t *testing.T) {
	p, _ := setupPage(t, Descriptor{})

	_, err := p.FetchJSON("/api/me")

	assert.ErrorIs(t, err, driver.ErrUnsupported)
}

func TestScrollToBottomAndCookies(t *testing.T) {
	scrolled := 0
	p, d := setupPage(t, Descriptor{}, htmldriver.WithScript(scrollToBottomScript, func(*htmldriver.Driver, []any) (any, error) {
		scrolled++
		return nil, nil
	}))
	d.SetCookie("session", "abc")

	require.NoError(t, p.ScrollToBottom())
	require.NoError(t, p.DeleteAllCookies())

	assert.Equal(t, 1, scrolled)
	assert.Empty(t, d.Cookies())
}

func TestActionChain_FallsBackToElementChain(t *testing.T) {
	p, d := setupPage(t, Descriptor{})

	user, err := p.Element(driver.CSS("#user"))
	require.NoError(t, err)
	accept, err := p.Element(driver.CSS("#accept-cookies"))
	require.NoError(t, err)

	err = p.ActionChain().
		MoveTo(user).
		SendKeys("alice").
		ClickOn(accept).
		Perform()
	require.NoError(t, err)

	value, err := user.Attribute("value")
	require.NoError(t, err)
	assert.Equal(t, "alice", value)
	assert.Equal(t, []string{"#accept-cookies"}, d.Clicked())
}

func TestRandomStrings(t *testing.T) {
	for _, n := range []int{0, 1, 16, 200} {
		s := RandomString(n)
		assert.Len(t, s, n)
		for _, r := range s {
			assert.Contains(t, withSpace, string(r))
		}

		ns := NoWhitespaceString(n)
		assert.Len(t, ns, n)
		for _, r := range ns {
			assert.Contains(t, alphanumeric, string(r))
		}
	}

	assert.Empty(t, RandomString(-1))
}
