package cdpdriver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/grez-lucas/pageobject/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		obj  *runtime.RemoteObject
		want any
	}{
		{"nil", nil, nil},
		{"undefined", &runtime.RemoteObject{Type: runtime.TypeUndefined}, nil},
		{"number", &runtime.RemoteObject{Type: runtime.TypeNumber, Value: []byte(`3`)}, 3.0},
		{"object", &runtime.RemoteObject{Type: runtime.TypeObject, Value: []byte(`{"ready":true}`)}, map[string]any{"ready": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode(tt.obj)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapErr(t *testing.T) {
	err := mapErr(errors.New("could not run: Could not find node with given id (-32000)"))
	assert.ErrorIs(t, err, driver.ErrStaleElement)

	other := errors.New("net::ERR_NAME_NOT_RESOLVED")
	assert.Same(t, other, mapErr(other))
}

func TestUnsupported(t *testing.T) {
	d := New(context.Background())

	assert.ErrorIs(t, d.SwitchToFrame(nil), driver.ErrUnsupported)
	assert.NoError(t, d.SwitchToParentFrame())

	_, err := d.ExecuteScript("return 1;", &element{d: d})
	assert.ErrorIs(t, err, driver.ErrUnsupported)
}

// setupDriver starts a headless Chrome tab showing body. The tab and the
// allocator are torn down via t.Cleanup.
func setupDriver(t *testing.T, body string) *Driver {
	t.Helper()
	testutil.RequireMode(t, testutil.ModeLive)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), chromedp.DefaultExecAllocatorOptions[:]...)
	t.Cleanup(cancelAlloc)
	ctx, cancel := chromedp.NewContext(allocCtx)
	t.Cleanup(cancel)
	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	t.Cleanup(cancelTimeout)

	d := New(ctx)
	require.NoError(t, d.Navigate("about:blank"))
	_, err := d.ExecuteScript("document.body.innerHTML = arguments[0];", body)
	require.NoError(t, err)
	return d
}

func TestLive_LookupsAndState(t *testing.T) {
	d := setupDriver(t, `<input id="user"><button id="go" disabled>Go</button><p id="hidden" style="display:none">x</p><a href="#">Need  help?</a>`)

	els, err := d.FindElements(driver.XPath("//button"))
	require.NoError(t, err)
	require.Len(t, els, 1)
	enabled, err := els[0].IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	hidden, err := d.FindElement(driver.CSS("#hidden"))
	require.NoError(t, err)
	visible, err := hidden.IsDisplayed()
	require.NoError(t, err)
	assert.False(t, visible)

	link, err := d.FindElement(driver.Selector{By: driver.ByLinkText, Value: "Need help?"})
	require.NoError(t, err)
	text, err := link.Text()
	require.NoError(t, err)
	assert.Equal(t, "Need help?", text)

	_, err = d.FindElement(driver.CSS("#missing"))
	assert.ErrorIs(t, err, driver.ErrNoSuchElement)

	user, err := d.FindElement(driver.CSS("#user"))
	require.NoError(t, err)
	require.NoError(t, user.SendKeys("alice"))
	v, err := d.ExecuteScript("return document.querySelector(arguments[0]).value;", "#user")
	require.NoError(t, err)
	assert.Equal(t, "alice", v)
}
