// Package testutil holds helpers for page suites: test-mode gating, HTML
// fixtures for the htmldriver backend and HAR recordings.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grez-lucas/pageobject/internal/har"
)

// TestModeEnv selects how browser-backed tests run: "mock" (default, no
// browser), "replay" (browser fed from HAR recordings) or "live".
const TestModeEnv = "PAGEOBJECT_TEST_MODE"

type TestMode string

const (
	ModeMock   TestMode = "mock"
	ModeReplay TestMode = "replay"
	ModeLive   TestMode = "live"
)

// Mode returns the configured test mode.
func Mode() TestMode {
	switch m := TestMode(strings.ToLower(os.Getenv(TestModeEnv))); m {
	case ModeReplay, ModeLive:
		return m
	}
	return ModeMock
}

// RequireMode skips the test unless the configured mode is one of modes.
func RequireMode(t *testing.T, modes ...TestMode) {
	t.Helper()

	current := Mode()
	for _, m := range modes {
		if m == current {
			return
		}
	}
	t.Skipf("skipping in %s mode; set %s to one of %v", current, TestModeEnv, modes)
}

// LoadFixture reads testdata/fixtures/<name>.html from the package under
// test.
func LoadFixture(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join("testdata", "fixtures", name+".html")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", path, err)
	}
	return string(data)
}

// Recording returns the path of testdata/recordings/<scenario>.har.json.
func Recording(scenario string) string {
	return filepath.Join("testdata", "recordings", scenario+".har.json")
}

// MustLoadHAR loads a recording and fails the test if it cannot.
func MustLoadHAR(t *testing.T, path string) *har.Log {
	t.Helper()

	rec, err := har.Load(path)
	if err != nil {
		t.Fatalf("failed to load HAR file %s: %v", path, err)
	}
	return rec
}
