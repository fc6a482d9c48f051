// pagecheck inspects live pages with the same drivers page objects use.
//
// Usage:
//
//	pagecheck probe https://app.example.test/login --css "Login form=form#login" --frames 1
//	pagecheck capture https://app.example.test/login -o internal/pages/testdata/fixtures/login.html
//	pagecheck redact testdata/recordings/login.har.json
//
// Settings come from .env and PAGEOBJECT_* variables; see internal/config.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
