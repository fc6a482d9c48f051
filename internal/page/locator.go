package page

import (
	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/hashicorp/go-version"
)

// Locator resolves to a Selector for a given application version ("" when
// unknown). driver.Selector resolves to itself.
type Locator interface {
	Resolve(appVersion string) (driver.Selector, error)
}

// VersionEntry binds a selector to the first application version it applies
// to.
type VersionEntry struct {
	Version  string
	Selector driver.Selector
}

// Since is shorthand for a VersionEntry.
func Since(version string, sel driver.Selector) VersionEntry {
	return VersionEntry{Version: version, Selector: sel}
}

// VersionedSelector holds the markup variants of one element across
// application versions, in insertion order.
type VersionedSelector []VersionEntry

// Versioned builds a VersionedSelector from entries in the given order.
func Versioned(entries ...VersionEntry) VersionedSelector {
	return VersionedSelector(entries)
}

// Resolve returns the selector of the last entry whose version is not above
// appVersion. It falls back to the first entry when appVersion is empty or no
// entry qualifies. Versions may have any number of numeric segments and a
// pre-release suffix ("2.5.0.1", "2.5rc1"); missing segments count as zero,
// so "2.5" equals "2.5.0".
func (v VersionedSelector) Resolve(appVersion string) (driver.Selector, error) {
	if len(v) == 0 {
		return driver.Selector{}, ErrEmptyVersionMap
	}

	var (
		current *version.Version
		known   = appVersion != ""
	)
	if known {
		parsed, err := version.NewVersion(appVersion)
		if err != nil {
			return driver.Selector{}, &VersionError{Version: appVersion, Err: err}
		}
		current = parsed
	}

	result := v[0].Selector
	for _, entry := range v {
		since, err := version.NewVersion(entry.Version)
		if err != nil {
			return driver.Selector{}, &VersionError{Version: entry.Version, Err: err}
		}
		if known && current.GreaterThanOrEqual(since) {
			result = entry.Selector
		}
	}

	return result, nil
}
