// Package scraper provides the scraper contract and the runner that executes
// registered scrapers with per-scraper failure isolation.
package scraper

import "context"

// Scraper is the contract every scraper variant satisfies. Implementations
// must be self-contained: a scraper may not depend on another scraper's state
// or output.
type Scraper interface {
	// Name returns a stable, non-empty identifier. It is the key under which
	// the scraper is registered with a Runner.
	Name() string

	// Run executes the scrape and returns a variant-specific result. The
	// shape of the result is opaque to the Runner but consistent for a given
	// variant.
	Run(ctx context.Context) (any, error)
}
