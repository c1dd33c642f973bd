// Package cache holds resolved source text keyed by canonical path.
//
// One Codes instance is shared across a whole compilation, including every
// recursively imported file, and is never invalidated mid-compilation. The
// same canonical path yielding two different texts is a correctness guard
// violation and fails fatally rather than picking one version.
package cache

import "github.com/McDic/MCDIL/internal/mcerr"

// Codes is the in-memory source-text cache.
type Codes struct {
	texts map[string]string
}

// NewCodes creates an empty cache.
func NewCodes() *Codes {
	return &Codes{texts: make(map[string]string)}
}

// Get returns the cached text for a canonical path.
func (c *Codes) Get(canonical string) (string, bool) {
	text, ok := c.texts[canonical]
	return text, ok
}

// Put stores text under a canonical path. Storing identical text twice is a
// no-op; different text for an existing path is a fatal cache mismatch.
func (c *Codes) Put(canonical, text string) error {
	if existing, ok := c.texts[canonical]; ok {
		if existing != text {
			return mcerr.NewCacheMismatch(canonical)
		}
		return nil
	}
	c.texts[canonical] = text
	return nil
}

// Len returns the number of cached sources.
func (c *Codes) Len() int {
	return len(c.texts)
}

// Paths returns every cached canonical path in unspecified order.
func (c *Codes) Paths() []string {
	paths := make([]string, 0, len(c.texts))
	for path := range c.texts {
		paths = append(paths, path)
	}
	return paths
}
