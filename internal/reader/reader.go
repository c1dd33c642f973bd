// Package reader acquires MCDIL source text from local files or the
// network.
//
// The compiler calls Read whenever it starts a compilation or encounters an
// import statement. A reference resolves against the importing unit's base:
// local file first, then HTTP(S) when the reference or base is a URL. Too
// many web sources can make a build slow, since recursively chained web
// imports are only discovered as compilation proceeds.
package reader

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/McDic/MCDIL/internal/mcerr"
)

// Reader resolves source references. The zero value uses a default HTTP
// client with a conservative timeout.
type Reader struct {
	Client *http.Client
}

// DefaultTimeout bounds a single network fetch.
const DefaultTimeout = 30 * time.Second

func (r *Reader) client() *http.Client {
	if r != nil && r.Client != nil {
		return r.Client
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// Read fetches the text of reference, resolved against base (the canonical
// path of the importing unit, or "" for a top-level compile). It returns the
// text and the canonical path of the resolved source. Acquisition is
// synchronous and fully failed-or-succeeded; partial reads never escape.
func (r *Reader) Read(reference, base string) (text, canonical string, err error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return "", "", mcerr.NewSourceFetch(reference, fmt.Errorf("empty source reference"))
	}

	if IsURL(base) {
		return r.readURL(reference, base)
	}
	if IsURL(reference) {
		return r.readURL(reference, "")
	}

	// Local file, resolved against the importing file's directory.
	path := reference
	if base != "" && !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(base), path)
	}
	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		return "", "", mcerr.NewSourceFetch(reference, absErr)
	}
	data, readErr := os.ReadFile(abs)
	if readErr != nil {
		return "", "", mcerr.NewSourceFetch(reference, readErr)
	}
	return string(data), abs, nil
}

// readURL fetches reference over HTTP(S), resolving relative references
// against a URL base.
func (r *Reader) readURL(reference, base string) (string, string, error) {
	target := reference
	if base != "" && !IsURL(reference) {
		baseURL, err := url.Parse(base)
		if err != nil {
			return "", "", mcerr.NewSourceFetch(reference, err)
		}
		rel, err := url.Parse(reference)
		if err != nil {
			return "", "", mcerr.NewSourceFetch(reference, err)
		}
		target = baseURL.ResolveReference(rel).String()
	}

	resp, err := r.client().Get(target)
	if err != nil {
		return "", "", mcerr.NewSourceFetch(reference, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", "", mcerr.NewSourceFetch(reference,
			fmt.Errorf("unexpected status %s from %s", resp.Status, target))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", mcerr.NewSourceFetch(reference, err)
	}
	return string(body), target, nil
}

// IsURL reports whether reference addresses a network source.
func IsURL(reference string) bool {
	return strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://")
}
