// Package urlx normalizes user-supplied URLs before they enter the
// analysis pipeline.
package urlx

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Errors returned by Normalize.
var (
	ErrEmptyURL    = &url.Error{Op: "normalize", URL: "", Err: &errStr{"empty url"}}
	ErrMissingHost = &url.Error{Op: "normalize", URL: "", Err: &errStr{"missing host"}}
)

type errStr struct{ s string }

func (e *errStr) Error() string { return e.s }

// Options controls optional normalization policies.
type Options struct {
	// DefaultScheme is assumed for schemeless input. Empty requires a scheme.
	DefaultScheme string
}

// DefaultOptions matches the CLI behavior: schemeless input becomes https.
func DefaultOptions() Options {
	return Options{DefaultScheme: "https"}
}

// Normalize returns a deterministic normalized URL string or an error.
// Scheme and host are lowercased, IDN hosts are converted to punycode,
// default ports and credentials are dropped, and fragments removed.
func Normalize(raw string, opts Options) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}

	if opts.DefaultScheme != "" && !strings.Contains(raw, "://") {
		raw = opts.DefaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", ErrMissingHost
	}

	u.Scheme = strings.ToLower(u.Scheme)

	host := strings.ToLower(u.Hostname())
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}

	// Preserve non-default port only.
	port := u.Port()
	switch {
	case (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443"):
		u.Host = host
	case port != "":
		u.Host = net.JoinHostPort(host, port)
	default:
		u.Host = host
	}

	u.User = nil
	u.Fragment = ""

	return u.String(), nil
}

// Scheme reports the lowercased scheme of rawURL, or "" when unparseable.
func Scheme(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// Resolve resolves ref against base and returns an absolute URL string.
// It returns the ref unchanged when either side fails to parse.
func Resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
