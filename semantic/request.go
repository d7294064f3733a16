package semantic

import (
	"io"
	"strconv"

	"httpfetch/uri"

	"github.com/pkg/errors"
)

// Request describes a single outgoing exchange. A request is treated as
// immutable once issued; each redirect hop derives a fresh one.
type Request struct {
	Method  Method
	URI     uri.URI
	Headers Headers

	// Body is nil for bodiless requests. It is sent at most once: a
	// request carrying a body is never re-issued for a redirect hop.
	Body io.Reader
}

// Canonize validates the request and normalizes the parts that are
// compared case-insensitively.
func (r *Request) Canonize() error {
	r.Method = r.Method.Canonical()
	if r.Method == "" {
		r.Method = MethodGet
	}

	if r.URI.IsRelativeRef() {
		return errors.New("request URI must be absolute")
	}
	if r.URI.Authority == nil || r.URI.Authority.Host == "" {
		return errors.New("request URI is missing a host")
	}

	if r.URI.Path == "" {
		// An empty path is equivalent to "/" everywhere outside of
		// OPTIONS targets.
		// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-4.2.3
		r.URI.Path = "/"
	}

	// Every hop carries a Host header derived from its target, the
	// initial one included.
	r.Headers.Set("Host", hostHeader(r.URI))

	return nil
}

// Derive builds the request for the next hop: same method and headers,
// new target, no body.
func (r *Request) Derive(next uri.URI) *Request {
	derived := &Request{
		Method:  r.Method,
		URI:     next,
		Headers: r.Headers.Clone(),
	}
	derived.Headers.Set("Host", hostHeader(next))

	return derived
}

func hostHeader(u uri.URI) string {
	if u.Authority == nil {
		return ""
	}

	host := u.Authority.Host
	if p := u.Authority.Port; p != nil && *p != DefaultPort(u.Scheme) {
		host += ":" + strconv.FormatUint(uint64(*p), 10)
	}
	return host
}
