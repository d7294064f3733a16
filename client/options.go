package client

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultMaxRedirects bounds a redirect chain when no explicit limit is
// configured.
const DefaultMaxRedirects = 10

type Options struct {
	Redirect RedirectOptions
	Agent    AgentConfig
	TLS      TLSOptions
	Timeout  TimeoutOptions

	// Limiter, when set, paces outgoing hops across the whole client.
	Limiter *rate.Limiter
}

type RedirectOptions struct {
	// NoFollow surfaces redirect-class responses to the caller instead
	// of following them.
	NoFollow bool

	// Max bounds the number of followed redirects per call.
	// Zero means DefaultMaxRedirects.
	Max uint
}

func (o RedirectOptions) max() uint {
	if o.Max == 0 {
		return DefaultMaxRedirects
	}
	return o.Max
}

type TLSOptions struct {
	// InsecureSkipVerify is handed to the transport untouched.
	InsecureSkipVerify bool
}

type TimeoutOptions struct {
	// PerHop bounds each request/response exchange. Zero disables it.
	PerHop time.Duration
}
