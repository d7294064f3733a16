// Package transport defines the boundary between the redirect core and
// whatever actually moves bytes: the core selects an agent per hop and
// hands the request to a RoundTripper, nothing more.
package transport

import (
	"context"
	"io"

	"httpfetch/semantic"

	"github.com/pkg/errors"
)

var ErrAgentClosed = errors.New("agent is closed")

// Agent is a caller-supplied, scheme-specific connection source,
// typically a keep-alive pool. Implementations must be safe for
// concurrent use; the core never mutates an agent, it only picks which
// one to hand to the round-tripper.
type Agent interface {
	// Dial opens or reuses a connection to host:port.
	Dial(ctx context.Context, host string, port uint16) (io.ReadWriteCloser, error)
}

// SendOptions parameterizes a single exchange.
type SendOptions struct {
	// Agent supplies the connection. Nil means the round-tripper's
	// default behavior.
	Agent Agent

	// InsecureSkipVerify disables TLS certificate verification for
	// https targets. Passed through untouched; the core has no opinion.
	InsecureSkipVerify bool
}

// RoundTripper performs one request/response exchange. Implementations
// must not follow redirects themselves and must return transport-level
// failures (dial, TLS, framing) as errors rather than responses.
type RoundTripper interface {
	RoundTrip(ctx context.Context, req *semantic.Request, opts SendOptions) (*semantic.Response, error)
}
