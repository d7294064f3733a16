package client

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrHopTimeout marks an exchange that outlived the configured per-hop
// timeout.
var ErrHopTimeout = errors.New("timed out awaiting response")

// LoopError reports a chain that needed more redirects than allowed.
// The call produced no usable result.
type LoopError struct {
	// Redirects is the number of redirects that were followed before
	// giving up, i.e. the configured maximum.
	Redirects uint
}

func (e *LoopError) Error() string {
	return fmt.Sprintf("Redirected %d times. Aborting.", e.Redirects)
}

// StatusError reports a redirect-class response received for a method
// the client won't follow automatically. It carries the status code and
// request path of the hop that triggered it.
type StatusError struct {
	StatusCode uint
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("got status %d for %q", e.StatusCode, e.Path)
}
