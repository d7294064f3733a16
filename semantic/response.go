package semantic

import (
	"io"

	"httpfetch/semantic/status"
)

// Response describes one received exchange. Body is the undecoded
// payload stream; draining it is the caller's (or the redirect
// driver's) job.
type Response struct {
	Status  status.Status
	Headers Headers

	Body io.Reader
}

// Location returns the raw Location header value. The value is kept as
// the bytes that arrived on the wire; reinterpreting them (e.g. as
// UTF-8) is left to URI parsing so nothing gets encoded twice.
func (r *Response) Location() (string, bool) {
	v, ok := r.Headers.Get("Location")
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Drain consumes the remaining body so the underlying connection can be
// reused by the supplying agent.
func (r *Response) Drain() error {
	if r.Body == nil {
		return nil
	}
	_, err := io.Copy(io.Discard, r.Body)
	return err
}
