// Package test provides scripted transport doubles for exercising the
// redirect core without sockets.
package test

import (
	"bytes"
	"context"
	"io"
	"sync"

	"httpfetch/semantic"
	"httpfetch/semantic/status"
	"httpfetch/transport"

	"github.com/pkg/errors"
)

// Handler produces the scripted response for one exchange.
type Handler func(ctx context.Context, req *semantic.Request) (*semantic.Response, error)

// RoundTripper is a scripted transport.RoundTripper. Handlers are keyed
// by the recomposed target URL. Every exchange touches the selected
// agent exactly once so per-agent usage can be asserted.
type RoundTripper struct {
	mu       sync.Mutex
	handlers map[string]Handler
	fallback Handler

	requests []*semantic.Request
	sendOpts []transport.SendOptions
}

func NewRoundTripper() *RoundTripper {
	return &RoundTripper{handlers: make(map[string]Handler)}
}

// Handle registers the handler for an exact target URL.
func (rt *RoundTripper) Handle(target string, handler Handler) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.handlers[target] = handler
}

// HandleDefault registers the handler used when no exact target matches.
func (rt *RoundTripper) HandleDefault(handler Handler) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.fallback = handler
}

func (rt *RoundTripper) RoundTrip(
	ctx context.Context, req *semantic.Request, opts transport.SendOptions,
) (*semantic.Response, error) {
	if opts.Agent != nil {
		host, port := "", uint16(0)
		if req.URI.Authority != nil {
			host = req.URI.Authority.Host
			if req.URI.Authority.Port != nil {
				port = *req.URI.Authority.Port
			}
		}

		conn, err := opts.Agent.Dial(ctx, host, port)
		if err != nil {
			return nil, errors.Wrap(err, "dialing via agent")
		}
		defer conn.Close()
	}

	rt.mu.Lock()
	rt.requests = append(rt.requests, req)
	rt.sendOpts = append(rt.sendOpts, opts)
	handler, ok := rt.handlers[req.URI.String()]
	if !ok {
		handler = rt.fallback
	}
	rt.mu.Unlock()

	if handler == nil {
		return nil, errors.Errorf("no handler for target %q", req.URI.String())
	}

	return handler(ctx, req)
}

// Requests returns every request seen so far, in order.
func (rt *RoundTripper) Requests() []*semantic.Request {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]*semantic.Request(nil), rt.requests...)
}

// SendOptions returns the per-exchange options seen so far, in order.
func (rt *RoundTripper) SendOptions() []transport.SendOptions {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]transport.SendOptions(nil), rt.sendOpts...)
}

// Agent is a transport.Agent that only counts how often it was used.
type Agent struct {
	mu    sync.Mutex
	dials uint
}

func (a *Agent) Dial(ctx context.Context, host string, port uint16) (io.ReadWriteCloser, error) {
	a.mu.Lock()
	a.dials++
	a.mu.Unlock()
	return nopConn{}, nil
}

// Dials returns how many exchanges used this agent.
func (a *Agent) Dials() uint {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dials
}

type nopConn struct{}

func (nopConn) Read(p []byte) (int, error)  { return 0, io.EOF }
func (nopConn) Write(p []byte) (int, error) { return len(p), nil }
func (nopConn) Close() error                { return nil }

// Respond scripts a fixed response with the given body.
func Respond(s status.Status, headers map[string][]string, body string) Handler {
	return func(ctx context.Context, req *semantic.Request) (*semantic.Response, error) {
		return &semantic.Response{
			Status:  s,
			Headers: semantic.NewHeaders(headers),
			Body:    bytes.NewBufferString(body),
		}, nil
	}
}

// RedirectTo scripts a redirect-class response pointing at location.
func RedirectTo(s status.Status, location string) Handler {
	return Respond(s, map[string][]string{"Location": {location}}, "")
}

// Hang scripts an exchange that blocks until the context is cancelled.
func Hang() Handler {
	return func(ctx context.Context, req *semantic.Request) (*semantic.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
}
