// Package client implements the redirect-following core of the HTTP(S)
// client: it drives a bounded chain of request/response hops over an
// injected transport, deciding per hop whether to follow, surface, or
// fail.
package client

import (
	"context"
	"io"
	"log/slog"

	"httpfetch/semantic"
	"httpfetch/transport"
	"httpfetch/uri"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Client struct {
	rt   transport.RoundTripper
	opts Options

	logger *slog.Logger
	clock  clock.Clock
}

func New(
	rt transport.RoundTripper,
	logger *slog.Logger,
	clock clock.Clock,
	opts Options,
) *Client {
	return &Client{
		rt:     rt,
		opts:   opts,
		logger: logger,
		clock:  clock,
	}
}

// driveState is the explicit hop-loop state. Keeping it an enum (rather
// than recursing per hop) keeps memory bounded and makes the loop-abort
// condition a plain counter check.
type driveState uint8

const (
	stateIssuing driveState = iota
	stateDone
	stateFailed
)

// Do executes one logical call: it issues request, follows eligible
// redirects up to the configured maximum, and returns the final hop's
// response together with the visited chain.
//
// The request is not mutated; every hop derives a fresh descriptor.
// Transport-level failures abort the call immediately and are returned
// with their cause intact, never reinterpreted as redirect outcomes.
func (c *Client) Do(ctx context.Context, request *semantic.Request) (*Result, error) {
	if err := request.Canonize(); err != nil {
		return nil, errors.Wrap(err, "canonizing request")
	}

	logger := c.logger.With(slog.String("call_id", uuid.NewString()))

	var (
		maxRedirects = c.opts.Redirect.max()
		chain        = []uri.URI{request.URI}
		current      = request
		response     *semantic.Response
		failure      error
	)

	state := stateIssuing
	for state == stateIssuing {
		if err := c.pace(ctx); err != nil {
			return nil, errors.Wrap(err, "pacing hop")
		}

		res, err := c.roundtrip(ctx, current)
		if err != nil {
			return nil, errors.Wrap(err, "issuing request")
		}

		d := decide(res, current.Method, !c.opts.Redirect.NoFollow)
		switch d.action {
		case actionSurface:
			response = res
			state = stateDone

		case actionFail:
			_ = res.Drain()
			failure = &StatusError{
				StatusCode: res.Status.Code,
				Path:       current.URI.Path,
			}
			state = stateFailed

		case actionFollow:
			next, err := uri.ResolveRef(current.URI, d.location)
			if err != nil {
				_ = res.Drain()
				failure = errors.Wrap(err, "resolving redirect location")
				state = stateFailed
				break
			}

			if uint(len(chain)) > maxRedirects {
				_ = res.Drain()
				failure = &LoopError{Redirects: maxRedirects}
				state = stateFailed
				break
			}

			// Release the hop's stream so the agent can reuse the
			// connection.
			if err := res.Drain(); err != nil {
				failure = errors.Wrap(err, "draining redirected response")
				state = stateFailed
				break
			}

			logger.DebugContext(ctx, "following redirect",
				slog.Uint64("status", uint64(res.Status.Code)),
				slog.String("from", current.URI.String()),
				slog.String("to", next.String()),
			)

			chain = append(chain, next)
			current = current.Derive(next)
		}
	}

	if state == stateFailed {
		return nil, failure
	}

	return &Result{
		StatusCode: response.Status.Code,
		Headers:    response.Headers,
		Body:       response.Body,
		URL:        chain[len(chain)-1],
		RequestURL: chain[0],
		Chain:      chain,
	}, nil
}

func (c *Client) pace(ctx context.Context) error {
	if c.opts.Limiter == nil {
		return ctx.Err()
	}
	return c.opts.Limiter.Wait(ctx)
}

// roundtrip performs a single exchange with the scheme-appropriate
// agent, enforcing the per-hop timeout off the injected clock.
func (c *Client) roundtrip(ctx context.Context, req *semantic.Request) (*semantic.Response, error) {
	opts := transport.SendOptions{
		Agent:              c.opts.Agent.selectFor(req.URI.Scheme),
		InsecureSkipVerify: c.opts.TLS.InsecureSkipVerify,
	}

	if c.opts.Timeout.PerHop == 0 {
		return c.rt.RoundTrip(ctx, req, opts)
	}

	hopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := c.clock.Timer(c.opts.Timeout.PerHop)
	defer timer.Stop()

	type outcome struct {
		res *semantic.Response
		err error
	}

	results := make(chan outcome, 1)
	go func() {
		res, err := c.rt.RoundTrip(hopCtx, req, opts)
		results <- outcome{res, err}
	}()

	select {
	case out := <-results:
		return out.res, out.err
	case <-timer.C:
		cancel()
		<-results // let the exchange unwind before reporting.
		return nil, errors.Wrapf(ErrHopTimeout, "no response within %s", c.opts.Timeout.PerHop)
	case <-ctx.Done():
		cancel()
		<-results
		return nil, ctx.Err()
	}
}

// Fetch is the convenience entry point: it parses rawURL, applies the
// per-call overrides, and runs Do.
func (c *Client) Fetch(ctx context.Context, rawURL string, opts CallOptions) (*Result, error) {
	u, err := uri.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing url")
	}

	if opts.Hostname != "" {
		if u.Authority == nil {
			u.Authority = &uri.Authority{}
		}
		u.Authority.Host = opts.Hostname
	}
	if opts.Path != "" {
		u.Path = opts.Path
	}
	if opts.Query != nil {
		q := *opts.Query
		u.Query = &q
	}

	request := &semantic.Request{
		Method:  opts.Method,
		URI:     u,
		Headers: semantic.NewHeaders(opts.Headers),
		Body:    opts.Body,
	}

	return c.Do(ctx, request)
}

// CallOptions are the per-call overrides accepted by [Client.Fetch].
// Zero fields leave the parsed URL untouched.
type CallOptions struct {
	Method   semantic.Method
	Headers  map[string][]string
	Body     io.Reader
	Hostname string
	Path     string
	Query    *string
}
