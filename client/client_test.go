package client

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"httpfetch/lib/types/pointer"
	"httpfetch/semantic"
	"httpfetch/semantic/status"
	"httpfetch/transport"
	transporttest "httpfetch/transport/test"
	"httpfetch/uri"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"
)

type ClientTestSuite struct {
	suite.Suite

	rt     *transporttest.RoundTripper
	logger *slog.Logger
	clock  *clock.Mock

	client *Client
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.rt = transporttest.NewRoundTripper()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.clock = clock.NewMock()

	s.client = New(s.rt, s.logger, s.clock, Options{})
}

func (s *ClientTestSuite) TearDownTest() {
	goleak.VerifyNone(s.T())
}

func (s *ClientTestSuite) get(target string) *semantic.Request {
	u, err := uri.Parse(target)
	s.Require().NoError(err)

	return &semantic.Request{Method: semantic.MethodGet, URI: u}
}

func (s *ClientTestSuite) TestDoNoRedirect() {
	s.rt.Handle("http://h/", transporttest.Respond(status.OK, nil, "hello"))

	result, err := s.client.Do(context.Background(), s.get("http://h/"))
	s.Require().NoError(err)

	s.Equal(uint(200), result.StatusCode)
	s.Equal("http://h/", result.URL.String())
	s.Equal("http://h/", result.RequestURL.String())
	s.Len(result.Chain, 1)

	body, err := io.ReadAll(result.Body)
	s.Require().NoError(err)
	s.Equal("hello", string(body))
}

func (s *ClientTestSuite) TestDoFollowsChain() {
	s.rt.Handle("http://h/a", transporttest.RedirectTo(status.MovedPermanently, "/b"))
	s.rt.Handle("http://h/b", transporttest.RedirectTo(status.Found, "http://other/c"))
	s.rt.Handle("http://other/c", transporttest.Respond(status.OK, nil, "done"))

	result, err := s.client.Do(context.Background(), s.get("http://h/a"))
	s.Require().NoError(err)

	s.Equal(uint(200), result.StatusCode)
	s.Equal("http://other/c", result.URL.String())
	s.Equal("http://h/a", result.RequestURL.String())

	s.Require().Len(result.Chain, 3)
	s.Equal("http://h/b", result.Chain[1].String())

	body, err := io.ReadAll(result.Body)
	s.Require().NoError(err)
	s.Equal("done", string(body))

	// The follow-up hops kept the method and carried no body, and
	// every hop's Host header tracked its own target.
	requests := s.rt.Requests()
	s.Require().Len(requests, 3)
	for _, req := range requests {
		s.Equal(semantic.MethodGet, req.Method)
		s.Nil(req.Body)

		host, ok := req.Headers.Get("Host")
		s.Require().True(ok)
		s.Equal(req.URI.Authority.Host, host)
	}
}

func (s *ClientTestSuite) TestDoRelativeLocationDropsQuery() {
	s.rt.Handle("http://h:8080/finite?q=1", transporttest.RedirectTo(status.Found, "/"))
	s.rt.Handle("http://h:8080/", transporttest.Respond(status.OK, nil, "root"))

	result, err := s.client.Do(context.Background(), s.get("http://h:8080/finite?q=1"))
	s.Require().NoError(err)

	s.Equal("http://h:8080/", result.URL.String())
	s.Nil(result.URL.Query)
}

func (s *ClientTestSuite) TestDoLoopAborts() {
	s.rt.Handle("http://h/loop", transporttest.RedirectTo(status.Found, "/loop"))

	_, err := s.client.Do(context.Background(), s.get("http://h/loop"))
	s.Require().Error(err)

	var loopErr *LoopError
	s.Require().ErrorAs(err, &loopErr)
	s.Equal(uint(10), loopErr.Redirects)
	s.Equal("Redirected 10 times. Aborting.", err.Error())

	// Initial request plus the ten followed redirects.
	s.Len(s.rt.Requests(), 11)
}

func (s *ClientTestSuite) TestDoCustomMaxRedirects() {
	s.client.opts.Redirect.Max = 2
	s.rt.Handle("http://h/loop", transporttest.RedirectTo(status.Found, "/loop"))

	_, err := s.client.Do(context.Background(), s.get("http://h/loop"))
	s.Require().Error(err)
	s.Equal("Redirected 2 times. Aborting.", err.Error())
	s.Len(s.rt.Requests(), 3)
}

func (s *ClientTestSuite) TestDoNoFollowSurfacesRedirect() {
	s.client.opts.Redirect.NoFollow = true
	s.rt.Handle("http://h/", transporttest.RedirectTo(status.Found, "/next"))

	result, err := s.client.Do(context.Background(), s.get("http://h/"))
	s.Require().NoError(err)

	s.Equal(uint(302), result.StatusCode)
	location, ok := result.Headers.Get("Location")
	s.Require().True(ok)
	s.Equal("/next", location)
	s.Len(s.rt.Requests(), 1)
}

func (s *ClientTestSuite) TestDoRedirectWithoutLocationSurfaces() {
	s.rt.Handle("http://h/", transporttest.Respond(status.Found, nil, "choose"))

	result, err := s.client.Do(context.Background(), s.get("http://h/"))
	s.Require().NoError(err)
	s.Equal(uint(302), result.StatusCode)
}

func (s *ClientTestSuite) TestDoIneligibleMethodFails() {
	s.rt.Handle("http://h/submit", transporttest.RedirectTo(status.Found, "/elsewhere"))

	u, err := uri.Parse("http://h/submit")
	s.Require().NoError(err)

	request := &semantic.Request{
		Method: "post",
		URI:    u,
		Body:   strings.NewReader("payload"),
	}

	_, err = s.client.Do(context.Background(), request)
	s.Require().Error(err)

	var statusErr *StatusError
	s.Require().ErrorAs(err, &statusErr)
	s.Equal(uint(302), statusErr.StatusCode)
	s.Equal("/submit", statusErr.Path)

	s.Len(s.rt.Requests(), 1)
}

func (s *ClientTestSuite) TestDoSchemeSwitchSelectsAgentPerHop() {
	agentHTTP := &transporttest.Agent{}
	agentHTTPS := &transporttest.Agent{}
	s.client.opts.Agent = AgentConfig{HTTP: agentHTTP, HTTPS: agentHTTPS}

	s.rt.Handle("https://h/secure", transporttest.RedirectTo(status.Found, "http://h/plain"))
	s.rt.Handle("http://h/plain", transporttest.Respond(status.OK, nil, "ok"))

	result, err := s.client.Do(context.Background(), s.get("https://h/secure"))
	s.Require().NoError(err)
	s.Equal("http://h/plain", result.URL.String())

	s.Equal(uint(1), agentHTTPS.Dials())
	s.Equal(uint(1), agentHTTP.Dials())
}

func (s *ClientTestSuite) TestDoUTF8Location() {
	s.rt.Handle("http://h/", transporttest.RedirectTo(status.Found, "/\xc3\xa9t\xc3\xa9"))
	s.rt.Handle("http://h/%C3%A9t%C3%A9", transporttest.Respond(status.OK, nil, "été"))

	result, err := s.client.Do(context.Background(), s.get("http://h/"))
	s.Require().NoError(err)

	s.Equal("/été", result.URL.Path)

	body, err := io.ReadAll(result.Body)
	s.Require().NoError(err)
	s.Equal("été", string(body))
}

func (s *ClientTestSuite) TestDoBadLocationDrainsBody() {
	body := bytes.NewBufferString("leftover")
	s.rt.Handle("http://h/", func(context.Context, *semantic.Request) (*semantic.Response, error) {
		return &semantic.Response{
			Status:  status.Found,
			Headers: semantic.NewHeaders(map[string][]string{"Location": {"/bad%zz"}}),
			Body:    body,
		}, nil
	})

	_, err := s.client.Do(context.Background(), s.get("http://h/"))
	s.Require().Error(err)

	// The failed hop released its stream for connection reuse.
	s.Equal(0, body.Len())
}

func (s *ClientTestSuite) TestDoTransportErrorPropagates() {
	s.rt.Handle("http://h/", func(context.Context, *semantic.Request) (*semantic.Response, error) {
		return nil, transport.ErrAgentClosed
	})

	_, err := s.client.Do(context.Background(), s.get("http://h/"))
	s.Require().ErrorIs(err, transport.ErrAgentClosed)
}

func (s *ClientTestSuite) TestDoHopTimeout() {
	s.client.opts.Timeout.PerHop = 5 * time.Second
	s.rt.HandleDefault(transporttest.Hang())

	errs := make(chan error, 1)
	go func() {
		_, err := s.client.Do(context.Background(), s.get("http://h/"))
		errs <- err
	}()

	// Let the hop start before firing the timer.
	time.Sleep(10 * time.Millisecond)
	s.clock.Add(5 * time.Second)

	err := <-errs
	s.Require().ErrorIs(err, ErrHopTimeout)
}

func (s *ClientTestSuite) TestDoCancelledMidChain() {
	ctx, cancel := context.WithCancel(context.Background())

	s.rt.Handle("http://h/a", func(context.Context, *semantic.Request) (*semantic.Response, error) {
		// Cancel while the redirect is in flight; the driver must not
		// issue the next hop.
		cancel()
		resp := transporttest.RedirectTo(status.Found, "/b")
		return resp(ctx, nil)
	})

	_, err := s.client.Do(ctx, s.get("http://h/a"))
	s.Require().ErrorIs(err, context.Canceled)

	s.Len(s.rt.Requests(), 1)
}

func (s *ClientTestSuite) TestDoPacedHopsHonorContext() {
	// One token, no refill: the second hop's wait can never be
	// satisfied and must fail with the call deadline instead.
	s.client.opts.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	s.rt.Handle("http://h/a", transporttest.RedirectTo(status.Found, "/b"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.client.Do(ctx, s.get("http://h/a"))
	s.Require().Error(err)
	s.Len(s.rt.Requests(), 1)
}

func (s *ClientTestSuite) TestDoInsecureSkipVerifyPassthrough() {
	s.client.opts.TLS.InsecureSkipVerify = true
	s.rt.Handle("https://h/", transporttest.Respond(status.OK, nil, ""))

	_, err := s.client.Do(context.Background(), s.get("https://h/"))
	s.Require().NoError(err)

	sendOpts := s.rt.SendOptions()
	s.Require().Len(sendOpts, 1)
	s.True(sendOpts[0].InsecureSkipVerify)
}

func (s *ClientTestSuite) TestFetchOverrides() {
	s.rt.Handle("http://real/over?x=2", transporttest.Respond(status.OK, nil, "ok"))

	result, err := s.client.Fetch(context.Background(), "http://h/orig?x=1", CallOptions{
		Method:   "head",
		Hostname: "real",
		Path:     "/over",
		Query:    pointer.To("x=2"),
	})
	s.Require().NoError(err)

	s.Equal(uint(200), result.StatusCode)

	requests := s.rt.Requests()
	s.Require().Len(requests, 1)
	s.Equal(semantic.MethodHead, requests[0].Method)
	s.Equal("http://real/over?x=2", requests[0].URI.String())
}

func (s *ClientTestSuite) TestFetchBadURL() {
	_, err := s.client.Fetch(context.Background(), "http://h/\x01", CallOptions{})
	s.Require().Error(err)
}
