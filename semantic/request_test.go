package semantic

import (
	"strings"
	"testing"

	"httpfetch/lib/types/pointer"
	"httpfetch/uri"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCanonize(t *testing.T) {
	req := Request{
		Method: "get",
		URI: uri.URI{
			Scheme:    "http",
			Authority: &uri.Authority{Host: "h"},
		},
	}

	require.NoError(t, req.Canonize())
	assert.Equal(t, MethodGet, req.Method)
	assert.Equal(t, "/", req.URI.Path)

	host, ok := req.Headers.Get("Host")
	require.True(t, ok)
	assert.Equal(t, "h", host)
}

func TestRequestCanonizeHostWithPort(t *testing.T) {
	req := Request{
		URI: uri.URI{
			Scheme:    "http",
			Authority: &uri.Authority{Host: "h", Port: pointer.To(uint16(8080))},
		},
	}

	require.NoError(t, req.Canonize())

	host, ok := req.Headers.Get("Host")
	require.True(t, ok)
	assert.Equal(t, "h:8080", host)
}

func TestRequestCanonizeDefaultsMethod(t *testing.T) {
	req := Request{
		URI: uri.URI{Scheme: "http", Authority: &uri.Authority{Host: "h"}},
	}

	require.NoError(t, req.Canonize())
	assert.Equal(t, MethodGet, req.Method)
}

func TestRequestCanonizeErrors(t *testing.T) {
	relative := Request{URI: uri.URI{Path: "/x"}}
	assert.Error(t, relative.Canonize())

	hostless := Request{URI: uri.URI{Scheme: "http", Authority: &uri.Authority{}}}
	assert.Error(t, hostless.Canonize())
}

func TestRequestDerive(t *testing.T) {
	req := Request{
		Method:  MethodGet,
		URI:     uri.URI{Scheme: "https", Authority: &uri.Authority{Host: "a"}, Path: "/x"},
		Headers: NewHeaders(map[string][]string{"Host": {"a"}, "Accept": {"*/*"}}),
		Body:    strings.NewReader("ignored"),
	}

	next := uri.URI{
		Scheme:    "http",
		Authority: &uri.Authority{Host: "b", Port: pointer.To(uint16(8080))},
		Path:      "/y",
	}

	derived := req.Derive(next)

	assert.Equal(t, MethodGet, derived.Method)
	assert.Equal(t, next, derived.URI)
	assert.Nil(t, derived.Body)

	host, _ := derived.Headers.Get("Host")
	assert.Equal(t, "b:8080", host)
	accept, _ := derived.Headers.Get("Accept")
	assert.Equal(t, "*/*", accept)

	// Original headers are untouched.
	host, _ = req.Headers.Get("Host")
	assert.Equal(t, "a", host)
}

func TestHostHeaderOmitsDefaultPort(t *testing.T) {
	u := uri.URI{
		Scheme:    "http",
		Authority: &uri.Authority{Host: "h", Port: pointer.To(uint16(80))},
	}
	assert.Equal(t, "h", hostHeader(u))

	*u.Authority.Port = 81
	assert.Equal(t, "h:81", hostHeader(u))
}

func TestMethodCanonical(t *testing.T) {
	assert.Equal(t, MethodGet, Method("get").Canonical())
	assert.Equal(t, MethodPost, Method("Post").Canonical())
	assert.Equal(t, MethodHead, MethodHead.Canonical())
}

func TestDefaultPort(t *testing.T) {
	assert.Equal(t, uint16(80), DefaultPort("http"))
	assert.Equal(t, uint16(443), DefaultPort("https"))
	assert.Equal(t, uint16(0), DefaultPort("gopher"))
}
