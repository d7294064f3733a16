package client

import (
	"io"

	"httpfetch/semantic"
	"httpfetch/uri"
)

// Result is the caller-facing outcome of a completed call.
type Result struct {
	StatusCode uint
	Headers    semantic.Headers

	// Body is the final hop's payload stream, unread.
	Body io.Reader

	// URL is where the chain ended up; RequestURL is what the caller
	// originally asked for. They are equal when nothing was followed.
	URL        uri.URI
	RequestURL uri.URI

	// Chain lists every URL visited, in order, RequestURL first.
	Chain []uri.URI
}
