package client

import "httpfetch/semantic"

type action uint8

const (
	// actionSurface returns the response to the caller as-is.
	actionSurface action = iota
	// actionFollow issues a follow-up request to the Location target.
	actionFollow
	// actionFail aborts the call with a status error.
	actionFail
)

type decision struct {
	action   action
	location string
}

// decide applies the redirect policy to one hop.
//
// A potential redirect is a 3xx status carrying a non-empty Location.
// Anything else is surfaced with its original status, redirect-class or
// not; a 302 without Location is a valid answer, not an error. Only GET
// and HEAD are followed automatically: a potential redirect on any
// other method fails the call instead of being silently followed, so a
// request body is never dropped behind the caller's back.
func decide(res *semantic.Response, method semantic.Method, follow bool) decision {
	if !follow || !res.Status.IsRedirect() {
		return decision{action: actionSurface}
	}

	location, ok := res.Location()
	if !ok {
		return decision{action: actionSurface}
	}

	switch method.Canonical() {
	case semantic.MethodGet, semantic.MethodHead:
		return decision{action: actionFollow, location: location}
	}

	return decision{action: actionFail}
}
