// Package semantic holds the request and response descriptors the
// redirect core operates on: methods, headers and message surfaces
// independent of how messages are framed on the wire.
package semantic
