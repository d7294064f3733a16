// Package uri implements the parsed-URL abstraction consumed by the
// redirect core: parsing, recomposition and reference resolution per
// RFC 3986.
//
// Components are stored in decoded form. Percent-encoding is applied
// only when a URI is recomposed with [URI.String], so values that were
// transmitted as raw UTF-8 bytes are never encoded twice.
package uri
