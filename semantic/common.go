package semantic

import "strings"

type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

// Canonical uppercases the method. Methods are case-sensitive on the
// wire but this client treats "get" and "GET" as the same thing, like
// every caller expects.
func (m Method) Canonical() Method {
	return Method(strings.ToUpper(string(m)))
}

// DefaultPort returns the well-known port for scheme, or 0 when the
// scheme has none.
func DefaultPort(scheme string) uint16 {
	switch scheme {
	case "http":
		return 80
	case "https":
		return 443
	}
	return 0
}
