package uri

import (
	"strings"

	"github.com/pkg/errors"
)

type encodeMode uint

const (
	encodePath encodeMode = 1 + iota
	encodeHost
	encodeUserInfo
	encodeQuery
	encodeFragment
)

// escape percent-encodes every byte the component's rule doesn't allow
// in literal form. The input is raw bytes, so a UTF-8 character becomes
// one '%XX' triplet per byte, encoded exactly once.
func escape(s string, mode encodeMode) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c, mode) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		} else {
			b.WriteByte(c)
		}
	}

	return b.String()
}

func unescape(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}

		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			bad := s[i:min(len(s), i+3)]
			return "", errors.Errorf("invalid percent encoding: %q", bad)
		}
		b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
		i += 2
	}

	return b.String(), nil
}

const upperhex = "0123456789ABCDEF"

func unhex(h byte) byte {
	switch {
	case '0' <= h && h <= '9':
		return h - '0'
	case 'a' <= h && h <= 'f':
		return h - 'a' + 10
	case 'A' <= h && h <= 'F':
		return h - 'A' + 10
	}
	return 0
}

func shouldEscape(c byte, mode encodeMode) bool {
	if isUnreserved(c) {
		return false
	}

	if isReserved(c) {
		// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3
		switch mode {
		case encodeUserInfo:
			return !(isSubDelim(c) || c == ':')
		case encodeHost:
			return !(isSubDelim(c) || c == '[' || c == ']' || c == ':')
		case encodePath:
			return !(isSubDelim(c) || c == ':' || c == '@' || c == '/')
		case encodeQuery, encodeFragment:
			return !(isSubDelim(c) || c == ':' || c == '@' || c == '/' || c == '?')
		}
	}

	return true
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.3
func isUnreserved(c byte) bool {
	return isAlpha(c) || isDigit(c) ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.2
func isReserved(c byte) bool {
	switch c {
	case ':', '/', '?', '#', '[', ']', '@':
		// gen-delims
		return true
	}
	return isSubDelim(c)
}

func isSubDelim(c byte) bool {
	switch c {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}
	return false
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) ||
		('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
