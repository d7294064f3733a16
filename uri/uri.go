package uri

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// URI holds the components of a URI in decoded form.
//
// A nil Authority means the component is absent, which is distinct from
// an empty one. Same goes for Query and Fragment: an absent query is not
// the same as "?" with nothing after it.
type URI struct {
	Scheme    string
	Authority *Authority
	Path      string
	Query     *string
	Fragment  *string
}

type Authority struct {
	UserInfo string
	Host     string
	Port     *uint16
}

// IsRelativeRef reports whether u is a relative reference.
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-4.2
func (u URI) IsRelativeRef() bool { return u.Scheme == "" }

// Clone returns a deep copy of u. Pointer components are duplicated so
// the copy can be modified per hop without aliasing the original.
func (u URI) Clone() URI {
	if u.Authority != nil {
		a := *u.Authority
		if a.Port != nil {
			p := *a.Port
			a.Port = &p
		}
		u.Authority = &a
	}
	if u.Query != nil {
		q := *u.Query
		u.Query = &q
	}
	if u.Fragment != nil {
		f := *u.Fragment
		u.Fragment = &f
	}
	return u
}

// String recomposes the URI, percent-encoding each component with its
// own rule.
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.3
func (u URI) String() string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteByte(':')
	}

	if u.Authority != nil {
		b.WriteString("//")
		if u.Authority.UserInfo != "" {
			b.WriteString(escape(u.Authority.UserInfo, encodeUserInfo))
			b.WriteByte('@')
		}
		b.WriteString(escape(u.Authority.Host, encodeHost))
		if u.Authority.Port != nil {
			b.WriteByte(':')
			b.WriteString(strconv.FormatUint(uint64(*u.Authority.Port), 10))
		}
	}

	b.WriteString(escape(u.Path, encodePath))

	if u.Query != nil {
		b.WriteByte('?')
		b.WriteString(escape(*u.Query, encodeQuery))
	}
	if u.Fragment != nil {
		b.WriteByte('#')
		b.WriteString(escape(*u.Fragment, encodeFragment))
	}

	return b.String()
}

// Parse parses rawURL into its components, decoding percent-encoded
// octets. The input is treated as raw bytes: non-ASCII octets are kept
// as-is, so UTF-8 sequences survive a parse/format round trip intact.
func Parse(rawURL string) (URI, error) {
	if containsCTL(rawURL) {
		return URI{}, errors.New("URI contains CTL bytes")
	}

	var u URI

	scheme, rest, err := cutScheme(rawURL)
	if err != nil {
		return URI{}, errors.Wrap(err, "cutting scheme")
	}
	u.Scheme = strings.ToLower(scheme)

	if after, ok := strings.CutPrefix(rest, "//"); ok {
		raw := after
		rest = ""
		if i := strings.IndexAny(raw, "/?#"); i >= 0 {
			raw, rest = raw[:i], raw[i:]
		}

		authority, err := parseAuthority(raw)
		if err != nil {
			return URI{}, errors.Wrap(err, "parsing authority")
		}
		u.Authority = &authority
	}

	path, query, frag := splitPathQueryFrag(rest)

	if u.Authority != nil && !(path == "" || path[0] == '/') {
		return URI{}, errors.New("path after authority must be empty or start with '/'")
	}
	if u.Path, err = unescape(path); err != nil {
		return URI{}, errors.Wrap(err, "unescaping path")
	}

	if query != "" {
		q, err := unescape(query[1:]) // strip '?'
		if err != nil {
			return URI{}, errors.Wrap(err, "unescaping query")
		}
		u.Query = &q
	}
	if frag != "" {
		f, err := unescape(frag[1:]) // strip '#'
		if err != nil {
			return URI{}, errors.Wrap(err, "unescaping fragment")
		}
		u.Fragment = &f
	}

	return u, nil
}

// cutScheme splits the scheme off rawURL. A ':' that appears before any
// of "/?#" marks a scheme; anything else leaves the input as-is.
func cutScheme(rawURL string) (scheme, rest string, err error) {
	idx := strings.IndexByte(rawURL, ':')
	if idx < 0 {
		return "", rawURL, nil
	}
	if i := strings.IndexAny(rawURL, "/?#"); i >= 0 && i < idx {
		// The ':' belongs to a later component.
		return "", rawURL, nil
	}

	scheme = rawURL[:idx]
	if err := assertValidScheme(scheme); err != nil {
		return "", "", err
	}

	return scheme, rawURL[idx+1:], nil
}

func parseAuthority(raw string) (authority Authority, err error) {
	host := raw
	if i := strings.LastIndexByte(raw, '@'); i >= 0 {
		userInfo := raw[:i]
		host = raw[i+1:]

		if authority.UserInfo, err = unescape(userInfo); err != nil {
			return Authority{}, errors.Wrap(err, "unescaping userinfo")
		}
	}

	host, portPart := splitHostPort(host)

	if portPart != "" {
		port, err := parsePort(portPart)
		if err != nil {
			return Authority{}, errors.Wrap(err, "parsing port")
		}
		authority.Port = &port
	}

	if authority.Host, err = unescape(host); err != nil {
		return Authority{}, errors.Wrap(err, "unescaping host")
	}
	authority.Host = strings.ToLower(authority.Host)

	return authority, nil
}

func splitHostPort(raw string) (host, portPart string) {
	if strings.HasPrefix(raw, "[") {
		// IP literal. Port comes after the closing bracket.
		if idx := strings.LastIndexByte(raw, ']'); idx >= 0 {
			return raw[:idx+1], raw[idx+1:]
		}
		return raw, ""
	}

	if idx := strings.LastIndexByte(raw, ':'); idx >= 0 {
		return raw[:idx], raw[idx:]
	}
	return raw, ""
}

// parsePort expects the ":port" remainder of an authority. Ports are
// restricted to uint16 for usability even though the RFC allows any
// number of digits.
func parsePort(s string) (uint16, error) {
	s, ok := strings.CutPrefix(s, ":")
	if !ok {
		return 0, errors.New("missing ':' delimiter before port")
	}

	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, errors.Wrap(err, "port is not a 16-bit unsigned integer")
	}

	return uint16(n), nil
}

func splitPathQueryFrag(raw string) (path, query, frag string) {
	if idx := strings.IndexByte(raw, '#'); idx >= 0 {
		raw, frag = raw[:idx], raw[idx:]
	}
	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		raw, query = raw[:idx], raw[idx:]
	}
	return raw, query, frag
}

func assertValidScheme(scheme string) error {
	if scheme == "" {
		return errors.New("scheme is empty")
	}
	if !isAlpha(scheme[0]) {
		return errors.New("scheme doesn't start with ALPHA")
	}
	for i := 1; i < len(scheme); i++ {
		c := scheme[i]
		if isAlpha(c) || isDigit(c) || c == '+' || c == '-' || c == '.' {
			continue
		}
		return errors.Errorf("scheme contains invalid byte: %q", c)
	}
	return nil
}

func containsCTL(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' || s[i] == 0x7f {
			return true
		}
	}
	return false
}
