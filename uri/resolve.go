package uri

import (
	"strings"

	"github.com/pkg/errors"
)

// Resolve resolves a reference against base per the RFC 3986 reference
// resolution algorithm. An absolute ref (one carrying a scheme) is
// returned as-is; a relative ref inherits the missing components from
// base. A ref with a path but no query ends up without a query: the
// base's query is only inherited when the ref has neither.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.2.2
func Resolve(base, ref URI) (out URI, err error) {
	if base.IsRelativeRef() {
		return URI{}, errors.New("base must not be a relative reference")
	}

	out = ref.Clone()
	// Named result: the deferred cleanup must apply to what the caller
	// receives, whichever return runs.
	defer func() { out.Path = removeDotSegments(out.Path) }()

	if out.Scheme != "" {
		return out, nil
	}
	out.Scheme = base.Scheme

	if out.Authority != nil {
		return out, nil
	}
	out.Authority = base.Clone().Authority

	if out.Path != "" {
		if !strings.HasPrefix(out.Path, "/") {
			out.Path = mergePaths(base, out)
		}
		return out, nil
	}
	out.Path = base.Path

	if out.Query != nil {
		return out, nil
	}
	if base.Query != nil {
		q := *base.Query
		out.Query = &q
	}

	return out, nil
}

// ResolveRef is Resolve over an unparsed reference, e.g. the raw value
// of a Location header.
func ResolveRef(base URI, ref string) (URI, error) {
	parsed, err := Parse(ref)
	if err != nil {
		return URI{}, errors.Wrap(err, "parsing reference")
	}

	return Resolve(base, parsed)
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.2.3
func mergePaths(base, ref URI) string {
	if base.Authority != nil && base.Path == "" {
		return "/" + ref.Path
	}

	if idx := strings.LastIndexByte(base.Path, '/'); idx >= 0 {
		return base.Path[:idx+1] + ref.Path
	}

	return ref.Path
}

// removeDotSegments resolves "." and ".." segments out of path.
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.2.4
func removeDotSegments(path string) string {
	var out []string

	pop := func() {
		if len(out) > 0 {
			out = out[:len(out)-1]
		}
	}

	for len(path) > 0 {
		switch {
		case prefixCut(&path, "../"), prefixCut(&path, "./"):
			// Leading dot segments of a relative path are dropped.

		case prefixCut(&path, "/./"):
			path = "/" + path
		case path == "/.":
			path = "/"

		case prefixCut(&path, "/../"):
			pop()
			path = "/" + path
		case path == "/..":
			pop()
			path = "/"

		case path == "." || path == "..":
			path = ""

		default:
			// Move the first segment, with its leading '/' if any, to
			// the output.
			idx := strings.IndexByte(path[1:], '/') + 1
			if idx == 0 {
				idx = len(path)
			}
			out = append(out, path[:idx])
			path = path[idx:]
		}
	}

	return strings.Join(out, "")
}

func prefixCut(s *string, prefix string) bool {
	rest, ok := strings.CutPrefix(*s, prefix)
	if ok {
		*s = rest
	}
	return ok
}
