package semantic

type Headers struct{ underlying map[string][]string }

func NewHeaders(initial map[string][]string) Headers {
	clone := make(map[string][]string, len(initial))
	for k, v := range initial {
		slice := make([]string, len(v))
		copy(slice, v)

		clone[canonicalFieldName(k)] = slice
	}

	return Headers{underlying: clone}
}

// Fields returns a copy of all key-values in the header.
func (h *Headers) Fields() map[string][]string {
	clone := make(map[string][]string, len(h.underlying))
	for k, v := range h.underlying {
		sliceClone := make([]string, len(v))
		copy(sliceClone, v)

		clone[k] = sliceClone
	}

	return clone
}

// Get assumes the field is a singleton field: for a key with multiple
// values only the first is returned. For list-based fields use
// [Headers.Values].
func (h *Headers) Get(key string) (value string, ok bool) {
	v, ok := h.underlying[canonicalFieldName(key)]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (h *Headers) Values(key string) (values []string, ok bool) {
	values, ok = h.underlying[canonicalFieldName(key)]
	return
}

// Set overwrites any existing value. For list-based fields use
// [Headers.Add].
func (h *Headers) Set(key, value string) {
	h.ensure()
	h.underlying[canonicalFieldName(key)] = []string{value}
}

func (h *Headers) Add(key, value string) {
	h.ensure()
	key = canonicalFieldName(key)
	h.underlying[key] = append(h.underlying[key], value)
}

func (h *Headers) Del(key string) {
	delete(h.underlying, canonicalFieldName(key))
}

func (h *Headers) Clone() Headers {
	return Headers{underlying: h.Fields()}
}

func (h *Headers) ensure() {
	if h.underlying == nil {
		h.underlying = make(map[string][]string)
	}
}

// canonicalFieldName uppercases the first letter of each '-' separated
// word: "content-length" becomes "Content-Length".
func canonicalFieldName(s string) string {
	const capitalDiff = 'a' - 'A'
	b := []byte(s)
	upper := true
	for i, c := range b {
		if upper && 'a' <= c && c <= 'z' {
			c -= capitalDiff
		} else if !upper && 'A' <= c && c <= 'Z' {
			c += capitalDiff
		}
		b[i] = c
		upper = c == '-'
	}
	return string(b)
}
