package query

import "strings"

// Key identifies a cached query: a domain followed by its parameters, e.g.
// Key{"admin", "artists", "page=2", "status=ACTIVE", "q=nova"}.
type Key []string

func NewKey(parts ...string) Key {
	return Key(parts)
}

// With returns a copy of k extended with parts.
func (k Key) With(parts ...string) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}

func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

func (k Key) String() string {
	return "[" + strings.Join(k, " ") + "]"
}

func (k Key) id() string {
	return strings.Join(k, "\x1f")
}
