package query

import "strings"

const keySep = ":"

// Key identifies a cached query, e.g. {"services"} or {"services", id}.
// Invalidating a key also invalidates every key it prefixes.
type Key []string

func K(parts ...string) Key { return Key(parts) }

func (k Key) String() string { return strings.Join(k, keySep) }

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

// matchesPrefix reports whether the encoded key belongs under prefix.
func matchesPrefix(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	return key == prefix || strings.HasPrefix(key, prefix+keySep)
}
