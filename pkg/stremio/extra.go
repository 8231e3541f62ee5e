package stremio

import (
	"fmt"
	"strings"
)

const extraSuffix = ".json"

// ExtraQuery maps an extra property name to its ordered values.
type ExtraQuery map[string][]string

// Get returns the values of the named extra property, nil if absent.
func (q ExtraQuery) Get(name string) []string {
	return q[name]
}

// DecodeExtra parses a path segment shaped as `<key>=<v1>,<v2>,...,<vn>.json`.
// Values keep their order and duplicates, and are neither unescaped nor validated.
func DecodeExtra(key, segment string) (ExtraQuery, error) {
	rest, ok := strings.CutPrefix(segment, key+"=")
	if !ok {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrMalformedSegment, key+"=")
	}

	rest, ok = strings.CutSuffix(rest, extraSuffix)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q suffix", ErrMalformedSegment, extraSuffix)
	}

	// Splitting an empty string yields a single empty value.
	values := strings.Split(rest, ",")
	if values[0] == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyQuery, key)
	}

	return ExtraQuery{key: values}, nil
}

// EncodeExtra is the inverse of DecodeExtra.
func EncodeExtra(key string, values []string) string {
	return key + "=" + strings.Join(values, ",") + extraSuffix
}
