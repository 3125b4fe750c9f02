package workflow

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Params carries the configuration of one operation invocation.
type Params map[string]string

// Get returns the trimmed value for key. Blank values count as absent.
func (p Params) Get(key string) (string, bool) {
	value, ok := p[key]
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// GetOr returns the value for key or fallback when absent.
func (p Params) GetOr(key, fallback string) string {
	if value, ok := p.Get(key); ok {
		return value
	}
	return fallback
}

// Bool reports whether key is set to "true", ignoring case. Every other
// value, including "1" and "yes", reads as false.
func (p Params) Bool(key string) bool {
	value, ok := p.Get(key)
	return ok && strings.EqualFold(value, "true")
}

// Keys lists the configured keys in sorted order.
func (p Params) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// ParseParams builds Params from key=value pairs.
func ParseParams(pairs []string) (Params, error) {
	params := make(Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &ParamError{Pair: pair}
		}
		params[key] = value
	}
	return params, nil
}

// ParamError reports a malformed key=value pair.
type ParamError struct {
	Pair string
}

func (e *ParamError) Error() string {
	return "invalid parameter " + strconv.Quote(e.Pair) + ": expected key=value"
}
