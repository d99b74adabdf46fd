package bodyparser

import (
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	// maxDepth is the number of bracket segments parsed per key; deeper
	// segments are kept as one literal key.
	maxDepth = 5
	// arrayLimit is the highest index turned into an array position.
	arrayLimit     = 20
	parameterLimit = 1000
)

var bracketSegment = regexp.MustCompile(`^\[([^\[\]]*)\]`)

// URLEncoded parses application/x-www-form-urlencoded bodies up to limit
// bytes into nested maps, see ParseForm.
func URLEncoded(limit int64) func(http.Handler) http.Handler {
	return middleware("application/x-www-form-urlencoded", limit, func(raw []byte) (any, error) {
		return ParseForm(string(raw))
	})
}

/*
ParseForm decodes a urlencoded string keeping the structure encoded in
bracketed keys:

	user[name]=ana&user[langs][]=go&user[langs][]=sql
	  -> {"user": {"name": "ana", "langs": ["go", "sql"]}}

Repeated plain keys collect into an array, numeric segments up to 20 become
array positions (compacted, in index order) and pairs are applied in the order
they appear.
*/
func ParseForm(raw string) (map[string]any, error) {
	root := map[string]any{}
	if raw == "" {
		return root, nil
	}

	pairs := strings.Split(raw, "&")
	if len(pairs) > parameterLimit {
		return nil, newError(http.StatusRequestEntityTooLarge, "too many parameters")
	}

	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, newError(http.StatusBadRequest, "invalid form key %q", rawKey)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, newError(http.StatusBadRequest, "invalid form value for %q", key)
		}
		if key == "" {
			continue
		}

		segments := splitKey(key)
		root[segments[0]] = assign(root[segments[0]], segments[1:], value)
	}

	for key, value := range root {
		root[key] = compact(value)
	}
	return root, nil
}

// splitKey breaks "a[b][c]" into ["a", "b", "c"].
func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		if open == 0 {
			if m := bracketSegment.FindStringSubmatch(key); m != nil && len(m[0]) == len(key) {
				return []string{m[1]}
			}
		}
		return []string{key}
	}

	segments := []string{key[:open]}
	rest := key[open:]
	for len(segments) <= maxDepth {
		m := bracketSegment.FindStringSubmatch(rest)
		if m == nil {
			break
		}
		segments = append(segments, m[1])
		rest = rest[len(m[0]):]
	}
	if len(segments) == 1 {
		return []string{key}
	}
	// past maxDepth the remaining brackets stay together
	if len(segments) > maxDepth && bracketSegment.MatchString(rest) {
		segments = append(segments, rest)
	}
	return segments
}

func assign(node any, segments []string, value string) any {
	if len(segments) == 0 {
		switch existing := node.(type) {
		case nil:
			return value
		case []any:
			return append(existing, value)
		default:
			return []any{existing, value}
		}
	}

	segment, rest := segments[0], segments[1:]
	if segment == "" {
		switch existing := node.(type) {
		case map[string]any:
			existing[strconv.Itoa(nextIndex(existing))] = assign(nil, rest, value)
			return existing
		case []any:
			return append(existing, assign(nil, rest, value))
		case nil:
			return []any{assign(nil, rest, value)}
		default:
			return []any{existing, assign(nil, rest, value)}
		}
	}

	m := toMap(node)
	m[segment] = assign(m[segment], rest, value)
	return m
}

// nextIndex is one past the highest array position already in m, so an
// appended value sorts after every explicitly indexed one.
func nextIndex(m map[string]any) int {
	next := 0
	for key := range m {
		if idx, ok := arrayIndex(key); ok && idx >= next {
			next = idx + 1
		}
	}
	return next
}

func toMap(node any) map[string]any {
	switch existing := node.(type) {
	case map[string]any:
		return existing
	case []any:
		m := make(map[string]any, len(existing))
		for i, v := range existing {
			m[strconv.Itoa(i)] = v
		}
		return m
	}
	// a scalar is replaced by the nested value
	return map[string]any{}
}

// compact turns maps keyed only by small indices into arrays, recursively.
func compact(node any) any {
	switch v := node.(type) {
	case []any:
		for i := range v {
			v[i] = compact(v[i])
		}
		return v
	case map[string]any:
		indices := make([]int, 0, len(v))
		for key, child := range v {
			v[key] = compact(child)
			if idx, ok := arrayIndex(key); ok {
				indices = append(indices, idx)
			}
		}
		if len(indices) == 0 || len(indices) != len(v) {
			return v
		}
		sort.Ints(indices)
		arr := make([]any, len(indices))
		for i, idx := range indices {
			arr[i] = v[strconv.Itoa(idx)]
		}
		return arr
	}
	return node
}

func arrayIndex(key string) (int, bool) {
	idx, err := strconv.Atoi(key)
	if err != nil || idx < 0 || idx > arrayLimit || strconv.Itoa(idx) != key {
		return 0, false
	}
	return idx, true
}
