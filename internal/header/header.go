// Package header parses the free-form extra-headers input. Two formats are
// accepted: a JSON object, or newline-delimited "Key: Value" pairs. The JSON
// strategy is tried first; when the whole input is a valid JSON object the
// line strategy is never attempted, even if values look colon-delimited.
package header

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Parse turns the raw extra-headers input into a header map. Empty or
// blank input yields an empty map. A malformed non-JSON line is a hard
// error quoting the offending line.
func Parse(raw string) (map[string]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return map[string]string{}, nil
	}
	if hdrs, ok := parseJSON(trimmed); ok {
		return hdrs, nil
	}
	return parseLines(trimmed)
}

// parseJSON accepts the input only when it is a complete, valid JSON object.
// Arrays and scalars report !ok so the caller falls back to line parsing.
func parseJSON(s string) (map[string]string, bool) {
	if !gjson.Valid(s) {
		return nil, false
	}
	doc := gjson.Parse(s)
	if !doc.IsObject() {
		return nil, false
	}
	hdrs := map[string]string{}
	doc.ForEach(func(k, v gjson.Result) bool {
		name := strings.TrimSpace(k.String())
		if name == "" || v.Type == gjson.Null {
			return true
		}
		// non-string values keep their canonical JSON string form
		hdrs[name] = v.String()
		return true
	})
	return hdrs, true
}

func parseLines(s string) (map[string]string, error) {
	hdrs := map[string]string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// split on the first colon only; values may contain further colons
		idx := strings.Index(line, ":")
		if idx <= 0 {
			return nil, fmt.Errorf("invalid header line (expected \"Key: Value\"): %q", line)
		}
		name := strings.TrimSpace(line[:idx])
		if name == "" {
			continue
		}
		hdrs[name] = strings.TrimSpace(line[idx+1:])
	}
	return hdrs, nil
}
