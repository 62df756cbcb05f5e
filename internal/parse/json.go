package parse

import (
	"encoding/json"
	"strings"
)

func lowerKeys(raw map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// jsonString returns the first of keys whose value is a JSON string.
func jsonString(fields map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s, true
		}
	}
	return "", false
}

// jsonStringList returns the first of keys whose value is a list of strings.
// Blank items are dropped. Nil is returned when no key holds such a list.
func jsonStringList(fields map[string]json.RawMessage, keys ...string) []string {
	for _, k := range keys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(v, &list); err != nil || list == nil {
			continue
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return nil
}
