package registration

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The backend's event endpoints are not consistent about the identifier field:
// "id", "ID" and "event_id" have all been observed from the same endpoint
// family, sometimes as numbers and sometimes as strings. All normalization
// happens here, at the boundary, instead of ad-hoc fallback chains per caller.
var idFieldCandidates = []string{"id", "ID", "event_id"}

// EventID extracts the event identifier from a raw registration record.
func EventID(record map[string]any) (int64, bool) {
	for _, key := range idFieldCandidates {
		v, ok := record[key]
		if !ok {
			continue
		}
		if id, ok := coerceID(v); ok {
			return id, true
		}
	}
	return 0, false
}

func coerceID(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
