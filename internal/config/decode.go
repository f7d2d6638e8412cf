package config

import (
	"encoding/json"
	"time"

	"darkmode-scheduler/internal/logging"
)

// Typed readers never fail: a missing key, a null, or a value of another
// JSON type yields the default.

func readBool(values map[string]json.RawMessage, key string, def bool) bool {
	var v *bool
	if !decode(values, key, &v) || v == nil {
		return def
	}
	return *v
}

func readInt(values map[string]json.RawMessage, key string, def int) int {
	var v *int
	if !decode(values, key, &v) || v == nil {
		return def
	}
	return *v
}

// readInstant decodes Unix milliseconds as a UTC time.
func readInstant(values map[string]json.RawMessage, key string) *time.Time {
	var v *int64
	if !decode(values, key, &v) || v == nil {
		return nil
	}
	t := time.UnixMilli(*v).UTC()
	return &t
}

func decode(values map[string]json.RawMessage, key string, target any) bool {
	raw, ok := values[key]
	if !ok || len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		logging.Debugf("setting %s has unexpected value %s, using default", key, string(raw))
		return false
	}
	return true
}

func encode(v any) json.RawMessage {
	// Only bools and integers are encoded here, which cannot fail.
	data, _ := json.Marshal(v)
	return data
}
