package memory

import (
	"encoding/json"
	"fmt"
)

// flattenMetadata converts arbitrary metadata into the single-level
// string map the backing store accepts. Scalars pass through as their
// string form, nil becomes an empty string, and anything structured
// (maps, slices, structs) is serialized to a JSON string.
//
// The flattening is lossy for type information: numbers and booleans
// come back as strings, and readers that need structure must parse the
// JSON themselves.
func flattenMetadata(meta map[string]any) map[string]string {
	flat := make(map[string]string, len(meta))
	for key, value := range meta {
		flat[key] = flattenValue(value)
	}
	return flat
}

func flattenValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			// Unmarshalable values (channels, funcs) degrade to %v
			// rather than dropping the key.
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}
