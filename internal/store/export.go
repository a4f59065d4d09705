package store

import "encoding/json"

// parseExportOutput decodes `safe export`'s JSON tree: a flat mapping
// of vault path to its key/value map, matching spec.md §3's
// SecretSnapshot shape directly.
func parseExportOutput(stdout string) (Snapshot, error) {
	if stdout == "" {
		return Snapshot{}, nil
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &raw); err != nil {
		return nil, err
	}

	snapshot := make(Snapshot, len(raw))
	for path, keys := range raw {
		values := make(map[string]string, len(keys))
		for k, v := range keys {
			if s, ok := v.(string); ok {
				values[k] = s
			}
		}
		snapshot[path] = values
	}

	return snapshot, nil
}
