package config

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// expandJSONEnv decodes each named variable in env as a flat JSON object and
// merges its members into env. Members override variables of the same name.
// Names that are unset are skipped.
func expandJSONEnv(env map[string]string, names []string) error {
	for _, name := range names {
		raw, ok := env[name]
		if !ok || raw == "" {
			continue
		}
		var members map[string]any
		if err := json.Unmarshal([]byte(raw), &members); err != nil {
			return fmt.Errorf("%s is not a JSON object: %w", name, err)
		}
		for k, v := range members {
			env[k] = scalarString(v)
		}
	}
	return nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
