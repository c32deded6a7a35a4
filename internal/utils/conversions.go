package utils

import "fmt"

func ToStringSlice(slice []any) []string {
	stringSlice := make([]string, 0)
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}

// ToIDString renders a numeric or string identifier claim as a string.
// JSON numbers arrive as float64, so whole values are printed without a fraction.
func ToIDString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if id == float64(int64(id)) {
			return fmt.Sprintf("%d", int64(id))
		}
		return fmt.Sprintf("%v", id)
	case int64:
		return fmt.Sprintf("%d", id)
	case int:
		return fmt.Sprintf("%d", id)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}
