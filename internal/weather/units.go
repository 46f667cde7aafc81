package weather

import (
	"strconv"
	"strings"
)

// ParseFloat converts an arbitrary decoded JSON value to a float pointer.
// It returns nil for missing, non-numeric, or otherwise malformed input and
// never panics; a nil result is the explicit absent marker used throughout
// the row model.
func ParseFloat(v any) *float64 {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return &x
	case float32:
		f := float64(x)
		return &f
	case int:
		f := float64(x)
		return &f
	case int64:
		f := float64(x)
		return &f
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// KmhToMS converts a wind speed from km/h to m/s. Absent propagates.
func KmhToMS(v *float64) *float64 {
	if v == nil {
		return nil
	}
	ms := *v / 3.6
	return &ms
}

// FormatFloat renders a float pointer for tabular output, using the empty
// string as the absent marker.
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
