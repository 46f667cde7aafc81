package weather

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// wmoDescriptions maps WMO 4677-style weather interpretation codes, as used
// by Open-Meteo, to short human-readable descriptions.
var wmoDescriptions = map[int]string{
	0:  "clear sky",
	1:  "mainly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "fog",
	48: "depositing rime fog",
	51: "light drizzle",
	53: "moderate drizzle",
	55: "dense drizzle",
	56: "light freezing drizzle",
	57: "dense freezing drizzle",
	61: "slight rain",
	63: "moderate rain",
	65: "heavy rain",
	66: "light freezing rain",
	67: "heavy freezing rain",
	71: "slight snowfall",
	73: "moderate snowfall",
	75: "heavy snowfall",
	77: "snow grains",
	80: "slight rain showers",
	81: "moderate rain showers",
	82: "violent rain showers",
	85: "slight snow showers",
	86: "heavy snow showers",
	95: "thunderstorm",
	96: "thunderstorm with slight hail",
	99: "thunderstorm with heavy hail",
}

// DescribeCode decodes a provider condition indicator into a human-readable
// description. Integer codes (including integral floats and numeric strings)
// are looked up in the WMO table, with unknown codes rendered as
// "unknown(<code>)". Non-numeric input is returned in best-effort string
// form; nil or empty input yields the empty string. DescribeCode is total
// and never fails.
func DescribeCode(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int:
		return describeInt(x)
	case int64:
		return describeInt(int(x))
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) && !math.IsNaN(x) {
			return describeInt(int(x))
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return ""
		}
		if n, err := strconv.Atoi(s); err == nil {
			return describeInt(n)
		}
		return s
	default:
		return fmt.Sprint(x)
	}
}

func describeInt(code int) string {
	if desc, ok := wmoDescriptions[code]; ok {
		return desc
	}
	return fmt.Sprintf("unknown(%d)", code)
}
