package surgeapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Param is one optional query parameter.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered parameter list; order is preserved in the encoded query.
type Params []Param

// BuildQuery serializes params as "?k=v&..." in order, skipping absent values
// (nil, nil pointers) and empty strings. It returns "" when nothing remains.
func BuildQuery(params Params) string {
	var sb strings.Builder
	for _, p := range params {
		value, ok := formatValue(p.Value)
		if !ok || value == "" {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(value))
	}
	return sb.String()
}

func formatValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case *string:
		if val == nil {
			return "", false
		}
		return *val, true
	case int:
		return strconv.Itoa(val), true
	case *int:
		if val == nil {
			return "", false
		}
		return strconv.Itoa(*val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case *float64:
		if val == nil {
			return "", false
		}
		return strconv.FormatFloat(*val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return fmt.Sprint(val), true
	}
}
