package feed

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the format of every date written to a feed.
const DateLayout = "2006-01-02"

// Record is one warehouse row keyed by column name. Values are string,
// int64, float64, bool, time.Time or nil.
type Record map[string]any

// Has reports whether the record carries key, null or not.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Text returns the value of key as element text. Null and missing values
// are "".
func (r Record) Text(key string) string {
	s, _ := formatScalar(r[key])
	return s
}

// Date returns the value of key as a date, or nil when it is null.
func (r Record) Date(key string) (*time.Time, error) {
	return parseDate(r[key])
}

func formatScalar(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case time.Time:
		return v.Format(DateLayout), nil
	}
	return "", fmt.Errorf("unsupported value type %T", v)
}

// Layouts drivers use when a date column comes back as text.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseDate(v any) (*time.Time, error) {
	var s string
	switch v := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return nil, fmt.Errorf("unsupported date type %T", v)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable date %q", s)
}

// matchScore renders AA_MATCH_SCORE with the column's single fractional
// digit. Text values (decimal-as-string drivers) pass through unchanged.
func matchScore(v any) (string, error) {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', 1, 64), nil
	case int64:
		return strconv.FormatInt(v, 10) + ".0", nil
	case int:
		return strconv.Itoa(v) + ".0", nil
	}
	return formatScalar(v)
}
