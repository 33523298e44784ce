package hrdocs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is one record produced by a module's fetch. Keys are column data keys;
// values are whatever the data layer returned. Renderers never mutate rows.
type Row map[string]any

// SummaryKey marks a totals line. It is never a column data key.
const SummaryKey = "_summary"

// Summary marks r as a totals line and returns it.
func Summary(r Row) Row {
	r[SummaryKey] = true
	return r
}

// IsSummary reports whether r was marked with Summary.
func (r Row) IsSummary() bool {
	b, _ := r[SummaryKey].(bool)
	return b
}

// Text renders the value under key for display. Missing keys, nil values and
// values of unexpected shape render as the empty string rather than failing.
func (r Row) Text(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Float returns the numeric value under key, parsing strings if needed.
func (r Row) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		return f, err == nil
	}
	return 0, false
}

// Time returns the date value under key. ISO dates, RFC 3339 timestamps and
// time.Time values are accepted.
func (r Row) Time(key string) (time.Time, bool) {
	return parseTime(r[key])
}

// FormatValue converts a loosely typed cell value to display text.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return FormatAmount(v)
	case float32:
		return FormatAmount(float64(v))
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		if v {
			return "Y"
		}
		return ""
	case time.Time:
		return FormatThaiShortDate(v)
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

func parseTime(v any) (time.Time, bool) {
	switch v := v.(type) {
	case time.Time:
		return v, !v.IsZero()
	case []byte:
		return parseTime(string(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", time.DateOnly} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Filters is an open set of optional scalar filter values. Modules read only
// the keys they understand.
type Filters map[string]any

// String returns the trimmed string value of key; empty values count as unset.
func (f Filters) String(key string) (string, bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return "", false
	}
	s := strings.TrimSpace(FormatFilterValue(v))
	return s, s != ""
}

// Bool reports whether key holds a truthy value ("1", "true", "yes", "on").
func (f Filters) Bool(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on", "y":
			return true
		}
	case int:
		return v != 0
	}
	return false
}

// FormatFilterValue stringifies a filter value without display formatting.
func FormatFilterValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
