package records

import "time"

// TimeLayout is the timestamp format written into front matter: UTC with
// millisecond precision, e.g. 2024-03-01T09:30:00.000Z.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts any RFC 3339 timestamp. Empty or malformed values yield
// the zero time and false.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
