package domain

import "time"

const (
	localDateTimeLayout = "2006-01-02T15:04:05"
	dateLayout          = "2006-01-02"
)

// ParseDateTime accepts RFC3339, a zone-less local date-time (read as UTC) or
// a bare date (midnight UTC). The result is always in UTC.
func ParseDateTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(localDateTimeLayout, v, time.UTC); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, v, time.UTC)
}
