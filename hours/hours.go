// Package hours deals with the two time formats of the dataset API: query
// parameters in Danish local time, record timestamps in unzoned UTC.
package hours

import (
	"fmt"
	"time"
)

const (
	queryLayout  = "2006-01-02T15:04"
	recordLayout = "2006-01-02T15:04:05"
)

var copenhagenLoc *time.Location

func init() {
	var err error
	copenhagenLoc, err = time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		panic(fmt.Sprintf("failed to load Copenhagen location: %v", err))
	}
}

// FormatQuery renders t the way the API expects its start and end
// parameters: Danish local time, minute precision, no zone suffix.
func FormatQuery(t time.Time) string {
	return t.In(copenhagenLoc).Format(queryLayout)
}

// ParseRecord reads a record timestamp such as "2023-03-25T23:00:00".
// The API leaves its UTC columns unzoned, so the result is pinned to UTC.
func ParseRecord(str string) (time.Time, error) {
	t, err := time.ParseInLocation(recordLayout, str, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse record time %q: %w", str, err)
	}
	return t, nil
}

// LocationCopenhagen converts t to Danish local time.
func LocationCopenhagen(t time.Time) time.Time {
	return t.In(copenhagenLoc)
}

// TruncateHour zeroes everything below the hour.
func TruncateHour(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

// NextHour returns the start of the hour after t.
func NextHour(t time.Time) time.Time {
	return TruncateHour(t).Add(time.Hour)
}
