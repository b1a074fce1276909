package service

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	hourLayout  = "15:04"
	monthLayout = "2006-01"
)

// parseDate reads the YYYY-MM-DD wire format as a UTC midnight instant.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// parseDateHour combines the YYYY-MM-DD and HH:MM wire fields.
func parseDateHour(date, hour string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+hourLayout, date+" "+hour, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: expected YYYY-MM-DD and HH:MM", date, hour)
	}
	return t, nil
}

// parseMonth reads the YYYY-MM wire format.
func parseMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation(monthLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return t, nil
}
