package usecase

import (
	"strings"
	"time"

	"clinic-scheduler/internal/domain/entity"
)

// Accepted layouts of a clinic-local date-time
var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

var ErrInvalidDateTime = newError(ErrInvalidArgument, "invalid appointment date, use YYYY-MM-DDTHH:MM")

// parseLocalDateTime reads a wall-clock date-time in the clinic's time zone,
// truncated to the minute.
func parseLocalDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Truncate(time.Minute), nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

// parseDate reads a YYYY-MM-DD calendar date
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(entity.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return entity.CalendarDate(t), nil
}

// parseClock validates an HH:MM time and returns it zero-padded
func parseClock(s string) (string, error) {
	t, err := time.Parse(entity.TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidTime
	}
	return t.Format(entity.TimeLayout), nil
}
