package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Day is a day-of-week token of an availability window
type Day string

const (
	DayMonday    Day = "MONDAY"
	DayTuesday   Day = "TUESDAY"
	DayWednesday Day = "WEDNESDAY"
	DayThursday  Day = "THURSDAY"
	DayFriday    Day = "FRIDAY"
	DaySaturday  Day = "SATURDAY"
	DaySunday    Day = "SUNDAY"
)

var weekdays = map[time.Weekday]Day{
	time.Monday:    DayMonday,
	time.Tuesday:   DayTuesday,
	time.Wednesday: DayWednesday,
	time.Thursday:  DayThursday,
	time.Friday:    DayFriday,
	time.Saturday:  DaySaturday,
	time.Sunday:    DaySunday,
}

// ParseDay matches a day token case-insensitively against the day enumeration
func ParseDay(s string) (Day, error) {
	day := Day(strings.ToUpper(strings.TrimSpace(s)))
	for _, d := range weekdays {
		if d == day {
			return day, nil
		}
	}
	return "", fmt.Errorf("unknown day %q", s)
}

func DayOf(t time.Time) Day {
	return weekdays[t.Weekday()]
}

// TimeLayout is the wall-clock format of availability and appointment times
const TimeLayout = "15:04"

// DateLayout is the calendar date format used on the wire
const DateLayout = "2006-01-02"

// CalendarDate strips the clock from t, keeping t's calendar day, as midnight UTC.
// Calendar dates are always stored and compared in this form.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Availability is a doctor-declared open (or closed) window
type Availability struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;index:idx_availabilities_doctor_date" json:"doctor_id"`
	Day         Day       `gorm:"type:varchar(10);not null;index:idx_availabilities_day_time" json:"day"`
	Time        string    `gorm:"type:varchar(5);not null;index:idx_availabilities_day_time" json:"time"`
	Date        time.Time `gorm:"not null;index:idx_availabilities_doctor_date" json:"date"`
	IsAvailable bool      `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Availability) TableName() string {
	return "availabilities"
}

// BelongsTo reports whether the window is owned by doctorID
func (a *Availability) BelongsTo(doctorID uuid.UUID) bool {
	return a.DoctorID == doctorID
}
