package services

import (
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
)

// DayLayout is the calendar-day key used in buckets and trend points.
const DayLayout = "2006-01-02"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// FormatDay renders value as the YYYY-MM-DD of its calendar day in location.
func FormatDay(value time.Time, location *time.Location) string {
	return DateAtLocation(value, location).Format(DayLayout)
}

// CalendarKey renders a stored calendar date as YYYY-MM-DD. Stored dates
// carry no timezone meaning, so no location is applied.
func CalendarKey(value time.Time) string {
	return models.CalendarDate(value).Format(DayLayout)
}

// WindowStart is local midnight of the day windowDays before now. Negative
// windows are treated as zero.
func WindowStart(now time.Time, location *time.Location, windowDays int) time.Time {
	if windowDays < 0 {
		windowDays = 0
	}
	return DateAtLocation(now, location).AddDate(0, 0, -windowDays)
}
