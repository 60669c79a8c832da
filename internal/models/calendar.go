package models

import "time"

// CalendarDate maps value to UTC midnight of the civil date it shows in its
// own location. Day-keyed columns are stored in this form so a row keeps the
// same key whatever timezone the writer was in.
func CalendarDate(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
