package services

import "time"

// Clock supplies "now" and the location whose calendar days bound every
// analytics window.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type SystemClock struct {
	location *time.Location
}

func NewSystemClock(location *time.Location) SystemClock {
	return SystemClock{location: location}
}

func (clock SystemClock) Now() time.Time {
	return time.Now().In(clock.Location())
}

func (clock SystemClock) Location() *time.Location {
	if clock.location == nil {
		return time.Local
	}
	return clock.location
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At   time.Time
	Zone *time.Location
}

func (clock FixedClock) Now() time.Time {
	return clock.At.In(clock.Location())
}

func (clock FixedClock) Location() *time.Location {
	if clock.Zone != nil {
		return clock.Zone
	}
	return clock.At.Location()
}

type zonedClock struct {
	base     Clock
	location *time.Location
}

func (clock zonedClock) Now() time.Time {
	return clock.base.Now().In(clock.location)
}

func (clock zonedClock) Location() *time.Location {
	return clock.location
}

// InLocation keeps the instants of base but reports them in location. A nil
// location returns base unchanged.
func InLocation(base Clock, location *time.Location) Clock {
	if location == nil {
		return base
	}
	return zonedClock{base: base, location: location}
}
