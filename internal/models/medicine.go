package models

import "time"

const DefaultMedicineColor = "#14b8a6"

const (
	FrequencyOnceDaily   = "once-daily"
	FrequencyTwiceDaily  = "twice-daily"
	FrequencyThriceDaily = "thrice-daily"
	FrequencyWeekly      = "weekly"
	FrequencyAsNeeded    = "as-needed"
	FrequencyCustom      = "custom"
)

const (
	CategoryTablet    = "tablet"
	CategoryCapsule   = "capsule"
	CategorySyrup     = "syrup"
	CategoryInjection = "injection"
	CategoryDrops     = "drops"
	CategoryCream     = "cream"
	CategoryInhaler   = "inhaler"
	CategoryOther     = "other"
)

type Medicine struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"userId"`
	Name             string     `gorm:"not null" json:"medicineName"`
	Dosage           string     `gorm:"not null" json:"dosage"`
	Frequency        string     `gorm:"not null" json:"frequency"`
	Timings          []string   `gorm:"serializer:json" json:"timings"`
	StartDate        time.Time  `gorm:"not null" json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	Instructions     string     `json:"instructions,omitempty"`
	PrescribedBy     string     `json:"prescribedBy,omitempty"`
	Category         string     `gorm:"not null" json:"category"`
	Color            string     `gorm:"not null" json:"color"`
	IsActive         bool       `gorm:"not null" json:"isActive"`
	RemindersEnabled bool       `gorm:"not null" json:"remindersEnabled"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// IsCurrentlyActive reports whether the medicine is flagged active, has started
// by the civil day of now and has not ended before the day of dayStart.
func (medicine Medicine) IsCurrentlyActive(now time.Time, dayStart time.Time) bool {
	if !medicine.IsActive || CalendarDate(medicine.StartDate).After(CalendarDate(now.In(dayStart.Location()))) {
		return false
	}
	return medicine.EndDate == nil || !CalendarDate(*medicine.EndDate).Before(CalendarDate(dayStart))
}
