package models

import "time"

const (
	DoseStatusTaken   = "taken"
	DoseStatusMissed  = "missed"
	DoseStatusSkipped = "skipped"
	DoseStatusPending = "pending"
)

// DoseLog is one scheduled dose slot of one medicine on one calendar day.
// (UserID, MedicineID, Date, ScheduledTime) is the natural key.
type DoseLog struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;uniqueIndex:uidx_dose_slot;index:idx_dose_user_date" json:"userId"`
	MedicineID    uint       `gorm:"not null;uniqueIndex:uidx_dose_slot" json:"medicineId"`
	Date          time.Time  `gorm:"type:date;not null;uniqueIndex:uidx_dose_slot;index:idx_dose_user_date" json:"date"`
	ScheduledTime string     `gorm:"not null;uniqueIndex:uidx_dose_slot" json:"scheduledTime"`
	Status        string     `gorm:"not null;default:pending" json:"status"`
	TakenAt       *time.Time `json:"takenAt,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Medicine      *Medicine  `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func IsKnownDoseStatus(status string) bool {
	switch status {
	case DoseStatusTaken, DoseStatusMissed, DoseStatusSkipped, DoseStatusPending:
		return true
	default:
		return false
	}
}

// DoseLogQuery selects dose logs of one user. From is inclusive and To is
// exclusive; a zero bound leaves that side of the range open. Empty Statuses
// matches every status.
type DoseLogQuery struct {
	UserID      uint
	From        time.Time
	To          time.Time
	Statuses    []string
	MedicineID  *uint
	Limit       int
	Offset      int
	NewestFirst bool
	// WithMedicine loads the owning medicine's display fields.
	WithMedicine bool
}
