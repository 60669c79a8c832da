package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Timezone     string    `gorm:"not null" json:"timezone,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}
