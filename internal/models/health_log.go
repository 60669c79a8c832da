package models

import "time"

const (
	MoodTerrible = "terrible"
	MoodBad      = "bad"
	MoodOkay     = "okay"
	MoodGood     = "good"
	MoodGreat    = "great"
)

const (
	SleepQualityPoor      = "poor"
	SleepQualityFair      = "fair"
	SleepQualityGood      = "good"
	SleepQualityExcellent = "excellent"
)

type BloodPressure struct {
	Systolic  *int `json:"systolic"`
	Diastolic *int `json:"diastolic"`
}

type BloodSugar struct {
	Fasting  *float64 `json:"fasting"`
	PostMeal *float64 `json:"postMeal"`
}

// HealthLog is a user's self-reported snapshot for one calendar day.
// At most one row exists per (UserID, Date).
type HealthLog struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UserID          uint          `gorm:"not null;uniqueIndex:uidx_health_user_date" json:"userId"`
	Date            time.Time     `gorm:"type:date;not null;uniqueIndex:uidx_health_user_date" json:"date"`
	BloodPressure   BloodPressure `gorm:"embedded;embeddedPrefix:bp_" json:"bloodPressure"`
	HeartRate       *int          `json:"heartRate"`
	BodyTemp        *float64      `json:"bodyTemp"`
	OxygenLevel     *int          `json:"oxygenLevel"`
	Weight          *float64      `json:"weight"`
	BloodSugar      BloodSugar    `gorm:"embedded;embeddedPrefix:blood_sugar_" json:"bloodSugar"`
	WaterIntake     *float64      `json:"waterIntake"`
	SleepHours      *float64      `json:"sleepHours"`
	SleepQuality    string        `json:"sleepQuality,omitempty"`
	StepsCount      *int          `json:"stepsCount"`
	ExerciseMinutes *int          `json:"exerciseMinutes"`
	Mood            string        `json:"mood,omitempty"`
	StressLevel     *int          `json:"stressLevel"`
	EnergyLevel     *int          `json:"energyLevel"`
	Symptoms        []string      `gorm:"serializer:json" json:"symptoms"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}
