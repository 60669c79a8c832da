package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
)

var ErrHealthLogInvalid = errors.New("invalid health log")

const maxHealthNotesLength = 500

// HealthLogValidationError names the first field that failed validation.
type HealthLogValidationError struct {
	Field  string
	Reason string
}

func (err *HealthLogValidationError) Error() string {
	return fmt.Sprintf("%s %s", err.Field, err.Reason)
}

func (err *HealthLogValidationError) Unwrap() error {
	return ErrHealthLogInvalid
}

var (
	validMoods          = []string{models.MoodTerrible, models.MoodBad, models.MoodOkay, models.MoodGood, models.MoodGreat}
	validSleepQualities = []string{models.SleepQualityPoor, models.SleepQualityFair, models.SleepQualityGood, models.SleepQualityExcellent}
)

type numberRange[T int | float64] struct {
	field string
	value *T
	min   T
	max   T
}

func (check numberRange[T]) validate() error {
	if check.value == nil {
		return nil
	}
	if *check.value < check.min || *check.value > check.max {
		return &HealthLogValidationError{Field: check.field, Reason: fmt.Sprintf("must be between %v and %v", check.min, check.max)}
	}
	return nil
}

func ValidateHealthLogInput(input HealthLogInput) error {
	checks := []interface{ validate() error }{
		numberRange[int]{field: "bloodPressure.systolic", value: input.Systolic, min: 50, max: 300},
		numberRange[int]{field: "bloodPressure.diastolic", value: input.Diastolic, min: 30, max: 200},
		numberRange[int]{field: "heartRate", value: input.HeartRate, min: 30, max: 250},
		numberRange[float64]{field: "bodyTemp", value: input.BodyTemp, min: 90, max: 110},
		numberRange[int]{field: "oxygenLevel", value: input.OxygenLevel, min: 50, max: 100},
		numberRange[float64]{field: "weight", value: input.Weight, min: 1, max: 500},
		numberRange[float64]{field: "bloodSugar.fasting", value: input.BloodSugarFasting, min: 20, max: 600},
		numberRange[float64]{field: "bloodSugar.postMeal", value: input.BloodSugarPostMeal, min: 20, max: 600},
		numberRange[float64]{field: "waterIntake", value: input.WaterIntake, min: 0, max: 30},
		numberRange[float64]{field: "sleepHours", value: input.SleepHours, min: 0, max: 24},
		numberRange[int]{field: "stepsCount", value: input.StepsCount, min: 0, max: 100000},
		numberRange[int]{field: "exerciseMinutes", value: input.ExerciseMinutes, min: 0, max: 1440},
		numberRange[int]{field: "stressLevel", value: input.StressLevel, min: 1, max: 5},
		numberRange[int]{field: "energyLevel", value: input.EnergyLevel, min: 1, max: 5},
	}
	for _, check := range checks {
		if err := check.validate(); err != nil {
			return err
		}
	}

	if input.Mood != nil && *input.Mood != "" && !slices.Contains(validMoods, *input.Mood) {
		return &HealthLogValidationError{Field: "mood", Reason: "is not a known mood"}
	}
	if input.SleepQuality != nil && *input.SleepQuality != "" && !slices.Contains(validSleepQualities, *input.SleepQuality) {
		return &HealthLogValidationError{Field: "sleepQuality", Reason: "is not a known sleep quality"}
	}
	if input.Notes != nil && utf8.RuneCountInString(strings.TrimSpace(*input.Notes)) > maxHealthNotesLength {
		return &HealthLogValidationError{Field: "notes", Reason: fmt.Sprintf("cannot exceed %d characters", maxHealthNotesLength)}
	}
	return nil
}
