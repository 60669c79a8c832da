package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
)

const DefaultHealthLogRangeDays = 30

var ErrHealthLogNotFound = errors.New("health log not found")

type HealthLogRepository interface {
	HealthLogReader
	UpsertDay(ctx context.Context, entry *models.HealthLog) error
	FindByUserAndID(ctx context.Context, userID uint, logID uint) (models.HealthLog, bool, error)
	Update(ctx context.Context, entry *models.HealthLog) error
	DeleteByUserAndID(ctx context.Context, userID uint, logID uint) (bool, error)
}

// HealthLogInput carries the fields of a save request. Nil fields keep the
// value already stored for the day.
type HealthLogInput struct {
	Systolic           *int
	Diastolic          *int
	HeartRate          *int
	BodyTemp           *float64
	OxygenLevel        *int
	Weight             *float64
	BloodSugarFasting  *float64
	BloodSugarPostMeal *float64
	WaterIntake        *float64
	SleepHours         *float64
	SleepQuality       *string
	StepsCount         *int
	ExerciseMinutes    *int
	Mood               *string
	StressLevel        *int
	EnergyLevel        *int
	Symptoms           []string
	Notes              *string
}

type HealthLogService struct {
	logs  HealthLogRepository
	clock Clock
}

func NewHealthLogService(logs HealthLogRepository, clock Clock) *HealthLogService {
	return &HealthLogService{logs: logs, clock: clock}
}

// SaveToday merges input into today's log, creating it when missing.
func (service *HealthLogService) SaveToday(ctx context.Context, userID uint, input HealthLogInput) (HealthLogView, error) {
	if err := ValidateHealthLogInput(input); err != nil {
		return HealthLogView{}, err
	}

	dayStart, dayEnd := DayRange(service.clock.Now(), service.clock.Location())
	entry, found, err := service.logs.FindHealthLog(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return HealthLogView{}, fmt.Errorf("load today's health log: %w", err)
	}
	if !found {
		entry = models.HealthLog{UserID: userID, Date: dayStart, Symptoms: []string{}}
	}

	applyHealthLogInput(&entry, input)
	if err := service.logs.UpsertDay(ctx, &entry); err != nil {
		return HealthLogView{}, fmt.Errorf("save health log: %w", err)
	}
	return NewHealthLogView(entry), nil
}

func (service *HealthLogService) Get(ctx context.Context, userID uint, logID uint) (HealthLogView, error) {
	entry, found, err := service.logs.FindByUserAndID(ctx, userID, logID)
	if err != nil {
		return HealthLogView{}, fmt.Errorf("load health log: %w", err)
	}
	if !found {
		return HealthLogView{}, ErrHealthLogNotFound
	}
	return NewHealthLogView(entry), nil
}

// Update merges input into an existing log of any day. Nil fields keep their
// stored value and the date never moves.
func (service *HealthLogService) Update(ctx context.Context, userID uint, logID uint, input HealthLogInput) (HealthLogView, error) {
	if err := ValidateHealthLogInput(input); err != nil {
		return HealthLogView{}, err
	}
	entry, found, err := service.logs.FindByUserAndID(ctx, userID, logID)
	if err != nil {
		return HealthLogView{}, fmt.Errorf("load health log: %w", err)
	}
	if !found {
		return HealthLogView{}, ErrHealthLogNotFound
	}

	applyHealthLogInput(&entry, input)
	if err := service.logs.Update(ctx, &entry); err != nil {
		return HealthLogView{}, fmt.Errorf("update health log: %w", err)
	}
	return NewHealthLogView(entry), nil
}

func (service *HealthLogService) Delete(ctx context.Context, userID uint, logID uint) error {
	deleted, err := service.logs.DeleteByUserAndID(ctx, userID, logID)
	if err != nil {
		return fmt.Errorf("delete health log: %w", err)
	}
	if !deleted {
		return ErrHealthLogNotFound
	}
	return nil
}

func applyHealthLogInput(entry *models.HealthLog, input HealthLogInput) {
	assign(&entry.BloodPressure.Systolic, input.Systolic)
	assign(&entry.BloodPressure.Diastolic, input.Diastolic)
	assign(&entry.HeartRate, input.HeartRate)
	assign(&entry.BodyTemp, input.BodyTemp)
	assign(&entry.OxygenLevel, input.OxygenLevel)
	assign(&entry.Weight, input.Weight)
	assign(&entry.BloodSugar.Fasting, input.BloodSugarFasting)
	assign(&entry.BloodSugar.PostMeal, input.BloodSugarPostMeal)
	assign(&entry.WaterIntake, input.WaterIntake)
	assign(&entry.SleepHours, input.SleepHours)
	assign(&entry.StepsCount, input.StepsCount)
	assign(&entry.ExerciseMinutes, input.ExerciseMinutes)
	assign(&entry.StressLevel, input.StressLevel)
	assign(&entry.EnergyLevel, input.EnergyLevel)

	if input.SleepQuality != nil {
		entry.SleepQuality = strings.TrimSpace(*input.SleepQuality)
	}
	if input.Mood != nil {
		entry.Mood = strings.TrimSpace(*input.Mood)
	}
	if input.Notes != nil {
		entry.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.Symptoms != nil {
		entry.Symptoms = uniqueTrimmed(input.Symptoms)
	}
}

func assign[T any](target **T, value *T) {
	if value == nil {
		return
	}
	copied := *value
	*target = &copied
}

func uniqueTrimmed(raw []string) []string {
	symptoms := make([]string, 0, len(raw))
	for _, value := range raw {
		symptom := strings.TrimSpace(value)
		if symptom == "" || slices.Contains(symptoms, symptom) {
			continue
		}
		symptoms = append(symptoms, symptom)
	}
	return symptoms
}

func (service *HealthLogService) Today(ctx context.Context, userID uint) (*HealthLogView, error) {
	dayStart, dayEnd := DayRange(service.clock.Now(), service.clock.Location())
	entry, found, err := service.logs.FindHealthLog(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("load today's health log: %w", err)
	}
	if !found {
		return nil, nil
	}
	view := NewHealthLogView(entry)
	return &view, nil
}

// Range returns up to limit logs between from and to (inclusive days), newest
// first. A nil from starts limit days ago; a nil to ends today.
func (service *HealthLogService) Range(ctx context.Context, userID uint, from *time.Time, to *time.Time, limit int) ([]HealthLogView, error) {
	if limit <= 0 {
		limit = DefaultHealthLogRangeDays
	}
	now := service.clock.Now()
	location := service.clock.Location()

	start := WindowStart(now, location, limit)
	if from != nil {
		start = DateAtLocation(*from, location)
	}
	_, end := DayRange(now, location)
	if to != nil {
		_, end = DayRange(*to, location)
	}

	logs, err := service.logs.ListHealthLogs(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("load health logs: %w", err)
	}

	views := make([]HealthLogView, 0, min(len(logs), limit))
	for index := len(logs) - 1; index >= 0 && len(views) < limit; index-- {
		views = append(views, NewHealthLogView(logs[index]))
	}
	return views, nil
}
