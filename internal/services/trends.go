package services

import (
	"context"
	"fmt"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
)

const DefaultTrendDays = 7

type TrendPoint[T any] struct {
	Date  string `json:"date"`
	Value T      `json:"value"`
}

type BloodPressurePoint struct {
	Date      string   `json:"date"`
	Systolic  int      `json:"systolic"`
	Diastolic int      `json:"diastolic"`
	Status    BPStatus `json:"status"`
}

type BloodSugarPoint struct {
	Date     string   `json:"date"`
	Fasting  *float64 `json:"fasting"`
	PostMeal *float64 `json:"postMeal"`
}

type SleepPoint struct {
	Date    string  `json:"date"`
	Hours   float64 `json:"hours"`
	Quality *string `json:"quality"`
}

type VitalTrends struct {
	BloodPressure []BloodPressurePoint  `json:"bloodPressure"`
	HeartRate     []TrendPoint[int]     `json:"heartRate"`
	Weight        []TrendPoint[float64] `json:"weight"`
	BloodSugar    []BloodSugarPoint     `json:"bloodSugar"`
	OxygenLevel   []TrendPoint[int]     `json:"oxygenLevel"`
}

type WellnessTrends struct {
	Mood     []TrendPoint[string]  `json:"mood"`
	Sleep    []SleepPoint          `json:"sleep"`
	Stress   []TrendPoint[int]     `json:"stress"`
	Energy   []TrendPoint[int]     `json:"energy"`
	Water    []TrendPoint[float64] `json:"water"`
	Steps    []TrendPoint[int]     `json:"steps"`
	Exercise []TrendPoint[int]     `json:"exercise"`
}

type TrendReport[T any] struct {
	Trends     T   `json:"trends"`
	PeriodDays int `json:"periodDays"`
	Count      int `json:"count"`
}

func presentInt(value *int) bool {
	return value != nil && *value != 0
}

func presentFloat(value *float64) bool {
	return value != nil && *value != 0
}

func nonZeroFloat(value *float64) *float64 {
	if !presentFloat(value) {
		return nil
	}
	copied := *value
	return &copied
}

// ExtractVitalTrends builds one sparse series per vital from logs sorted by
// date. Blood pressure needs both readings; blood sugar needs either.
func ExtractVitalTrends(logs []models.HealthLog) VitalTrends {
	trends := VitalTrends{
		BloodPressure: []BloodPressurePoint{},
		HeartRate:     []TrendPoint[int]{},
		Weight:        []TrendPoint[float64]{},
		BloodSugar:    []BloodSugarPoint{},
		OxygenLevel:   []TrendPoint[int]{},
	}

	for _, entry := range logs {
		date := CalendarKey(entry.Date)
		pressure := entry.BloodPressure

		if presentInt(pressure.Systolic) && presentInt(pressure.Diastolic) {
			trends.BloodPressure = append(trends.BloodPressure, BloodPressurePoint{
				Date:      date,
				Systolic:  *pressure.Systolic,
				Diastolic: *pressure.Diastolic,
				Status:    ClassifyBloodPressure(pressure.Systolic, pressure.Diastolic),
			})
		}
		if presentInt(entry.HeartRate) {
			trends.HeartRate = append(trends.HeartRate, TrendPoint[int]{Date: date, Value: *entry.HeartRate})
		}
		if presentFloat(entry.Weight) {
			trends.Weight = append(trends.Weight, TrendPoint[float64]{Date: date, Value: *entry.Weight})
		}
		if presentFloat(entry.BloodSugar.Fasting) || presentFloat(entry.BloodSugar.PostMeal) {
			trends.BloodSugar = append(trends.BloodSugar, BloodSugarPoint{
				Date:     date,
				Fasting:  nonZeroFloat(entry.BloodSugar.Fasting),
				PostMeal: nonZeroFloat(entry.BloodSugar.PostMeal),
			})
		}
		if presentInt(entry.OxygenLevel) {
			trends.OxygenLevel = append(trends.OxygenLevel, TrendPoint[int]{Date: date, Value: *entry.OxygenLevel})
		}
	}
	return trends
}

// ExtractWellnessTrends builds the wellness series. Water, steps, exercise and
// sleep keep recorded zeros; mood, stress and energy need a non-empty value.
func ExtractWellnessTrends(logs []models.HealthLog) WellnessTrends {
	trends := WellnessTrends{
		Mood:     []TrendPoint[string]{},
		Sleep:    []SleepPoint{},
		Stress:   []TrendPoint[int]{},
		Energy:   []TrendPoint[int]{},
		Water:    []TrendPoint[float64]{},
		Steps:    []TrendPoint[int]{},
		Exercise: []TrendPoint[int]{},
	}

	for _, entry := range logs {
		date := CalendarKey(entry.Date)

		if entry.Mood != "" {
			trends.Mood = append(trends.Mood, TrendPoint[string]{Date: date, Value: entry.Mood})
		}
		if entry.SleepHours != nil {
			point := SleepPoint{Date: date, Hours: *entry.SleepHours}
			if entry.SleepQuality != "" {
				quality := entry.SleepQuality
				point.Quality = &quality
			}
			trends.Sleep = append(trends.Sleep, point)
		}
		if presentInt(entry.StressLevel) {
			trends.Stress = append(trends.Stress, TrendPoint[int]{Date: date, Value: *entry.StressLevel})
		}
		if presentInt(entry.EnergyLevel) {
			trends.Energy = append(trends.Energy, TrendPoint[int]{Date: date, Value: *entry.EnergyLevel})
		}
		if entry.WaterIntake != nil {
			trends.Water = append(trends.Water, TrendPoint[float64]{Date: date, Value: *entry.WaterIntake})
		}
		if entry.StepsCount != nil {
			trends.Steps = append(trends.Steps, TrendPoint[int]{Date: date, Value: *entry.StepsCount})
		}
		if entry.ExerciseMinutes != nil {
			trends.Exercise = append(trends.Exercise, TrendPoint[int]{Date: date, Value: *entry.ExerciseMinutes})
		}
	}
	return trends
}

type TrendService struct {
	health HealthLogReader
	clock  Clock
}

func NewTrendService(health HealthLogReader, clock Clock) *TrendService {
	return &TrendService{health: health, clock: clock}
}

// window covers local midnight of days ago through the end of today.
func (service *TrendService) window(ctx context.Context, userID uint, days int) ([]models.HealthLog, int, error) {
	if days < 0 {
		days = 0
	}
	now := service.clock.Now()
	location := service.clock.Location()
	_, todayEnd := DayRange(now, location)

	logs, err := service.health.ListHealthLogs(ctx, userID, WindowStart(now, location, days), todayEnd)
	if err != nil {
		return nil, days, fmt.Errorf("load health logs for trends: %w", err)
	}
	return logs, days, nil
}

func (service *TrendService) Vitals(ctx context.Context, userID uint, days int) (TrendReport[VitalTrends], error) {
	logs, days, err := service.window(ctx, userID, days)
	if err != nil {
		return TrendReport[VitalTrends]{}, err
	}
	return TrendReport[VitalTrends]{
		Trends:     ExtractVitalTrends(logs),
		PeriodDays: days,
		Count:      len(logs),
	}, nil
}

func (service *TrendService) Wellness(ctx context.Context, userID uint, days int) (TrendReport[WellnessTrends], error) {
	logs, days, err := service.window(ctx, userID, days)
	if err != nil {
		return TrendReport[WellnessTrends]{}, err
	}
	return TrendReport[WellnessTrends]{
		Trends:     ExtractWellnessTrends(logs),
		PeriodDays: days,
		Count:      len(logs),
	}, nil
}
