package services

import (
	"context"
	"fmt"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
)

const (
	DefaultAdherenceDays   = 30
	DashboardAdherenceDays = 7
)

type AdherenceSummary struct {
	PeriodDays  int `json:"periodDays"`
	Taken       int `json:"taken"`
	Missed      int `json:"missed"`
	Skipped     int `json:"skipped"`
	Total       int `json:"total"`
	RatePercent int `json:"adherenceRate"`
}

func summarize(periodDays int, counts DoseCounts) AdherenceSummary {
	return AdherenceSummary{
		PeriodDays:  periodDays,
		Taken:       counts.Taken,
		Missed:      counts.Missed,
		Skipped:     counts.Skipped,
		Total:       counts.Total,
		RatePercent: counts.Rate(),
	}
}

type AdherenceCalculator struct {
	doses DoseLogReader
	clock Clock
}

func NewAdherenceCalculator(doses DoseLogReader, clock Clock) *AdherenceCalculator {
	return &AdherenceCalculator{doses: doses, clock: clock}
}

// Calculate counts evaluable doses dated on or after local midnight of
// windowDays ago, optionally scoped to one medicine.
func (calculator *AdherenceCalculator) Calculate(ctx context.Context, userID uint, windowDays int, medicineID *uint) (AdherenceSummary, error) {
	if windowDays < 0 {
		windowDays = 0
	}

	logs, err := calculator.doses.ListDoseLogs(ctx, models.DoseLogQuery{
		UserID:     userID,
		From:       WindowStart(calculator.clock.Now(), calculator.clock.Location(), windowDays),
		Statuses:   EvaluableStatuses,
		MedicineID: medicineID,
	})
	if err != nil {
		return AdherenceSummary{}, fmt.Errorf("load dose logs for adherence: %w", err)
	}

	return summarize(windowDays, CountDoses(logs)), nil
}
