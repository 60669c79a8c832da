package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentMedicineQueries = 8

type MedicineStats struct {
	MedicineID    uint   `json:"medicineId"`
	MedicineName  string `json:"medicineName"`
	Dosage        string `json:"dosage"`
	Category      string `json:"category"`
	Color         string `json:"color"`
	TotalDoses    int    `json:"totalDoses"`
	TakenDoses    int    `json:"takenDoses"`
	MissedDoses   int    `json:"missedDoses"`
	SkippedDoses  int    `json:"skippedDoses"`
	AdherenceRate int    `json:"adherenceRate"`
}

type MedicineStatsCalculator struct {
	medicines ActiveMedicineReader
	adherence *AdherenceCalculator
	clock     Clock
}

func NewMedicineStatsCalculator(medicines ActiveMedicineReader, adherence *AdherenceCalculator, clock Clock) *MedicineStatsCalculator {
	return &MedicineStatsCalculator{medicines: medicines, adherence: adherence, clock: clock}
}

// Calculate returns one record per currently active medicine, in the order
// the reader lists them. Per-medicine counts are fetched concurrently and the
// first failure cancels the rest.
func (calculator *MedicineStatsCalculator) Calculate(ctx context.Context, userID uint, windowDays int) ([]MedicineStats, error) {
	now := calculator.clock.Now()
	medicines, err := calculator.medicines.ListActiveMedicines(ctx, userID, now, DateAtLocation(now, calculator.clock.Location()))
	if err != nil {
		return nil, fmt.Errorf("list active medicines: %w", err)
	}

	stats := make([]MedicineStats, len(medicines))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentMedicineQueries)
	for index := range medicines {
		medicine := medicines[index]
		group.Go(func() error {
			medicineID := medicine.ID
			summary, err := calculator.adherence.Calculate(groupCtx, userID, windowDays, &medicineID)
			if err != nil {
				return fmt.Errorf("medicine %d: %w", medicine.ID, err)
			}
			stats[index] = MedicineStats{
				MedicineID:    medicine.ID,
				MedicineName:  medicine.Name,
				Dosage:        medicine.Dosage,
				Category:      medicine.Category,
				Color:         medicine.Color,
				TotalDoses:    summary.Total,
				TakenDoses:    summary.Taken,
				MissedDoses:   summary.Missed,
				SkippedDoses:  summary.Skipped,
				AdherenceRate: summary.RatePercent,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
