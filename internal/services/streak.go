package services

import (
	"context"
	"fmt"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
)

const DefaultStreakCap = 365

type StreakCalculator struct {
	doses    DoseLogReader
	clock    Clock
	observer AnalyticsObserver
}

func NewStreakCalculator(doses DoseLogReader, clock Clock, observer AnalyticsObserver) *StreakCalculator {
	if observer == nil {
		observer = noopObserver{}
	}
	return &StreakCalculator{doses: doses, clock: clock, observer: observer}
}

// Calculate counts consecutive days, walking back from today, on which every
// evaluable dose was taken. A today without decided doses is skipped; any
// earlier day without decided doses ends the streak. The result is in
// [0, streakCap]; streakCap <= 0 means DefaultStreakCap.
func (calculator *StreakCalculator) Calculate(ctx context.Context, userID uint, streakCap int) (int, error) {
	if streakCap <= 0 {
		streakCap = DefaultStreakCap
	}

	today := DateAtLocation(calculator.clock.Now(), calculator.clock.Location())
	streak := 0
	scanned := 0
	defer func() {
		calculator.observer.ObserveStreakScan(scanned)
	}()

	for cursor := today; streak < streakCap; cursor = cursor.AddDate(0, 0, -1) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		logs, err := calculator.doses.ListDoseLogs(ctx, models.DoseLogQuery{
			UserID:   userID,
			From:     cursor,
			To:       cursor.AddDate(0, 0, 1),
			Statuses: EvaluableStatuses,
		})
		scanned++
		if err != nil {
			return 0, fmt.Errorf("load dose logs for %s: %w", cursor.Format(DayLayout), err)
		}

		if len(logs) == 0 {
			if cursor.Equal(today) {
				continue
			}
			break
		}
		if !allTaken(logs) {
			break
		}
		streak++
	}

	return min(streak, streakCap), nil
}

func allTaken(logs []models.DoseLog) bool {
	for _, entry := range logs {
		if entry.Status != models.DoseStatusTaken {
			return false
		}
	}
	return true
}
