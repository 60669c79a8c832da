package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeDayScenarioLogs(t *testing.T) []models.DoseLog {
	return []models.DoseLog{
		doseOn(t, "2026-03-08", 1, models.DoseStatusTaken),
		doseOn(t, "2026-03-08", 2, models.DoseStatusTaken),
		doseOn(t, "2026-03-09", 1, models.DoseStatusTaken),
		doseOn(t, "2026-03-09", 2, models.DoseStatusMissed),
	}
}

func TestStreakCalculatorThreeDayScenario(t *testing.T) {
	clock := fixedClockAt(t, "2026-03-10 09:00")
	doses := &stubDoseLogReader{logs: threeDayScenarioLogs(t)}

	streak, err := NewStreakCalculator(doses, clock, nil).Calculate(context.Background(), testUserID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, streak, "yesterday's missed dose ends the walk after today is skipped")
	assert.Equal(t, 2, doses.queryCount())

	summary, err := NewAdherenceCalculator(doses, clock).Calculate(context.Background(), testUserID, DashboardAdherenceDays, nil)
	require.NoError(t, err)
	assert.Equal(t, AdherenceSummary{PeriodDays: 7, Taken: 3, Missed: 1, Skipped: 0, Total: 4, RatePercent: 75}, summary)
}

func TestStreakCalculatorCountsFullyTakenDaysBeforeFirstMiss(t *testing.T) {
	doses := &stubDoseLogReader{logs: []models.DoseLog{
		doseOn(t, "2026-03-06", 1, models.DoseStatusMissed),
		doseOn(t, "2026-03-07", 1, models.DoseStatusTaken),
		doseOn(t, "2026-03-08", 1, models.DoseStatusTaken),
		doseOn(t, "2026-03-08", 2, models.DoseStatusTaken),
		doseOn(t, "2026-03-09", 1, models.DoseStatusTaken),
		doseOn(t, "2026-03-10", 1, models.DoseStatusTaken),
		doseOn(t, "2026-03-10", 2, models.DoseStatusPending),
	}}

	streak, err := NewStreakCalculator(doses, fixedClockAt(t, "2026-03-10 21:00"), nil).Calculate(context.Background(), testUserID, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, streak)
}

func TestStreakCalculatorStopsAtGapBeforeToday(t *testing.T) {
	doses := &stubDoseLogReader{logs: []models.DoseLog{
		doseOn(t, "2026-03-07", 1, models.DoseStatusTaken),
		doseOn(t, "2026-03-09", 1, models.DoseStatusTaken),
	}}

	streak, err := NewStreakCalculator(doses, fixedClockAt(t, "2026-03-10 08:00"), nil).Calculate(context.Background(), testUserID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestStreakCalculatorSkippedDoseBreaksStreak(t *testing.T) {
	doses := &stubDoseLogReader{logs: []models.DoseLog{
		doseOn(t, "2026-03-09", 1, models.DoseStatusTaken),
		doseOn(t, "2026-03-10", 1, models.DoseStatusSkipped),
	}}

	streak, err := NewStreakCalculator(doses, fixedClockAt(t, "2026-03-10 08:00"), nil).Calculate(context.Background(), testUserID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestStreakCalculatorIsBoundedByCap(t *testing.T) {
	clock := fixedClockAt(t, "2026-03-10 08:00")
	today := mustParseDay(t, "2026-03-10")
	logs := make([]models.DoseLog, 0, 20)
	for offset := 0; offset < 20; offset++ {
		logs = append(logs, models.DoseLog{
			UserID:     testUserID,
			MedicineID: 1,
			Date:       today.AddDate(0, 0, -offset),
			Status:     models.DoseStatusTaken,
		})
	}
	doses := &stubDoseLogReader{logs: logs}
	observer := &recordingObserver{}

	streak, err := NewStreakCalculator(doses, clock, observer).Calculate(context.Background(), testUserID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, streak)
	assert.Equal(t, []int{5}, observer.scans)

	uncapped, err := NewStreakCalculator(doses, clock, nil).Calculate(context.Background(), testUserID, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, uncapped)
	assert.LessOrEqual(t, uncapped, DefaultStreakCap)
}

func TestStreakCalculatorPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("disk I/O error")

	streak, err := NewStreakCalculator(&stubDoseLogReader{err: storeErr}, fixedClockAt(t, "2026-03-10 08:00"), nil).Calculate(context.Background(), testUserID, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storeErr))
	assert.Equal(t, 0, streak)
}

func TestStreakCalculatorHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStreakCalculator(&stubDoseLogReader{}, fixedClockAt(t, "2026-03-10 08:00"), nil).Calculate(ctx, testUserID, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
