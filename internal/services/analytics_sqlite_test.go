package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/db"
	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openAnalyticsDatabase(t *testing.T) *db.Repositories {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "analytics.db"), zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db.NewRepositories(database)
}

// US clocks move forward on 2026-03-08, so that local day lasts 23 hours.
func TestWeeklyAndStreakAcrossDaylightSavingStart(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	repositories := openAnalyticsDatabase(t)
	ctx := context.Background()

	user := models.User{Name: "Sam", Email: "dst@health.local", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, repositories.Users.Create(ctx, &user))
	medicine := models.Medicine{
		UserID:    user.ID,
		Name:      "Metformin",
		Dosage:    "500mg",
		Frequency: models.FrequencyOnceDaily,
		Timings:   []string{"08:00"},
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, newYork),
		Category:  models.CategoryTablet,
		Color:     models.DefaultMedicineColor,
		IsActive:  true,
	}
	require.NoError(t, repositories.Medicines.Create(ctx, &medicine))

	record := func(day int, hour int, taken bool) {
		clock := FixedClock{At: time.Date(2026, 3, day, hour, 30, 0, 0, newYork), Zone: newYork}
		service := NewDoseLogService(repositories.DoseLogs, repositories.Medicines, clock)
		input := DoseMarkInput{MedicineID: medicine.ID, ScheduledTime: "08:00"}
		if taken {
			_, err = service.MarkTaken(ctx, user.ID, input)
		} else {
			_, err = service.MarkMissed(ctx, user.ID, input)
		}
		require.NoError(t, err)
	}
	record(5, 21, false)
	for day := 6; day <= 10; day++ {
		// 23:30 local is already the next UTC day.
		record(day, 23, true)
	}
	record(8, 0, true)

	now := FixedClock{At: time.Date(2026, 3, 10, 23, 45, 0, 0, newYork), Zone: newYork}

	weekly, err := NewWeeklyAggregator(repositories.DoseLogs, now).Build(ctx, user.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, DailyBucket{Date: "2026-03-04", AdherencePercent: 100}, weekly.Days[0])
	assert.Equal(t, DailyBucket{Date: "2026-03-05", Missed: 1, Total: 1}, weekly.Days[1])
	for _, bucket := range weekly.Days[2:] {
		assert.Equal(t, 1, bucket.Taken, bucket.Date)
		assert.Equal(t, 1, bucket.Total, bucket.Date)
	}
	assert.Equal(t, "2026-03-08", weekly.Days[4].Date)
	assert.Equal(t, AdherenceSummary{PeriodDays: 7, Taken: 5, Missed: 1, Total: 6, RatePercent: 83}, weekly.Summary)

	streak, err := NewStreakCalculator(repositories.DoseLogs, now, nil).Calculate(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, streak)

	again, err := NewWeeklyAggregator(repositories.DoseLogs, now).Build(ctx, user.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, weekly, again)

	count, err := repositories.DoseLogs.CountDoseLogs(ctx, models.DoseLogQuery{UserID: user.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 6, count)
}
