package services

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/stretchr/testify/require"
)

type stubDoseLogReader struct {
	mu      sync.Mutex
	logs    []models.DoseLog
	err     error
	queries []models.DoseLogQuery
}

func (stub *stubDoseLogReader) ListDoseLogs(_ context.Context, query models.DoseLogQuery) ([]models.DoseLog, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	stub.queries = append(stub.queries, query)
	if stub.err != nil {
		return nil, stub.err
	}

	result := make([]models.DoseLog, 0, len(stub.logs))
	for _, entry := range stub.logs {
		if entry.UserID != query.UserID {
			continue
		}
		day := models.CalendarDate(entry.Date)
		if !query.From.IsZero() && day.Before(models.CalendarDate(query.From)) {
			continue
		}
		if !query.To.IsZero() && !day.Before(models.CalendarDate(query.To)) {
			continue
		}
		if len(query.Statuses) > 0 && !slices.Contains(query.Statuses, entry.Status) {
			continue
		}
		if query.MedicineID != nil && entry.MedicineID != *query.MedicineID {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func (stub *stubDoseLogReader) queryCount() int {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return len(stub.queries)
}

type stubHealthLogReader struct {
	logs    []models.HealthLog
	listErr error
	findErr error
}

func (stub *stubHealthLogReader) ListHealthLogs(_ context.Context, userID uint, from time.Time, to time.Time) ([]models.HealthLog, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.HealthLog, 0, len(stub.logs))
	for _, entry := range stub.logs {
		day := models.CalendarDate(entry.Date)
		if entry.UserID == userID && !day.Before(models.CalendarDate(from)) && day.Before(models.CalendarDate(to)) {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (stub *stubHealthLogReader) FindHealthLog(ctx context.Context, userID uint, dayStart time.Time, dayEnd time.Time) (models.HealthLog, bool, error) {
	if stub.findErr != nil {
		return models.HealthLog{}, false, stub.findErr
	}
	logs, _ := stub.ListHealthLogs(ctx, userID, dayStart, dayEnd)
	if len(logs) == 0 {
		return models.HealthLog{}, false, nil
	}
	return logs[len(logs)-1], true, nil
}

type stubMedicineReader struct {
	medicines []models.Medicine
	listErr   error
	countErr  error
}

func (stub *stubMedicineReader) ListActiveMedicines(_ context.Context, userID uint, now time.Time, dayStart time.Time) ([]models.Medicine, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.Medicine, 0, len(stub.medicines))
	for _, medicine := range stub.medicines {
		if medicine.UserID == userID && medicine.IsCurrentlyActive(now, dayStart) {
			result = append(result, medicine)
		}
	}
	return result, nil
}

func (stub *stubMedicineReader) CountActiveMedicines(ctx context.Context, userID uint, now time.Time, dayStart time.Time) (int64, error) {
	if stub.countErr != nil {
		return 0, stub.countErr
	}
	medicines, err := stub.ListActiveMedicines(ctx, userID, now, dayStart)
	return int64(len(medicines)), err
}

type recordingObserver struct {
	mu        sync.Mutex
	fallbacks []string
	scans     []int
}

func (observer *recordingObserver) DashboardFallback(slot string) {
	observer.mu.Lock()
	defer observer.mu.Unlock()
	observer.fallbacks = append(observer.fallbacks, slot)
}

func (observer *recordingObserver) ObserveStreakScan(days int) {
	observer.mu.Lock()
	defer observer.mu.Unlock()
	observer.scans = append(observer.scans, days)
}

const testUserID uint = 7

func mustParseDay(t *testing.T, raw string) time.Time {
	t.Helper()

	value, err := time.ParseInLocation(DayLayout, raw, time.UTC)
	require.NoError(t, err)
	return value
}

func fixedClockAt(t *testing.T, raw string) FixedClock {
	t.Helper()

	value, err := time.ParseInLocation("2006-01-02 15:04", raw, time.UTC)
	require.NoError(t, err)
	return FixedClock{At: value, Zone: time.UTC}
}

func doseOn(t *testing.T, day string, medicineID uint, status string) models.DoseLog {
	t.Helper()
	return models.DoseLog{
		UserID:        testUserID,
		MedicineID:    medicineID,
		Date:          mustParseDay(t, day),
		ScheduledTime: "08:00",
		Status:        status,
	}
}

func intValue(value int) *int {
	return &value
}

func floatValue(value float64) *float64 {
	return &value
}
