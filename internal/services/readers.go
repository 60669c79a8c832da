package services

import (
	"context"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
)

type DoseLogReader interface {
	ListDoseLogs(ctx context.Context, query models.DoseLogQuery) ([]models.DoseLog, error)
}

// HealthLogReader ranges are half-open: from <= date < to.
type HealthLogReader interface {
	ListHealthLogs(ctx context.Context, userID uint, from time.Time, to time.Time) ([]models.HealthLog, error)
	FindHealthLog(ctx context.Context, userID uint, dayStart time.Time, dayEnd time.Time) (models.HealthLog, bool, error)
}

type ActiveMedicineReader interface {
	ListActiveMedicines(ctx context.Context, userID uint, now time.Time, dayStart time.Time) ([]models.Medicine, error)
	CountActiveMedicines(ctx context.Context, userID uint, now time.Time, dayStart time.Time) (int64, error)
}

// AnalyticsObserver receives engine-level measurements. metrics.Analytics
// implements it.
type AnalyticsObserver interface {
	DashboardFallback(slot string)
	ObserveStreakScan(days int)
}

type noopObserver struct{}

func (noopObserver) DashboardFallback(string) {}
func (noopObserver) ObserveStreakScan(int)    {}
