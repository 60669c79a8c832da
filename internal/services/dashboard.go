package services

import (
	"context"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	SlotActiveMedicines  = "activeMedicines"
	SlotTodayProgress    = "todayProgress"
	SlotWeeklyAdherence  = "weeklyAdherence"
	SlotStreak           = "streak"
	SlotTodayHealthLog   = "todayHealthLog"
	SlotWeeklyHealthLogs = "weeklyHealthLogs"
)

var dashboardSlots = []string{
	SlotActiveMedicines,
	SlotTodayProgress,
	SlotWeeklyAdherence,
	SlotStreak,
	SlotTodayHealthLog,
	SlotWeeklyHealthLogs,
}

type TodayProgress struct {
	Taken   int `json:"taken"`
	Pending int `json:"pending"`
	Total   int `json:"total"`
}

// HealthLogView is a stored health log with its derived blood pressure class.
type HealthLogView struct {
	models.HealthLog
	BPStatus BPStatus `json:"bpStatus"`
}

func NewHealthLogView(entry models.HealthLog) HealthLogView {
	return HealthLogView{
		HealthLog: entry,
		BPStatus:  ClassifyBloodPressure(entry.BloodPressure.Systolic, entry.BloodPressure.Diastolic),
	}
}

type DashboardSummary struct {
	ActiveMedicines  int64           `json:"activeMedicines"`
	TodayProgress    TodayProgress   `json:"todayProgress"`
	WeeklyAdherence  int             `json:"weeklyAdherence"`
	Streak           int             `json:"streak"`
	TodayHealthLog   *HealthLogView  `json:"todayHealthLog"`
	WeeklyHealthLogs []HealthLogView `json:"weeklyHealthLogs"`
	Degraded         []string        `json:"degraded,omitempty"`
}

type DashboardComposer struct {
	medicines ActiveMedicineReader
	doses     DoseLogReader
	health    HealthLogReader
	adherence *AdherenceCalculator
	streak    *StreakCalculator
	clock     Clock
	streakCap int
	logger    *zap.Logger
	observer  AnalyticsObserver
}

func NewDashboardComposer(
	medicines ActiveMedicineReader,
	doses DoseLogReader,
	health HealthLogReader,
	adherence *AdherenceCalculator,
	streak *StreakCalculator,
	clock Clock,
	streakCap int,
	logger *zap.Logger,
	observer AnalyticsObserver,
) *DashboardComposer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &DashboardComposer{
		medicines: medicines,
		doses:     doses,
		health:    health,
		adherence: adherence,
		streak:    streak,
		clock:     clock,
		streakCap: streakCap,
		logger:    logger,
		observer:  observer,
	}
}

// bestEffort runs fetch and, when it fails, reports the slot and hands back
// fallback instead.
func bestEffort[T any](composer *DashboardComposer, userID uint, slot string, fallback T, fetch func() (T, error)) (T, bool) {
	value, err := fetch()
	if err == nil {
		return value, true
	}
	composer.logger.Warn("dashboard sub-fetch failed",
		zap.String("slot", slot),
		zap.Uint("user_id", userID),
		zap.Error(err),
	)
	composer.observer.DashboardFallback(slot)
	return fallback, false
}

// Compose gathers the six dashboard figures concurrently. It never fails: a
// figure whose fetch fails is replaced by its neutral default and named in
// Degraded.
func (composer *DashboardComposer) Compose(ctx context.Context, userID uint) DashboardSummary {
	now := composer.clock.Now()
	location := composer.clock.Location()
	todayStart, todayEnd := DayRange(now, location)
	weekStart := todayStart.AddDate(0, 0, -(WeekDays - 1))

	summary := DashboardSummary{WeeklyAdherence: 100, WeeklyHealthLogs: []HealthLogView{}}
	succeeded := make([]bool, len(dashboardSlots))

	var group errgroup.Group
	group.Go(func() error {
		summary.ActiveMedicines, succeeded[0] = bestEffort(composer, userID, SlotActiveMedicines, 0, func() (int64, error) {
			return composer.medicines.CountActiveMedicines(ctx, userID, now, todayStart)
		})
		return nil
	})
	group.Go(func() error {
		summary.TodayProgress, succeeded[1] = bestEffort(composer, userID, SlotTodayProgress, TodayProgress{}, func() (TodayProgress, error) {
			logs, err := composer.doses.ListDoseLogs(ctx, models.DoseLogQuery{UserID: userID, From: todayStart, To: todayEnd})
			if err != nil {
				return TodayProgress{}, err
			}
			return buildTodayProgress(logs), nil
		})
		return nil
	})
	group.Go(func() error {
		summary.WeeklyAdherence, succeeded[2] = bestEffort(composer, userID, SlotWeeklyAdherence, 100, func() (int, error) {
			weekly, err := composer.adherence.Calculate(ctx, userID, DashboardAdherenceDays, nil)
			return weekly.RatePercent, err
		})
		return nil
	})
	group.Go(func() error {
		summary.Streak, succeeded[3] = bestEffort(composer, userID, SlotStreak, 0, func() (int, error) {
			return composer.streak.Calculate(ctx, userID, composer.streakCap)
		})
		return nil
	})
	group.Go(func() error {
		summary.TodayHealthLog, succeeded[4] = bestEffort(composer, userID, SlotTodayHealthLog, (*HealthLogView)(nil), func() (*HealthLogView, error) {
			entry, found, err := composer.health.FindHealthLog(ctx, userID, todayStart, todayEnd)
			if err != nil || !found {
				return nil, err
			}
			view := NewHealthLogView(entry)
			return &view, nil
		})
		return nil
	})
	group.Go(func() error {
		summary.WeeklyHealthLogs, succeeded[5] = bestEffort(composer, userID, SlotWeeklyHealthLogs, []HealthLogView{}, func() ([]HealthLogView, error) {
			logs, err := composer.health.ListHealthLogs(ctx, userID, weekStart, todayEnd)
			if err != nil {
				return nil, err
			}
			views := make([]HealthLogView, 0, len(logs))
			for _, entry := range logs {
				views = append(views, NewHealthLogView(entry))
			}
			return views, nil
		})
		return nil
	})
	_ = group.Wait()

	for index, ok := range succeeded {
		if !ok {
			summary.Degraded = append(summary.Degraded, dashboardSlots[index])
		}
	}
	return summary
}

func buildTodayProgress(logs []models.DoseLog) TodayProgress {
	progress := TodayProgress{Total: len(logs)}
	for _, entry := range logs {
		switch entry.Status {
		case models.DoseStatusTaken:
			progress.Taken++
		case models.DoseStatusPending:
			progress.Pending++
		}
	}
	return progress
}
