package api

import (
	"context"
	"fmt"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	operationWeekly        = "weekly"
	operationAdherence     = "adherence"
	operationMedicineStats = "medicine_stats"
	operationDashboard     = "dashboard"
	operationVitals        = "vitals"
	operationWellness      = "wellness"
)

type adherenceResponse struct {
	AdherenceRate int    `json:"adherenceRate"`
	TotalDoses    int    `json:"totalDoses"`
	TakenDoses    int    `json:"takenDoses"`
	MissedDoses   int    `json:"missedDoses"`
	SkippedDoses  int    `json:"skippedDoses"`
	Period        string `json:"period"`
	Streak        int    `json:"streak"`
}

type medicineStatsResponse struct {
	Medicines []services.MedicineStats `json:"medicines"`
}

type trendResponse[T any] struct {
	Trends T      `json:"trends"`
	Period string `json:"period"`
	Count  int    `json:"count"`
}

func periodLabel(days int) string {
	return fmt.Sprintf("%d days", days)
}

// runAnalytics resolves the caller, times fetch and maps its error to a 500.
func (handler *Handler) runAnalytics(c *fiber.Ctx, operation string, fetch func(ctx context.Context, userID uint, scope userScope) (any, error)) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	started := time.Now()
	data, err := fetch(ctx, user.ID, handler.scopeFor(user))
	if err != nil {
		handler.metrics.ObserveRequest(operation, "error", time.Since(started))
		handler.logger.Error("analytics request failed",
			zap.String("operation", operation),
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return apiError(c, fiber.StatusInternalServerError, "failed to load analytics")
	}
	handler.metrics.ObserveRequest(operation, "ok", time.Since(started))
	return apiSuccess(c, fiber.StatusOK, data)
}

func (handler *Handler) WeeklyAnalytics(c *fiber.Ctx) error {
	return handler.runAnalytics(c, operationWeekly, func(ctx context.Context, userID uint, scope userScope) (any, error) {
		return scope.analytics.Weekly.Build(ctx, userID, time.Time{})
	})
}

func (handler *Handler) AdherenceAnalytics(c *fiber.Ctx) error {
	days := parseDaysQuery(c, handler.limits.DefaultAdherenceDays, handler.limits.MaxWindowDays)
	medicineID, valid := parseOptionalIDQuery(c, "medicineId")
	if !valid {
		medicineID = nil
	}

	return handler.runAnalytics(c, operationAdherence, func(ctx context.Context, userID uint, scope userScope) (any, error) {
		summary, err := scope.analytics.Adherence.Calculate(ctx, userID, days, medicineID)
		if err != nil {
			return nil, err
		}
		streak, err := scope.analytics.Streak.Calculate(ctx, userID, scope.analytics.StreakCap())
		if err != nil {
			return nil, err
		}
		return adherenceResponse{
			AdherenceRate: summary.RatePercent,
			TotalDoses:    summary.Total,
			TakenDoses:    summary.Taken,
			MissedDoses:   summary.Missed,
			SkippedDoses:  summary.Skipped,
			Period:        periodLabel(days),
			Streak:        streak,
		}, nil
	})
}

func (handler *Handler) MedicineAnalytics(c *fiber.Ctx) error {
	days := parseDaysQuery(c, handler.limits.DefaultAdherenceDays, handler.limits.MaxWindowDays)
	return handler.runAnalytics(c, operationMedicineStats, func(ctx context.Context, userID uint, scope userScope) (any, error) {
		stats, err := scope.analytics.MedicineStats.Calculate(ctx, userID, days)
		if err != nil {
			return nil, err
		}
		return medicineStatsResponse{Medicines: stats}, nil
	})
}

// DashboardAnalytics serves a cached summary when one exists. The composer
// never fails as a whole, so the request always succeeds.
func (handler *Handler) DashboardAnalytics(c *fiber.Ctx) error {
	return handler.runAnalytics(c, operationDashboard, func(ctx context.Context, userID uint, scope userScope) (any, error) {
		cached, version, hit := handler.cache.GetDashboard(ctx, userID)
		if hit {
			return cached, nil
		}
		summary := scope.analytics.Dashboard.Compose(ctx, userID)
		handler.cache.PutDashboard(ctx, userID, version, summary)
		return summary, nil
	})
}

func (handler *Handler) VitalsAnalytics(c *fiber.Ctx) error {
	days := parseDaysQuery(c, handler.limits.DefaultTrendDays, handler.limits.MaxWindowDays)
	return handler.runAnalytics(c, operationVitals, func(ctx context.Context, userID uint, scope userScope) (any, error) {
		report, err := scope.analytics.Trends.Vitals(ctx, userID, days)
		if err != nil {
			return nil, err
		}
		return trendResponse[services.VitalTrends]{Trends: report.Trends, Period: periodLabel(report.PeriodDays), Count: report.Count}, nil
	})
}

func (handler *Handler) WellnessAnalytics(c *fiber.Ctx) error {
	days := parseDaysQuery(c, handler.limits.DefaultTrendDays, handler.limits.MaxWindowDays)
	return handler.runAnalytics(c, operationWellness, func(ctx context.Context, userID uint, scope userScope) (any, error) {
		report, err := scope.analytics.Trends.Wellness(ctx, userID, days)
		if err != nil {
			return nil, err
		}
		return trendResponse[services.WellnessTrends]{Trends: report.Trends, Period: periodLabel(report.PeriodDays), Count: report.Count}, nil
	})
}
