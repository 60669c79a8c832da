package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dinraj910/Health-Tracker-App/internal/cache"
	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// seedAdherenceHistory leaves: today 1 taken, yesterday 2 taken, 03-08 one
// taken and one missed, 03-07 one skipped, 02-20 one taken.
func seedAdherenceHistory(t *testing.T, env *testEnv) (string, models.User, models.Medicine) {
	t.Helper()

	token, user := env.register(t, "sam@example.com")
	medicine := env.createMedicine(t, token, "Lisinopril")

	status, body := env.request(t, http.MethodPost, "/api/log/take", token, fiber.Map{
		"medicineId": medicine.ID, "scheduledTime": "08:00",
	})
	require.Equal(t, http.StatusOK, status, body.Error)

	env.seedDose(t, user.ID, medicine.ID, "2026-03-09", "08:00", models.DoseStatusTaken)
	env.seedDose(t, user.ID, medicine.ID, "2026-03-09", "20:00", models.DoseStatusTaken)
	env.seedDose(t, user.ID, medicine.ID, "2026-03-08", "08:00", models.DoseStatusTaken)
	env.seedDose(t, user.ID, medicine.ID, "2026-03-08", "20:00", models.DoseStatusMissed)
	env.seedDose(t, user.ID, medicine.ID, "2026-03-07", "08:00", models.DoseStatusSkipped)
	env.seedDose(t, user.ID, medicine.ID, "2026-02-20", "08:00", models.DoseStatusTaken)
	return token, user, medicine
}

func TestWeeklyAnalytics(t *testing.T) {
	env := newTestEnv(t)
	token, _, _ := seedAdherenceHistory(t, env)

	status, body := env.request(t, http.MethodGet, "/api/analytics/weekly", token, nil)
	require.Equal(t, http.StatusOK, status, body.Error)

	weekly := decodeData[services.WeeklyBreakdown](t, body)
	require.Len(t, weekly.Days, services.WeekDays)
	assert.Equal(t, "2026-03-04", weekly.Days[0].Date)
	assert.Equal(t, "2026-03-10", weekly.Days[6].Date)
	assert.Equal(t, 100, weekly.Days[0].AdherencePercent)
	assert.Equal(t, 50, weekly.Days[4].AdherencePercent)
	assert.Equal(t, 0, weekly.Days[3].AdherencePercent)
	assert.Equal(t, 4, weekly.Summary.Taken)
	assert.Equal(t, 1, weekly.Summary.Missed)
	assert.Equal(t, 1, weekly.Summary.Skipped)
	assert.Equal(t, 6, weekly.Summary.Total)
	assert.Equal(t, 67, weekly.Summary.RatePercent)
}

func TestAdherenceAnalyticsDaysHandling(t *testing.T) {
	env := newTestEnv(t)
	token, _, _ := seedAdherenceHistory(t, env)

	status, body := env.request(t, http.MethodGet, "/api/analytics/adherence", token, nil)
	require.Equal(t, http.StatusOK, status, body.Error)
	assert.Equal(t, adherenceResponse{
		AdherenceRate: 71,
		TotalDoses:    7,
		TakenDoses:    5,
		MissedDoses:   1,
		SkippedDoses:  1,
		Period:        "30 days",
		Streak:        2,
	}, decodeData[adherenceResponse](t, body))

	status, body = env.request(t, http.MethodGet, "/api/analytics/adherence?days=abc", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "30 days", decodeData[adherenceResponse](t, body).Period)

	status, body = env.request(t, http.MethodGet, "/api/analytics/adherence?days=-4", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "30 days", decodeData[adherenceResponse](t, body).Period)

	status, body = env.request(t, http.MethodGet, "/api/analytics/adherence?days=0", token, nil)
	require.Equal(t, http.StatusOK, status)
	today := decodeData[adherenceResponse](t, body)
	assert.Equal(t, "0 days", today.Period)
	assert.Equal(t, 1, today.TotalDoses)
	assert.Equal(t, 100, today.AdherenceRate)

	status, body = env.request(t, http.MethodGet, "/api/analytics/adherence?days=1000", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "365 days", decodeData[adherenceResponse](t, body).Period)

	status, body = env.request(t, http.MethodGet, "/api/analytics/adherence?days=2", token, nil)
	require.Equal(t, http.StatusOK, status)
	short := decodeData[adherenceResponse](t, body)
	assert.Equal(t, 5, short.TotalDoses)
	assert.Equal(t, 80, short.AdherenceRate)
}

func TestMedicineAnalytics(t *testing.T) {
	env := newTestEnv(t)
	token, _, medicine := seedAdherenceHistory(t, env)

	status, body := env.request(t, http.MethodGet, "/api/analytics/medicines", token, nil)
	require.Equal(t, http.StatusOK, status, body.Error)

	stats := decodeData[medicineStatsResponse](t, body)
	require.Len(t, stats.Medicines, 1)
	assert.Equal(t, medicine.ID, stats.Medicines[0].MedicineID)
	assert.Equal(t, "Lisinopril", stats.Medicines[0].MedicineName)
	assert.Equal(t, 7, stats.Medicines[0].TotalDoses)
	assert.Equal(t, 5, stats.Medicines[0].TakenDoses)
	assert.Equal(t, 71, stats.Medicines[0].AdherenceRate)
}

func TestDashboardAnalytics(t *testing.T) {
	env := newTestEnv(t)
	token, _, _ := seedAdherenceHistory(t, env)

	status, body := env.request(t, http.MethodPost, "/api/health-logs", token, fiber.Map{
		"bloodPressure": fiber.Map{"systolic": 145, "diastolic": 95},
		"weight":        70.5,
	})
	require.Equal(t, http.StatusOK, status, body.Error)

	status, body = env.request(t, http.MethodGet, "/api/analytics/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status, body.Error)

	summary := decodeData[services.DashboardSummary](t, body)
	assert.Equal(t, int64(1), summary.ActiveMedicines)
	assert.Equal(t, services.TodayProgress{Taken: 1, Pending: 0, Total: 1}, summary.TodayProgress)
	assert.Equal(t, 67, summary.WeeklyAdherence)
	assert.Equal(t, 2, summary.Streak)
	require.NotNil(t, summary.TodayHealthLog)
	assert.Equal(t, services.BPStatusHighStage2, summary.TodayHealthLog.BPStatus)
	assert.Len(t, summary.WeeklyHealthLogs, 1)
	assert.Empty(t, summary.Degraded)
}

func TestTrendAnalytics(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "sam@example.com")

	status, body := env.request(t, http.MethodPost, "/api/health-logs", token, fiber.Map{"weight": 72.4})
	require.Equal(t, http.StatusOK, status, body.Error)

	status, body = env.request(t, http.MethodGet, "/api/analytics/vitals", token, nil)
	require.Equal(t, http.StatusOK, status, body.Error)
	vitals := decodeData[trendResponse[services.VitalTrends]](t, body)
	assert.Equal(t, "7 days", vitals.Period)
	assert.Equal(t, 1, vitals.Count)
	assert.Equal(t, []services.TrendPoint[float64]{{Date: "2026-03-10", Value: 72.4}}, vitals.Trends.Weight)
	assert.Empty(t, vitals.Trends.HeartRate)
	assert.Empty(t, vitals.Trends.BloodPressure)

	status, body = env.request(t, http.MethodGet, "/api/analytics/wellness?days=14", token, nil)
	require.Equal(t, http.StatusOK, status, body.Error)
	wellness := decodeData[trendResponse[services.WellnessTrends]](t, body)
	assert.Equal(t, "14 days", wellness.Period)
	assert.Empty(t, wellness.Trends.Mood)
	assert.Empty(t, wellness.Trends.Sleep)
}

func TestAnalyticsRecordsMetrics(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "sam@example.com")

	for _, path := range []string{"/api/analytics/weekly", "/api/analytics/adherence", "/api/analytics/dashboard"} {
		status, body := env.request(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, status, body.Error)
	}

	count, err := testutil.GatherAndCount(env.registry, "healthtracker_analytics_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	scans, err := testutil.GatherAndCount(env.registry, "healthtracker_streak_days_scanned")
	require.NoError(t, err)
	assert.Equal(t, 1, scans)
}

func TestAnalyticsRateLimit(t *testing.T) {
	env := newTestEnv(t, withAnalyticsRate(0.001, 2))
	token, _ := env.register(t, "sam@example.com")

	for range 2 {
		status, _ := env.request(t, http.MethodGet, "/api/analytics/weekly", token, nil)
		require.Equal(t, http.StatusOK, status)
	}
	status, body := env.request(t, http.MethodGet, "/api/analytics/weekly", token, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "too many requests", body.Error)

	otherToken, _ := env.register(t, "other@example.com")
	status, _ = env.request(t, http.MethodGet, "/api/analytics/weekly", otherToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestDashboardCacheInvalidatedByWrites(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	summaryCache := cache.NewWithClient(client, time.Minute, zap.NewNop())

	env := newTestEnv(t, withSummaryCache(summaryCache))
	token, user := env.register(t, "sam@example.com")
	medicine := env.createMedicine(t, token, "Metformin")
	versionKey := idPath("healthtracker:dashboard:%d:v", user.ID)
	currentKey := func() string {
		version, err := server.Get(versionKey)
		require.NoError(t, err)
		return idPath("healthtracker:dashboard:%d:", user.ID) + version
	}

	status, body := env.request(t, http.MethodGet, "/api/analytics/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status, body.Error)
	assert.Equal(t, services.TodayProgress{}, decodeData[services.DashboardSummary](t, body).TodayProgress)
	cachedKey := currentKey()
	assert.True(t, server.Exists(cachedKey))

	status, _ = env.request(t, http.MethodPost, "/api/log/take", token, fiber.Map{
		"medicineId": medicine.ID, "scheduledTime": "08:00",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, cachedKey, currentKey())
	assert.False(t, server.Exists(currentKey()))

	status, body = env.request(t, http.MethodGet, "/api/analytics/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, decodeData[services.DashboardSummary](t, body).TodayProgress.Taken)
}
