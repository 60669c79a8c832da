package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/cache"
	"github.com/dinraj910/Health-Tracker-App/internal/db"
	"github.com/dinraj910/Health-Tracker-App/internal/metrics"
	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
	registry *prometheus.Registry
	clock    services.FixedClock
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testEnvOption func(*HandlerConfig)

func withSummaryCache(summaryCache *cache.SummaryCache) testEnvOption {
	return func(config *HandlerConfig) { config.Cache = summaryCache }
}

func withAnalyticsRate(perSecond float64, burst int) testEnvOption {
	return func(config *HandlerConfig) {
		config.Analytics.RateLimitRPS = perSecond
		config.Analytics.RateLimitBurst = burst
	}
}

func newTestEnv(t *testing.T, options ...testEnvOption) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "healthtracker-api.db"), zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	registry := prometheus.NewRegistry()
	analyticsMetrics, err := metrics.NewAnalytics(registry)
	require.NoError(t, err)

	clock := services.FixedClock{At: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC), Zone: time.UTC}
	config := HandlerConfig{
		SecretKey: testSecretKey,
		Location:  time.UTC,
		Logger:    zap.NewNop(),
		Metrics:   analyticsMetrics,
		Clock:     clock,
		Analytics: AnalyticsLimits{RateLimitRPS: 1000, RateLimitBurst: 1000},
	}
	for _, option := range options {
		option(&config)
	}

	handler, err := NewHandler(database, config)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterRoutes(app, handler)

	return &testEnv{app: app, handler: handler, database: database, registry: registry, clock: clock}
}

func (env *testEnv) request(t *testing.T, method string, path string, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	require.NoError(t, err, "%s %s", method, path)
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	var decoded envelope
	if len(raw) > 0 && strings.HasPrefix(response.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return response.StatusCode, decoded
}

func (env *testEnv) register(t *testing.T, email string) (string, models.User) {
	t.Helper()

	status, body := env.request(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Test User",
		"email":    email,
		"password": "StrongPass1",
	})
	require.Equal(t, http.StatusCreated, status, body.Error)

	var session authResponse
	require.NoError(t, json.Unmarshal(body.Data, &session))
	require.NotEmpty(t, session.Token)
	return session.Token, session.User
}

func (env *testEnv) createMedicine(t *testing.T, token string, name string) models.Medicine {
	t.Helper()

	status, body := env.request(t, http.MethodPost, "/api/medicines", token, fiber.Map{
		"medicineName": name,
		"dosage":       "10mg",
		"timings":      []string{"08:00", "20:00"},
		"startDate":    "2026-01-01",
	})
	require.Equal(t, http.StatusCreated, status, body.Error)

	var medicine models.Medicine
	require.NoError(t, json.Unmarshal(body.Data, &medicine))
	return medicine
}

func (env *testEnv) seedDose(t *testing.T, userID uint, medicineID uint, day string, slot string, status string) {
	t.Helper()

	date, err := time.ParseInLocation(services.DayLayout, day, time.UTC)
	require.NoError(t, err)
	require.NoError(t, env.database.Create(&models.DoseLog{
		UserID:        userID,
		MedicineID:    medicineID,
		Date:          date,
		ScheduledTime: slot,
		Status:        status,
	}).Error)
}

func decodeData[T any](t *testing.T, body envelope) T {
	t.Helper()

	var value T
	require.NoError(t, json.Unmarshal(body.Data, &value), string(body.Data))
	return value
}

func idPath(format string, id uint) string {
	return fmt.Sprintf(format, id)
}
