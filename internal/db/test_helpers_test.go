package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(filepath.Join(t.TempDir(), "healthtracker-test.db"), zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

func createTestUser(t *testing.T, database *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, database.Create(&user).Error)
	return user
}

func createTestMedicine(t *testing.T, database *gorm.DB, userID uint, name string, startDate time.Time) models.Medicine {
	t.Helper()

	medicine := models.Medicine{
		UserID:    userID,
		Name:      name,
		Dosage:    "10mg",
		Frequency: models.FrequencyOnceDaily,
		Timings:   []string{"08:00"},
		StartDate: startDate,
		Category:  models.CategoryTablet,
		Color:     models.DefaultMedicineColor,
		IsActive:  true,
	}
	require.NoError(t, database.Create(&medicine).Error)
	return medicine
}

func testDay(t *testing.T, raw string) time.Time {
	t.Helper()

	value, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	require.NoError(t, err)
	return value
}
