package db

import (
	"context"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HealthLogRepository struct {
	database *gorm.DB
}

func NewHealthLogRepository(database *gorm.DB) *HealthLogRepository {
	return &HealthLogRepository{database: database}
}

// ListHealthLogs returns logs with from <= date < to, oldest first.
func (repo *HealthLogRepository) ListHealthLogs(ctx context.Context, userID uint, from time.Time, to time.Time) ([]models.HealthLog, error) {
	logs := make([]models.HealthLog, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, models.CalendarDate(from), models.CalendarDate(to)).
		Order("date ASC, id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *HealthLogRepository) FindHealthLog(ctx context.Context, userID uint, dayStart time.Time, dayEnd time.Time) (models.HealthLog, bool, error) {
	entry := models.HealthLog{}
	result := repo.database.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, models.CalendarDate(dayStart), models.CalendarDate(dayEnd)).
		Order("date DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.HealthLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.HealthLog{}, false, nil
	}
	return entry, true, nil
}

var healthLogUpsertColumns = []string{
	"bp_systolic", "bp_diastolic", "heart_rate", "body_temp", "oxygen_level", "weight",
	"blood_sugar_fasting", "blood_sugar_post_meal", "water_intake", "sleep_hours", "sleep_quality",
	"steps_count", "exercise_minutes", "mood", "stress_level", "energy_level", "symptoms", "notes",
	"updated_at",
}

// UpsertDay stores entry as the single log of its (user, date) and reloads it.
func (repo *HealthLogRepository) UpsertDay(ctx context.Context, entry *models.HealthLog) error {
	entry.Date = models.CalendarDate(entry.Date)
	database := repo.database.WithContext(ctx)
	if err := database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns(healthLogUpsertColumns),
	}).Create(entry).Error; err != nil {
		return err
	}

	stored := models.HealthLog{}
	if err := database.Where("user_id = ? AND date = ?", entry.UserID, entry.Date).First(&stored).Error; err != nil {
		return err
	}
	*entry = stored
	return nil
}

func (repo *HealthLogRepository) FindByUserAndID(ctx context.Context, userID uint, logID uint) (models.HealthLog, bool, error) {
	entry := models.HealthLog{}
	result := repo.database.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, logID).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.HealthLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.HealthLog{}, false, nil
	}
	return entry, true, nil
}

// Update rewrites the measurement columns of an existing entry. The date is
// never changed.
func (repo *HealthLogRepository) Update(ctx context.Context, entry *models.HealthLog) error {
	return repo.database.WithContext(ctx).Model(entry).
		Where("user_id = ?", entry.UserID).
		Select(healthLogUpsertColumns).
		Updates(entry).Error
}

func (repo *HealthLogRepository) DeleteByUserAndID(ctx context.Context, userID uint, logID uint) (bool, error) {
	result := repo.database.WithContext(ctx).Where("user_id = ? AND id = ?", userID, logID).Delete(&models.HealthLog{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
