package db

import (
	"context"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DoseLogRepository struct {
	database *gorm.DB
}

func NewDoseLogRepository(database *gorm.DB) *DoseLogRepository {
	return &DoseLogRepository{database: database}
}

func (repo *DoseLogRepository) filtered(ctx context.Context, query models.DoseLogQuery) *gorm.DB {
	scoped := repo.database.WithContext(ctx).Model(&models.DoseLog{}).Where("user_id = ?", query.UserID)
	if !query.From.IsZero() {
		scoped = scoped.Where("date >= ?", models.CalendarDate(query.From))
	}
	if !query.To.IsZero() {
		scoped = scoped.Where("date < ?", models.CalendarDate(query.To))
	}
	if len(query.Statuses) > 0 {
		scoped = scoped.Where("status IN ?", query.Statuses)
	}
	if query.MedicineID != nil {
		scoped = scoped.Where("medicine_id = ?", *query.MedicineID)
	}
	return scoped
}

func (repo *DoseLogRepository) ListDoseLogs(ctx context.Context, query models.DoseLogQuery) ([]models.DoseLog, error) {
	scoped := repo.filtered(ctx, query)
	if query.NewestFirst {
		scoped = scoped.Order("date DESC, scheduled_time DESC, id DESC")
	} else {
		scoped = scoped.Order("date ASC, scheduled_time ASC, id ASC")
	}
	if query.Limit > 0 {
		scoped = scoped.Limit(query.Limit)
	}
	if query.Offset > 0 {
		scoped = scoped.Offset(query.Offset)
	}
	if query.WithMedicine {
		scoped = scoped.Preload("Medicine", func(database *gorm.DB) *gorm.DB {
			return database.Select("id", "name", "dosage", "category", "color")
		})
	}

	logs := make([]models.DoseLog, 0)
	if err := scoped.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *DoseLogRepository) CountDoseLogs(ctx context.Context, query models.DoseLogQuery) (int64, error) {
	var count int64
	if err := repo.filtered(ctx, query).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *DoseLogRepository) FindByUserAndID(ctx context.Context, userID uint, logID uint) (models.DoseLog, bool, error) {
	entry := models.DoseLog{}
	result := repo.database.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, logID).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.DoseLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DoseLog{}, false, nil
	}
	return entry, true, nil
}

// UpsertSlot writes entry on its (user, medicine, date, scheduled time) slot,
// replacing status, taken-at and notes when the slot already exists. entry is
// reloaded from the stored row afterwards. The date is stored as its calendar
// date, so writers in different timezones hit the same slot.
func (repo *DoseLogRepository) UpsertSlot(ctx context.Context, entry *models.DoseLog) error {
	entry.Date = models.CalendarDate(entry.Date)
	database := repo.database.WithContext(ctx)
	if err := database.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "medicine_id"},
			{Name: "date"},
			{Name: "scheduled_time"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"status", "taken_at", "notes", "updated_at"}),
	}).Create(entry).Error; err != nil {
		return err
	}

	stored := models.DoseLog{}
	if err := database.
		Preload("Medicine").
		Where("user_id = ? AND medicine_id = ? AND date = ? AND scheduled_time = ?", entry.UserID, entry.MedicineID, entry.Date, entry.ScheduledTime).
		First(&stored).Error; err != nil {
		return err
	}
	*entry = stored
	return nil
}

func (repo *DoseLogRepository) UpdateStatus(ctx context.Context, entry *models.DoseLog) error {
	return repo.database.WithContext(ctx).Model(entry).
		Select("status", "taken_at", "notes", "updated_at").
		Updates(entry).Error
}

func (repo *DoseLogRepository) DeleteByUserAndID(ctx context.Context, userID uint, logID uint) (bool, error) {
	result := repo.database.WithContext(ctx).Where("user_id = ? AND id = ?", userID, logID).Delete(&models.DoseLog{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
