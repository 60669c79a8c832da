package db

import (
	"context"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"gorm.io/gorm"
)

type MedicineRepository struct {
	database *gorm.DB
}

func NewMedicineRepository(database *gorm.DB) *MedicineRepository {
	return &MedicineRepository{database: database}
}

// activeScope keeps medicines flagged active that have started by the civil
// day of now and whose end date, when set, is not before the day of dayStart.
func activeScope(query *gorm.DB, userID uint, now time.Time, dayStart time.Time) *gorm.DB {
	return query.
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("start_date <= ?", models.CalendarDate(now.In(dayStart.Location()))).
		Where("(end_date IS NULL OR end_date >= ?)", models.CalendarDate(dayStart))
}

// normalizeMedicineDates stores start and end as calendar dates.
func normalizeMedicineDates(medicine *models.Medicine) {
	medicine.StartDate = models.CalendarDate(medicine.StartDate)
	if medicine.EndDate != nil {
		end := models.CalendarDate(*medicine.EndDate)
		medicine.EndDate = &end
	}
}

func (repo *MedicineRepository) ListActiveMedicines(ctx context.Context, userID uint, now time.Time, dayStart time.Time) ([]models.Medicine, error) {
	medicines := make([]models.Medicine, 0)
	query := activeScope(repo.database.WithContext(ctx).Model(&models.Medicine{}), userID, now, dayStart)
	if err := query.Order("id ASC").Find(&medicines).Error; err != nil {
		return nil, err
	}
	return medicines, nil
}

func (repo *MedicineRepository) CountActiveMedicines(ctx context.Context, userID uint, now time.Time, dayStart time.Time) (int64, error) {
	var count int64
	query := activeScope(repo.database.WithContext(ctx).Model(&models.Medicine{}), userID, now, dayStart)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *MedicineRepository) ListByUser(ctx context.Context, userID uint, includeInactive bool) ([]models.Medicine, error) {
	query := repo.database.WithContext(ctx).Where("user_id = ?", userID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	medicines := make([]models.Medicine, 0)
	if err := query.Order("created_at DESC, id DESC").Find(&medicines).Error; err != nil {
		return nil, err
	}
	return medicines, nil
}

func (repo *MedicineRepository) FindByUserAndID(ctx context.Context, userID uint, medicineID uint) (models.Medicine, bool, error) {
	medicine := models.Medicine{}
	result := repo.database.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, medicineID).
		Limit(1).
		Find(&medicine)
	if result.Error != nil {
		return models.Medicine{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Medicine{}, false, nil
	}
	return medicine, true, nil
}

func (repo *MedicineRepository) Create(ctx context.Context, medicine *models.Medicine) error {
	normalizeMedicineDates(medicine)
	return repo.database.WithContext(ctx).Create(medicine).Error
}

var medicineUpdateColumns = []string{
	"name", "dosage", "frequency", "timings", "start_date", "end_date", "instructions",
	"prescribed_by", "category", "color", "is_active", "reminders_enabled", "updated_at",
}

// Update writes every editable column of medicine, including a cleared end
// date.
func (repo *MedicineRepository) Update(ctx context.Context, medicine *models.Medicine) error {
	normalizeMedicineDates(medicine)
	return repo.database.WithContext(ctx).Model(medicine).
		Where("user_id = ?", medicine.UserID).
		Select(medicineUpdateColumns).
		Updates(medicine).Error
}

func (repo *MedicineRepository) SetActive(ctx context.Context, userID uint, medicineID uint, active bool) (bool, error) {
	result := repo.database.WithContext(ctx).Model(&models.Medicine{}).
		Where("user_id = ? AND id = ?", userID, medicineID).
		Update("is_active", active)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
