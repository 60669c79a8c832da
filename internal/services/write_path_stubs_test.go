package services

import (
	"context"
	"slices"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"gorm.io/gorm"
)

type memoryDoseLogStore struct {
	reader  stubDoseLogReader
	nextID  uint
	saveErr error
}

func (store *memoryDoseLogStore) ListDoseLogs(ctx context.Context, query models.DoseLogQuery) ([]models.DoseLog, error) {
	logs, err := store.reader.ListDoseLogs(ctx, query)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(logs, func(left, right models.DoseLog) int {
		if query.NewestFirst {
			return right.Date.Compare(left.Date)
		}
		return left.Date.Compare(right.Date)
	})
	if query.Offset > 0 {
		logs = logs[min(query.Offset, len(logs)):]
	}
	if query.Limit > 0 {
		logs = logs[:min(query.Limit, len(logs))]
	}
	return logs, nil
}

func (store *memoryDoseLogStore) CountDoseLogs(ctx context.Context, query models.DoseLogQuery) (int64, error) {
	logs, err := store.reader.ListDoseLogs(ctx, query)
	return int64(len(logs)), err
}

func (store *memoryDoseLogStore) FindByUserAndID(_ context.Context, userID uint, logID uint) (models.DoseLog, bool, error) {
	for _, entry := range store.reader.logs {
		if entry.UserID == userID && entry.ID == logID {
			return entry, true, nil
		}
	}
	return models.DoseLog{}, false, nil
}

func (store *memoryDoseLogStore) UpsertSlot(_ context.Context, entry *models.DoseLog) error {
	if store.saveErr != nil {
		return store.saveErr
	}
	for index, existing := range store.reader.logs {
		if existing.UserID == entry.UserID && existing.MedicineID == entry.MedicineID &&
			existing.Date.Equal(entry.Date) && existing.ScheduledTime == entry.ScheduledTime {
			entry.ID = existing.ID
			store.reader.logs[index] = *entry
			return nil
		}
	}
	store.nextID++
	entry.ID = store.nextID
	store.reader.logs = append(store.reader.logs, *entry)
	return nil
}

func (store *memoryDoseLogStore) UpdateStatus(_ context.Context, entry *models.DoseLog) error {
	for index, existing := range store.reader.logs {
		if existing.ID == entry.ID {
			store.reader.logs[index] = *entry
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (store *memoryDoseLogStore) DeleteByUserAndID(_ context.Context, userID uint, logID uint) (bool, error) {
	for index, existing := range store.reader.logs {
		if existing.UserID == userID && existing.ID == logID {
			store.reader.logs = slices.Delete(store.reader.logs, index, index+1)
			return true, nil
		}
	}
	return false, nil
}

type memoryMedicineStore struct {
	medicines []models.Medicine
	nextID    uint
}

func (store *memoryMedicineStore) FindByUserAndID(_ context.Context, userID uint, medicineID uint) (models.Medicine, bool, error) {
	for _, medicine := range store.medicines {
		if medicine.UserID == userID && medicine.ID == medicineID {
			return medicine, true, nil
		}
	}
	return models.Medicine{}, false, nil
}

func (store *memoryMedicineStore) ListByUser(_ context.Context, userID uint, includeInactive bool) ([]models.Medicine, error) {
	result := make([]models.Medicine, 0, len(store.medicines))
	for _, medicine := range store.medicines {
		if medicine.UserID == userID && (includeInactive || medicine.IsActive) {
			result = append(result, medicine)
		}
	}
	return result, nil
}

func (store *memoryMedicineStore) Create(_ context.Context, medicine *models.Medicine) error {
	store.nextID++
	medicine.ID = store.nextID
	store.medicines = append(store.medicines, *medicine)
	return nil
}

func (store *memoryMedicineStore) ListActiveMedicines(ctx context.Context, userID uint, now time.Time, dayStart time.Time) ([]models.Medicine, error) {
	return (&stubMedicineReader{medicines: store.medicines}).ListActiveMedicines(ctx, userID, now, dayStart)
}

func (store *memoryMedicineStore) CountActiveMedicines(ctx context.Context, userID uint, now time.Time, dayStart time.Time) (int64, error) {
	return (&stubMedicineReader{medicines: store.medicines}).CountActiveMedicines(ctx, userID, now, dayStart)
}

func (store *memoryMedicineStore) Update(_ context.Context, medicine *models.Medicine) error {
	for index := range store.medicines {
		if store.medicines[index].UserID == medicine.UserID && store.medicines[index].ID == medicine.ID {
			store.medicines[index] = *medicine
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (store *memoryMedicineStore) SetActive(_ context.Context, userID uint, medicineID uint, active bool) (bool, error) {
	for index := range store.medicines {
		if store.medicines[index].UserID == userID && store.medicines[index].ID == medicineID {
			store.medicines[index].IsActive = active
			return true, nil
		}
	}
	return false, nil
}

type memoryHealthLogStore struct {
	stubHealthLogReader
	saves int
}

func (store *memoryHealthLogStore) UpsertDay(_ context.Context, entry *models.HealthLog) error {
	store.saves++
	for index, existing := range store.logs {
		if existing.UserID == entry.UserID && existing.Date.Equal(entry.Date) {
			entry.ID = existing.ID
			store.logs[index] = *entry
			return nil
		}
	}
	entry.ID = uint(len(store.logs) + 1)
	store.logs = append(store.logs, *entry)
	return nil
}

func (store *memoryHealthLogStore) FindByUserAndID(_ context.Context, userID uint, logID uint) (models.HealthLog, bool, error) {
	for _, entry := range store.logs {
		if entry.UserID == userID && entry.ID == logID {
			return entry, true, nil
		}
	}
	return models.HealthLog{}, false, nil
}

func (store *memoryHealthLogStore) Update(_ context.Context, entry *models.HealthLog) error {
	store.saves++
	for index, existing := range store.logs {
		if existing.UserID == entry.UserID && existing.ID == entry.ID {
			store.logs[index] = *entry
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (store *memoryHealthLogStore) DeleteByUserAndID(_ context.Context, userID uint, logID uint) (bool, error) {
	for index, existing := range store.logs {
		if existing.UserID == userID && existing.ID == logID {
			store.logs = slices.Delete(store.logs, index, index+1)
			return true, nil
		}
	}
	return false, nil
}

type memoryUserStore struct {
	users    []models.User
	lookups  int
	findErr  error
	timezone map[uint]string
	hashes   map[uint]string
}

func (store *memoryUserStore) ExistsByNormalizedEmail(_ context.Context, email string) (bool, error) {
	return slices.ContainsFunc(store.users, func(user models.User) bool { return user.Email == email }), nil
}

func (store *memoryUserStore) FindByNormalizedEmail(_ context.Context, email string) (models.User, error) {
	store.lookups++
	if store.findErr != nil {
		return models.User{}, store.findErr
	}
	for _, user := range store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (store *memoryUserStore) FindByID(_ context.Context, userID uint) (models.User, error) {
	for _, user := range store.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (store *memoryUserStore) Create(_ context.Context, user *models.User) error {
	user.ID = uint(len(store.users) + 1)
	store.users = append(store.users, *user)
	return nil
}

func (store *memoryUserStore) UpdateTimezone(_ context.Context, userID uint, timezone string) error {
	if store.timezone == nil {
		store.timezone = map[uint]string{}
	}
	store.timezone[userID] = timezone
	return nil
}

func (store *memoryUserStore) UpdatePasswordHash(_ context.Context, userID uint, passwordHash string) error {
	if store.hashes == nil {
		store.hashes = map[uint]string{}
	}
	store.hashes[userID] = passwordHash
	return nil
}

func stringValue(value string) *string {
	return &value
}

func timeValue(value time.Time) *time.Time {
	return &value
}

func boolValue(value bool) *bool {
	return &value
}
