package db

import (
	"context"
	"testing"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicineRepositoryActiveScope(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewMedicineRepository(database)
	ctx := context.Background()

	user := createTestUser(t, database, "medicines-active@health.local")
	today := testDay(t, "2026-03-10")
	now := today.Add(10 * time.Hour)

	current := createTestMedicine(t, database, user.ID, "Current", today.AddDate(0, 0, -10))
	createTestMedicine(t, database, user.ID, "Future", today.AddDate(0, 0, 3))

	ended := createTestMedicine(t, database, user.ID, "Ended", today.AddDate(0, 0, -30))
	endedAt := today.AddDate(0, 0, -1)
	require.NoError(t, database.Model(&models.Medicine{}).Where("id = ?", ended.ID).Update("end_date", endedAt).Error)

	endsToday := createTestMedicine(t, database, user.ID, "EndsToday", today.AddDate(0, 0, -30))
	require.NoError(t, database.Model(&models.Medicine{}).Where("id = ?", endsToday.ID).Update("end_date", today).Error)

	paused := createTestMedicine(t, database, user.ID, "Paused", today.AddDate(0, 0, -2))
	deactivated, err := repo.SetActive(ctx, user.ID, paused.ID, false)
	require.NoError(t, err)
	require.True(t, deactivated)

	active, err := repo.ListActiveMedicines(ctx, user.ID, now, today)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, current.ID, active[0].ID)
	assert.Equal(t, endsToday.ID, active[1].ID)

	count, err := repo.CountActiveMedicines(ctx, user.ID, now, today)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	all, err := repo.ListByUser(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	flagged, err := repo.ListByUser(ctx, user.ID, false)
	require.NoError(t, err)
	assert.Len(t, flagged, 4)
}

func TestMedicineRepositoryFindByUserAndIDRejectsOtherUsers(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewMedicineRepository(database)
	ctx := context.Background()

	owner := createTestUser(t, database, "medicine-owner@health.local")
	other := createTestUser(t, database, "medicine-other@health.local")
	medicine := createTestMedicine(t, database, owner.ID, "Vitamin D", testDay(t, "2026-01-01"))

	_, found, err := repo.FindByUserAndID(ctx, other.ID, medicine.ID)
	require.NoError(t, err)
	assert.False(t, found)

	stored, found, err := repo.FindByUserAndID(ctx, owner.ID, medicine.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"08:00"}, stored.Timings)

	deactivated, err := repo.SetActive(ctx, other.ID, medicine.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated)
}

func TestMedicineRepositoryUpdateStoresCalendarDates(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewMedicineRepository(database)
	ctx := context.Background()

	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	user := createTestUser(t, database, "medicines-update@health.local")
	medicine := createTestMedicine(t, database, user.ID, "Metformin", testDay(t, "2026-03-01"))

	end := time.Date(2026, 3, 10, 0, 0, 0, 0, newYork)
	medicine.Dosage = "850mg"
	medicine.EndDate = &end
	require.NoError(t, repo.Update(ctx, &medicine))

	stored, found, err := repo.FindByUserAndID(ctx, user.ID, medicine.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "850mg", stored.Dosage)
	require.NotNil(t, stored.EndDate)
	assert.True(t, stored.EndDate.Equal(testDay(t, "2026-03-10")))

	active, err := repo.ListActiveMedicines(ctx, user.ID, end.Add(20*time.Hour), end)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	stored.EndDate = nil
	require.NoError(t, repo.Update(ctx, &stored))
	reloaded, _, err := repo.FindByUserAndID(ctx, user.ID, medicine.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.EndDate)
}
