package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
)

var (
	ErrMedicineNotFound      = errors.New("medicine not found")
	ErrDoseLogNotFound       = errors.New("dose log not found")
	ErrInvalidDoseStatus     = errors.New("invalid dose status")
	ErrScheduledTimeRequired = errors.New("scheduled time is required")
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type DoseLogRepository interface {
	ListDoseLogs(ctx context.Context, query models.DoseLogQuery) ([]models.DoseLog, error)
	CountDoseLogs(ctx context.Context, query models.DoseLogQuery) (int64, error)
	FindByUserAndID(ctx context.Context, userID uint, logID uint) (models.DoseLog, bool, error)
	UpsertSlot(ctx context.Context, entry *models.DoseLog) error
	UpdateStatus(ctx context.Context, entry *models.DoseLog) error
	DeleteByUserAndID(ctx context.Context, userID uint, logID uint) (bool, error)
}

type MedicineLookup interface {
	FindByUserAndID(ctx context.Context, userID uint, medicineID uint) (models.Medicine, bool, error)
}

type DoseMarkInput struct {
	MedicineID    uint
	ScheduledTime string
	Notes         string
	// Status is only read by MarkMissed: "skipped" records a skip, anything
	// else a miss.
	Status string
}

type DoseUpdateInput struct {
	Status *string
	Notes  *string
}

type DoseHistoryFilter struct {
	From       *time.Time
	To         *time.Time
	MedicineID *uint
	Status     string
	Page       int
	Limit      int
}

type DoseHistoryPage struct {
	Logs        []models.DoseLog `json:"logs"`
	Total       int64            `json:"total"`
	Pages       int              `json:"pages"`
	CurrentPage int              `json:"currentPage"`
}

type DoseLogService struct {
	logs      DoseLogRepository
	medicines MedicineLookup
	clock     Clock
}

func NewDoseLogService(logs DoseLogRepository, medicines MedicineLookup, clock Clock) *DoseLogService {
	return &DoseLogService{logs: logs, medicines: medicines, clock: clock}
}

func (service *DoseLogService) MarkTaken(ctx context.Context, userID uint, input DoseMarkInput) (models.DoseLog, error) {
	now := service.clock.Now()
	return service.recordToday(ctx, userID, input, models.DoseStatusTaken, &now)
}

func (service *DoseLogService) MarkMissed(ctx context.Context, userID uint, input DoseMarkInput) (models.DoseLog, error) {
	status := models.DoseStatusMissed
	if strings.TrimSpace(input.Status) == models.DoseStatusSkipped {
		status = models.DoseStatusSkipped
	}
	return service.recordToday(ctx, userID, input, status, nil)
}

func (service *DoseLogService) recordToday(ctx context.Context, userID uint, input DoseMarkInput, status string, takenAt *time.Time) (models.DoseLog, error) {
	scheduledTime := strings.TrimSpace(input.ScheduledTime)
	if scheduledTime == "" {
		return models.DoseLog{}, ErrScheduledTimeRequired
	}

	_, found, err := service.medicines.FindByUserAndID(ctx, userID, input.MedicineID)
	if err != nil {
		return models.DoseLog{}, fmt.Errorf("load medicine: %w", err)
	}
	if !found {
		return models.DoseLog{}, ErrMedicineNotFound
	}

	entry := models.DoseLog{
		UserID:        userID,
		MedicineID:    input.MedicineID,
		Date:          DateAtLocation(service.clock.Now(), service.clock.Location()),
		ScheduledTime: scheduledTime,
		Status:        status,
		TakenAt:       takenAt,
		Notes:         strings.TrimSpace(input.Notes),
	}
	if err := service.logs.UpsertSlot(ctx, &entry); err != nil {
		return models.DoseLog{}, fmt.Errorf("save dose log: %w", err)
	}
	return entry, nil
}

// UpdateStatus changes status and/or notes of an existing log. Moving to
// taken stamps TakenAt; moving away from taken clears it.
func (service *DoseLogService) UpdateStatus(ctx context.Context, userID uint, logID uint, input DoseUpdateInput) (models.DoseLog, error) {
	entry, found, err := service.logs.FindByUserAndID(ctx, userID, logID)
	if err != nil {
		return models.DoseLog{}, fmt.Errorf("load dose log: %w", err)
	}
	if !found {
		return models.DoseLog{}, ErrDoseLogNotFound
	}

	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if !models.IsKnownDoseStatus(status) {
			return models.DoseLog{}, ErrInvalidDoseStatus
		}
		entry.Status = status
		if status == models.DoseStatusTaken {
			now := service.clock.Now()
			entry.TakenAt = &now
		} else {
			entry.TakenAt = nil
		}
	}
	if input.Notes != nil {
		entry.Notes = strings.TrimSpace(*input.Notes)
	}

	if err := service.logs.UpdateStatus(ctx, &entry); err != nil {
		return models.DoseLog{}, fmt.Errorf("update dose log: %w", err)
	}
	return entry, nil
}

func (service *DoseLogService) DeleteLog(ctx context.Context, userID uint, logID uint) error {
	deleted, err := service.logs.DeleteByUserAndID(ctx, userID, logID)
	if err != nil {
		return fmt.Errorf("delete dose log: %w", err)
	}
	if !deleted {
		return ErrDoseLogNotFound
	}
	return nil
}

func (service *DoseLogService) TodayLogs(ctx context.Context, userID uint) ([]models.DoseLog, error) {
	dayStart, dayEnd := DayRange(service.clock.Now(), service.clock.Location())
	return service.logs.ListDoseLogs(ctx, models.DoseLogQuery{
		UserID:       userID,
		From:         dayStart,
		To:           dayEnd,
		WithMedicine: true,
	})
}

func (service *DoseLogService) LogsForDay(ctx context.Context, userID uint, day time.Time) ([]models.DoseLog, error) {
	dayStart, dayEnd := DayRange(day, service.clock.Location())
	return service.logs.ListDoseLogs(ctx, models.DoseLogQuery{
		UserID:       userID,
		From:         dayStart,
		To:           dayEnd,
		WithMedicine: true,
	})
}

// History pages through logs newest first. Both date bounds are inclusive
// calendar days.
func (service *DoseLogService) History(ctx context.Context, userID uint, filter DoseHistoryFilter) (DoseHistoryPage, error) {
	if filter.Status != "" && !models.IsKnownDoseStatus(filter.Status) {
		return DoseHistoryPage{}, ErrInvalidDoseStatus
	}

	page := max(filter.Page, 1)
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	location := service.clock.Location()
	query := models.DoseLogQuery{
		UserID:       userID,
		MedicineID:   filter.MedicineID,
		NewestFirst:  true,
		WithMedicine: true,
	}
	if filter.From != nil {
		query.From = DateAtLocation(*filter.From, location)
	}
	if filter.To != nil {
		_, query.To = DayRange(*filter.To, location)
	}
	if filter.Status != "" {
		query.Statuses = []string{filter.Status}
	}

	total, err := service.logs.CountDoseLogs(ctx, query)
	if err != nil {
		return DoseHistoryPage{}, fmt.Errorf("count dose logs: %w", err)
	}

	query.Limit = limit
	query.Offset = (page - 1) * limit
	logs, err := service.logs.ListDoseLogs(ctx, query)
	if err != nil {
		return DoseHistoryPage{}, fmt.Errorf("list dose logs: %w", err)
	}

	return DoseHistoryPage{
		Logs:        logs,
		Total:       total,
		Pages:       int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
	}, nil
}
