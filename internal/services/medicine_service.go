package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
)

var ErrMedicineInvalid = errors.New("invalid medicine")

const (
	maxMedicineNameLength = 100
	maxInstructionsLength = 500
)

var (
	validFrequencies = []string{
		models.FrequencyOnceDaily, models.FrequencyTwiceDaily, models.FrequencyThriceDaily,
		models.FrequencyWeekly, models.FrequencyAsNeeded, models.FrequencyCustom,
	}
	validCategories = []string{
		models.CategoryTablet, models.CategoryCapsule, models.CategorySyrup, models.CategoryInjection,
		models.CategoryDrops, models.CategoryCream, models.CategoryInhaler, models.CategoryOther,
	}
)

type MedicineRepository interface {
	MedicineLookup
	ActiveMedicineReader
	ListByUser(ctx context.Context, userID uint, includeInactive bool) ([]models.Medicine, error)
	Create(ctx context.Context, medicine *models.Medicine) error
	Update(ctx context.Context, medicine *models.Medicine) error
	SetActive(ctx context.Context, userID uint, medicineID uint, active bool) (bool, error)
}

type MedicineInput struct {
	Name             string
	Dosage           string
	Frequency        string
	Timings          []string
	StartDate        *time.Time
	EndDate          *time.Time
	Instructions     string
	PrescribedBy     string
	Category         string
	Color            string
	RemindersEnabled *bool
}

// MedicinePatch carries the fields of an update. Nil fields keep the stored
// value; ClearEndDate removes the end date.
type MedicinePatch struct {
	Name             *string
	Dosage           *string
	Frequency        *string
	Timings          []string
	StartDate        *time.Time
	EndDate          *time.Time
	ClearEndDate     bool
	Instructions     *string
	PrescribedBy     *string
	Category         *string
	Color            *string
	IsActive         *bool
	RemindersEnabled *bool
}

// MedicineToday is an active medicine with the doses logged for it today.
type MedicineToday struct {
	models.Medicine
	TodayLogs []models.DoseLog `json:"todayLogs"`
}

type MedicineService struct {
	medicines MedicineRepository
	doses     DoseLogReader
	clock     Clock
}

func NewMedicineService(medicines MedicineRepository, doses DoseLogReader, clock Clock) *MedicineService {
	return &MedicineService{medicines: medicines, doses: doses, clock: clock}
}

func invalidMedicine(reason string) error {
	return fmt.Errorf("%w: %s", ErrMedicineInvalid, reason)
}

// normalizeMedicine trims text fields, fills defaults and validates the
// result.
func normalizeMedicine(medicine *models.Medicine) error {
	medicine.Name = strings.TrimSpace(medicine.Name)
	if medicine.Name == "" {
		return invalidMedicine("medicine name is required")
	}
	if utf8.RuneCountInString(medicine.Name) > maxMedicineNameLength {
		return invalidMedicine("medicine name is too long")
	}
	medicine.Dosage = strings.TrimSpace(medicine.Dosage)
	if medicine.Dosage == "" {
		return invalidMedicine("dosage is required")
	}

	medicine.Frequency = cmp.Or(strings.TrimSpace(medicine.Frequency), models.FrequencyOnceDaily)
	if !slices.Contains(validFrequencies, medicine.Frequency) {
		return invalidMedicine("unknown frequency")
	}
	medicine.Category = cmp.Or(strings.TrimSpace(medicine.Category), models.CategoryTablet)
	if !slices.Contains(validCategories, medicine.Category) {
		return invalidMedicine("unknown category")
	}

	medicine.Timings = uniqueTrimmed(medicine.Timings)
	if len(medicine.Timings) == 0 {
		return invalidMedicine("at least one timing is required")
	}

	medicine.Instructions = strings.TrimSpace(medicine.Instructions)
	if utf8.RuneCountInString(medicine.Instructions) > maxInstructionsLength {
		return invalidMedicine("instructions are too long")
	}
	medicine.PrescribedBy = strings.TrimSpace(medicine.PrescribedBy)
	medicine.Color = cmp.Or(strings.TrimSpace(medicine.Color), models.DefaultMedicineColor)

	if medicine.EndDate != nil && models.CalendarDate(*medicine.EndDate).Before(models.CalendarDate(medicine.StartDate)) {
		return invalidMedicine("end date is before start date")
	}
	return nil
}

func (service *MedicineService) Create(ctx context.Context, userID uint, input MedicineInput) (models.Medicine, error) {
	location := service.clock.Location()
	medicine := models.Medicine{
		UserID:           userID,
		Name:             input.Name,
		Dosage:           input.Dosage,
		Frequency:        input.Frequency,
		Timings:          input.Timings,
		StartDate:        DateAtLocation(service.clock.Now(), location),
		Instructions:     input.Instructions,
		PrescribedBy:     input.PrescribedBy,
		Category:         input.Category,
		Color:            input.Color,
		IsActive:         true,
		RemindersEnabled: true,
	}
	if input.StartDate != nil {
		medicine.StartDate = DateAtLocation(*input.StartDate, location)
	}
	if input.EndDate != nil {
		end := DateAtLocation(*input.EndDate, location)
		medicine.EndDate = &end
	}
	if input.RemindersEnabled != nil {
		medicine.RemindersEnabled = *input.RemindersEnabled
	}

	if err := normalizeMedicine(&medicine); err != nil {
		return models.Medicine{}, err
	}
	if err := service.medicines.Create(ctx, &medicine); err != nil {
		return models.Medicine{}, fmt.Errorf("create medicine: %w", err)
	}
	return medicine, nil
}

// Update applies patch to a medicine of userID and validates the result the
// way Create does.
func (service *MedicineService) Update(ctx context.Context, userID uint, medicineID uint, patch MedicinePatch) (models.Medicine, error) {
	medicine, err := service.Get(ctx, userID, medicineID)
	if err != nil {
		return models.Medicine{}, err
	}

	location := service.clock.Location()
	override(&medicine.Name, patch.Name)
	override(&medicine.Dosage, patch.Dosage)
	override(&medicine.Frequency, patch.Frequency)
	override(&medicine.Instructions, patch.Instructions)
	override(&medicine.PrescribedBy, patch.PrescribedBy)
	override(&medicine.Category, patch.Category)
	override(&medicine.Color, patch.Color)
	override(&medicine.IsActive, patch.IsActive)
	override(&medicine.RemindersEnabled, patch.RemindersEnabled)
	if patch.Timings != nil {
		medicine.Timings = patch.Timings
	}
	if patch.StartDate != nil {
		medicine.StartDate = DateAtLocation(*patch.StartDate, location)
	}
	switch {
	case patch.ClearEndDate:
		medicine.EndDate = nil
	case patch.EndDate != nil:
		end := DateAtLocation(*patch.EndDate, location)
		medicine.EndDate = &end
	}

	if err := normalizeMedicine(&medicine); err != nil {
		return models.Medicine{}, err
	}
	if err := service.medicines.Update(ctx, &medicine); err != nil {
		return models.Medicine{}, fmt.Errorf("update medicine: %w", err)
	}
	return medicine, nil
}

func override[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

// Today lists the medicines active today, each with today's dose logs.
func (service *MedicineService) Today(ctx context.Context, userID uint) ([]MedicineToday, error) {
	now := service.clock.Now()
	dayStart, dayEnd := DayRange(now, service.clock.Location())

	medicines, err := service.medicines.ListActiveMedicines(ctx, userID, now, dayStart)
	if err != nil {
		return nil, fmt.Errorf("load active medicines: %w", err)
	}
	logs, err := service.doses.ListDoseLogs(ctx, models.DoseLogQuery{UserID: userID, From: dayStart, To: dayEnd})
	if err != nil {
		return nil, fmt.Errorf("load today's doses: %w", err)
	}

	byMedicine := make(map[uint][]models.DoseLog, len(medicines))
	for _, entry := range logs {
		byMedicine[entry.MedicineID] = append(byMedicine[entry.MedicineID], entry)
	}

	schedule := make([]MedicineToday, 0, len(medicines))
	for _, medicine := range medicines {
		todayLogs := byMedicine[medicine.ID]
		if todayLogs == nil {
			todayLogs = []models.DoseLog{}
		}
		schedule = append(schedule, MedicineToday{Medicine: medicine, TodayLogs: todayLogs})
	}
	return schedule, nil
}

func (service *MedicineService) List(ctx context.Context, userID uint, includeInactive bool) ([]models.Medicine, error) {
	return service.medicines.ListByUser(ctx, userID, includeInactive)
}

func (service *MedicineService) Get(ctx context.Context, userID uint, medicineID uint) (models.Medicine, error) {
	medicine, found, err := service.medicines.FindByUserAndID(ctx, userID, medicineID)
	if err != nil {
		return models.Medicine{}, fmt.Errorf("load medicine: %w", err)
	}
	if !found {
		return models.Medicine{}, ErrMedicineNotFound
	}
	return medicine, nil
}

func (service *MedicineService) Deactivate(ctx context.Context, userID uint, medicineID uint) error {
	return service.setActive(ctx, userID, medicineID, false)
}

// Toggle flips the active flag and returns the updated medicine.
func (service *MedicineService) Toggle(ctx context.Context, userID uint, medicineID uint) (models.Medicine, error) {
	medicine, err := service.Get(ctx, userID, medicineID)
	if err != nil {
		return models.Medicine{}, err
	}
	if err := service.setActive(ctx, userID, medicineID, !medicine.IsActive); err != nil {
		return models.Medicine{}, err
	}
	medicine.IsActive = !medicine.IsActive
	return medicine, nil
}

func (service *MedicineService) setActive(ctx context.Context, userID uint, medicineID uint, active bool) error {
	updated, err := service.medicines.SetActive(ctx, userID, medicineID, active)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	if !updated {
		return ErrMedicineNotFound
	}
	return nil
}
