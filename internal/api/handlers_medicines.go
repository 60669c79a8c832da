package api

import (
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"github.com/gofiber/fiber/v2"
)

type medicineRequest struct {
	Name             string   `json:"medicineName"`
	Dosage           string   `json:"dosage"`
	Frequency        string   `json:"frequency"`
	Timings          []string `json:"timings"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Instructions     string   `json:"instructions"`
	PrescribedBy     string   `json:"prescribedBy"`
	Category         string   `json:"category"`
	Color            string   `json:"color"`
	RemindersEnabled *bool    `json:"remindersEnabled"`
}

// medicineUpdateRequest leaves absent fields untouched. An empty endDate
// removes the end date.
type medicineUpdateRequest struct {
	Name             *string  `json:"medicineName"`
	Dosage           *string  `json:"dosage"`
	Frequency        *string  `json:"frequency"`
	Timings          []string `json:"timings"`
	StartDate        *string  `json:"startDate"`
	EndDate          *string  `json:"endDate"`
	Instructions     *string  `json:"instructions"`
	PrescribedBy     *string  `json:"prescribedBy"`
	Category         *string  `json:"category"`
	Color            *string  `json:"color"`
	IsActive         *bool    `json:"isActive"`
	RemindersEnabled *bool    `json:"remindersEnabled"`
}

func (request medicineUpdateRequest) patch(location *time.Location) (services.MedicinePatch, bool) {
	patch := services.MedicinePatch{
		Name:             request.Name,
		Dosage:           request.Dosage,
		Frequency:        request.Frequency,
		Timings:          request.Timings,
		Instructions:     request.Instructions,
		PrescribedBy:     request.PrescribedBy,
		Category:         request.Category,
		Color:            request.Color,
		IsActive:         request.IsActive,
		RemindersEnabled: request.RemindersEnabled,
	}
	if request.StartDate != nil {
		start, valid := parseDayValue(*request.StartDate, location)
		if !valid || start == nil {
			return services.MedicinePatch{}, false
		}
		patch.StartDate = start
	}
	if request.EndDate != nil {
		end, valid := parseDayValue(*request.EndDate, location)
		if !valid {
			return services.MedicinePatch{}, false
		}
		patch.EndDate = end
		patch.ClearEndDate = end == nil
	}
	return patch, true
}

func (handler *Handler) CreateMedicine(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}

	var request medicineRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	scope := handler.scopeFor(user)
	startDate, validStart := parseDayValue(request.StartDate, scope.location)
	endDate, validEnd := parseDayValue(request.EndDate, scope.location)
	if !validStart || !validEnd {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	medicine, err := scope.medicines.Create(ctx, user.ID, services.MedicineInput{
		Name:             request.Name,
		Dosage:           request.Dosage,
		Frequency:        request.Frequency,
		Timings:          request.Timings,
		StartDate:        startDate,
		EndDate:          endDate,
		Instructions:     request.Instructions,
		PrescribedBy:     request.PrescribedBy,
		Category:         request.Category,
		Color:            request.Color,
		RemindersEnabled: request.RemindersEnabled,
	})
	if err != nil {
		return handler.writeError(c, err, "create medicine")
	}
	handler.cache.Invalidate(ctx, user.ID)
	return apiMessage(c, fiber.StatusCreated, "medicine added", medicine)
}

func (handler *Handler) ListMedicines(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	medicines, err := handler.scopeFor(user).medicines.List(ctx, user.ID, c.QueryBool("includeInactive", false))
	if err != nil {
		return handler.writeError(c, err, "load medicines")
	}
	return apiSuccess(c, fiber.StatusOK, medicines)
}

func (handler *Handler) TodayMedicines(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	schedule, err := handler.scopeFor(user).medicines.Today(ctx, user.ID)
	if err != nil {
		return handler.writeError(c, err, "load today's medicines")
	}
	return apiSuccess(c, fiber.StatusOK, schedule)
}

func (handler *Handler) GetMedicine(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	medicineID, valid := parseIDParam(c, "id")
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid medicine id")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	medicine, err := handler.scopeFor(user).medicines.Get(ctx, user.ID, medicineID)
	if err != nil {
		return handler.writeError(c, err, "load medicine")
	}
	return apiSuccess(c, fiber.StatusOK, medicine)
}

func (handler *Handler) UpdateMedicine(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	medicineID, valid := parseIDParam(c, "id")
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid medicine id")
	}

	var request medicineUpdateRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	scope := handler.scopeFor(user)
	patch, valid := request.patch(scope.location)
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	medicine, err := scope.medicines.Update(ctx, user.ID, medicineID, patch)
	if err != nil {
		return handler.writeError(c, err, "update medicine")
	}
	handler.cache.Invalidate(ctx, user.ID)
	return apiMessage(c, fiber.StatusOK, "medicine updated", medicine)
}

// DeleteMedicine deactivates the medicine; its dose history is kept.
func (handler *Handler) DeleteMedicine(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	medicineID, valid := parseIDParam(c, "id")
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid medicine id")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	if err := handler.scopeFor(user).medicines.Deactivate(ctx, user.ID, medicineID); err != nil {
		return handler.writeError(c, err, "delete medicine")
	}
	handler.cache.Invalidate(ctx, user.ID)
	return apiMessage(c, fiber.StatusOK, "medicine deleted", nil)
}

func (handler *Handler) ToggleMedicine(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	medicineID, valid := parseIDParam(c, "id")
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid medicine id")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	medicine, err := handler.scopeFor(user).medicines.Toggle(ctx, user.ID, medicineID)
	if err != nil {
		return handler.writeError(c, err, "toggle medicine")
	}
	handler.cache.Invalidate(ctx, user.ID)
	return apiSuccess(c, fiber.StatusOK, medicine)
}
