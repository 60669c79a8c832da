package api

import (
	"context"
	"errors"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type doseMarkRequest struct {
	MedicineID    uint   `json:"medicineId"`
	ScheduledTime string `json:"scheduledTime"`
	Notes         string `json:"notes"`
	Status        string `json:"status"`
}

type doseDayResponse struct {
	Date string           `json:"date"`
	Logs []models.DoseLog `json:"logs"`
}

type doseUpdateRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// writeError maps service sentinels to client errors and logs anything else
// as a 500.
func (handler *Handler) writeError(c *fiber.Ctx, err error, action string) error {
	var validationErr *services.HealthLogValidationError
	switch {
	case errors.Is(err, services.ErrMedicineNotFound):
		return apiError(c, fiber.StatusNotFound, "medicine not found")
	case errors.Is(err, services.ErrDoseLogNotFound):
		return apiError(c, fiber.StatusNotFound, "log not found")
	case errors.Is(err, services.ErrHealthLogNotFound):
		return apiError(c, fiber.StatusNotFound, "health log not found")
	case errors.Is(err, services.ErrInvalidDoseStatus):
		return apiError(c, fiber.StatusBadRequest, "invalid status")
	case errors.Is(err, services.ErrScheduledTimeRequired):
		return apiError(c, fiber.StatusBadRequest, "scheduled time is required")
	case errors.As(err, &validationErr):
		return apiError(c, fiber.StatusBadRequest, validationErr.Error())
	case errors.Is(err, services.ErrMedicineInvalid):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	handler.logger.Error(action+" failed", zap.Error(err))
	return apiError(c, fiber.StatusInternalServerError, "failed to "+action)
}

func (handler *Handler) TakeDose(c *fiber.Ctx) error {
	return handler.markDose(c, "dose marked as taken", func(ctx context.Context, scope userScope, userID uint, input services.DoseMarkInput) (models.DoseLog, error) {
		return scope.doses.MarkTaken(ctx, userID, input)
	})
}

func (handler *Handler) MissDose(c *fiber.Ctx) error {
	return handler.markDose(c, "dose marked as missed", func(ctx context.Context, scope userScope, userID uint, input services.DoseMarkInput) (models.DoseLog, error) {
		return scope.doses.MarkMissed(ctx, userID, input)
	})
}

func (handler *Handler) markDose(c *fiber.Ctx, message string, record func(context.Context, userScope, uint, services.DoseMarkInput) (models.DoseLog, error)) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}

	var request doseMarkRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if request.MedicineID == 0 {
		return apiError(c, fiber.StatusBadRequest, "medicine id is required")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	entry, err := record(ctx, handler.scopeFor(user), user.ID, services.DoseMarkInput{
		MedicineID:    request.MedicineID,
		ScheduledTime: request.ScheduledTime,
		Notes:         request.Notes,
		Status:        request.Status,
	})
	if err != nil {
		return handler.writeError(c, err, "record dose")
	}
	handler.cache.Invalidate(ctx, user.ID)
	return apiMessage(c, fiber.StatusOK, message, entry)
}

func (handler *Handler) TodayDoses(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	logs, err := handler.scopeFor(user).doses.TodayLogs(ctx, user.ID)
	if err != nil {
		return handler.writeError(c, err, "load today's doses")
	}
	return apiSuccess(c, fiber.StatusOK, logs)
}

func (handler *Handler) DosesForDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	scope := handler.scopeFor(user)

	day, valid := parseDayValue(c.Params("date"), scope.location)
	if !valid || day == nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	logs, err := scope.doses.LogsForDay(ctx, user.ID, *day)
	if err != nil {
		return handler.writeError(c, err, "load doses")
	}
	return apiSuccess(c, fiber.StatusOK, doseDayResponse{Date: day.Format(services.DayLayout), Logs: logs})
}

func (handler *Handler) DoseHistory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	scope := handler.scopeFor(user)

	from, validFrom := parseDayQuery(c, scope.location, "from", "startDate")
	to, validTo := parseDayQuery(c, scope.location, "to", "endDate")
	if !validFrom || !validTo {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	medicineID, valid := parseOptionalIDQuery(c, "medicineId")
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid medicine id")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	page, err := scope.doses.History(ctx, user.ID, services.DoseHistoryFilter{
		From:       from,
		To:         to,
		MedicineID: medicineID,
		Status:     c.Query("status"),
		Page:       parsePositiveIntQuery(c, "page"),
		Limit:      parsePositiveIntQuery(c, "limit"),
	})
	if err != nil {
		return handler.writeError(c, err, "load dose history")
	}
	return apiSuccess(c, fiber.StatusOK, page)
}

func (handler *Handler) UpdateDose(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	logID, valid := parseIDParam(c, "id")
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid log id")
	}

	var request doseUpdateRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	entry, err := handler.scopeFor(user).doses.UpdateStatus(ctx, user.ID, logID, services.DoseUpdateInput{
		Status: request.Status,
		Notes:  request.Notes,
	})
	if err != nil {
		return handler.writeError(c, err, "update dose")
	}
	handler.cache.Invalidate(ctx, user.ID)
	return apiMessage(c, fiber.StatusOK, "log updated", entry)
}

func (handler *Handler) DeleteDose(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	logID, valid := parseIDParam(c, "id")
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid log id")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	if err := handler.scopeFor(user).doses.DeleteLog(ctx, user.ID, logID); err != nil {
		return handler.writeError(c, err, "delete dose")
	}
	handler.cache.Invalidate(ctx, user.ID)
	return apiMessage(c, fiber.StatusOK, "log deleted", nil)
}
