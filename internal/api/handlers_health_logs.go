package api

import (
	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"github.com/gofiber/fiber/v2"
)

type healthLogRequest struct {
	BloodPressure   *models.BloodPressure `json:"bloodPressure"`
	HeartRate       *int                  `json:"heartRate"`
	BodyTemp        *float64              `json:"bodyTemp"`
	OxygenLevel     *int                  `json:"oxygenLevel"`
	Weight          *float64              `json:"weight"`
	BloodSugar      *models.BloodSugar    `json:"bloodSugar"`
	WaterIntake     *float64              `json:"waterIntake"`
	SleepHours      *float64              `json:"sleepHours"`
	SleepQuality    *string               `json:"sleepQuality"`
	StepsCount      *int                  `json:"stepsCount"`
	ExerciseMinutes *int                  `json:"exerciseMinutes"`
	Mood            *string               `json:"mood"`
	StressLevel     *int                  `json:"stressLevel"`
	EnergyLevel     *int                  `json:"energyLevel"`
	Symptoms        []string              `json:"symptoms"`
	Notes           *string               `json:"notes"`
}

func (request healthLogRequest) input() services.HealthLogInput {
	input := services.HealthLogInput{
		HeartRate:       request.HeartRate,
		BodyTemp:        request.BodyTemp,
		OxygenLevel:     request.OxygenLevel,
		Weight:          request.Weight,
		WaterIntake:     request.WaterIntake,
		SleepHours:      request.SleepHours,
		SleepQuality:    request.SleepQuality,
		StepsCount:      request.StepsCount,
		ExerciseMinutes: request.ExerciseMinutes,
		Mood:            request.Mood,
		StressLevel:     request.StressLevel,
		EnergyLevel:     request.EnergyLevel,
		Symptoms:        request.Symptoms,
		Notes:           request.Notes,
	}
	if request.BloodPressure != nil {
		input.Systolic = request.BloodPressure.Systolic
		input.Diastolic = request.BloodPressure.Diastolic
	}
	if request.BloodSugar != nil {
		input.BloodSugarFasting = request.BloodSugar.Fasting
		input.BloodSugarPostMeal = request.BloodSugar.PostMeal
	}
	return input
}

func (handler *Handler) SaveHealthLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}

	var request healthLogRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	view, err := handler.scopeFor(user).health.SaveToday(ctx, user.ID, request.input())
	if err != nil {
		return handler.writeError(c, err, "save health log")
	}
	handler.cache.Invalidate(ctx, user.ID)
	return apiMessage(c, fiber.StatusOK, "health log saved", view)
}

func (handler *Handler) TodayHealthLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	view, err := handler.scopeFor(user).health.Today(ctx, user.ID)
	if err != nil {
		return handler.writeError(c, err, "load health log")
	}
	return apiSuccess(c, fiber.StatusOK, view)
}

func (handler *Handler) ListHealthLogs(c *fiber.Ctx) error {
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
	limit := min(parsePositiveIntQuery(c, "limit"), handler.limits.MaxWindowDays)

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	views, err := scope.health.Range(ctx, user.ID, from, to, limit)
	if err != nil {
		return handler.writeError(c, err, "load health logs")
	}
	return apiSuccess(c, fiber.StatusOK, views)
}

func (handler *Handler) GetHealthLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	logID, valid := parseIDParam(c, "id")
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid health log id")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	view, err := handler.scopeFor(user).health.Get(ctx, user.ID, logID)
	if err != nil {
		return handler.writeError(c, err, "load health log")
	}
	return apiSuccess(c, fiber.StatusOK, view)
}

// UpdateHealthLog merges the body into the log with the given id. Its date
// is kept.
func (handler *Handler) UpdateHealthLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	logID, valid := parseIDParam(c, "id")
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid health log id")
	}

	var request healthLogRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	view, err := handler.scopeFor(user).health.Update(ctx, user.ID, logID, request.input())
	if err != nil {
		return handler.writeError(c, err, "update health log")
	}
	handler.cache.Invalidate(ctx, user.ID)
	return apiMessage(c, fiber.StatusOK, "health log updated", view)
}

func (handler *Handler) DeleteHealthLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	logID, valid := parseIDParam(c, "id")
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid health log id")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	if err := handler.scopeFor(user).health.Delete(ctx, user.ID, logID); err != nil {
		return handler.writeError(c, err, "delete health log")
	}
	handler.cache.Invalidate(ctx, user.ID)
	return apiMessage(c, fiber.StatusOK, "health log deleted", nil)
}
