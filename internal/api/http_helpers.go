package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"github.com/gofiber/fiber/v2"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

func apiSuccess(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func apiMessage(c *fiber.Ctx, status int, message string, data any) error {
	payload := fiber.Map{"success": true, "message": message}
	if data != nil {
		payload["data"] = data
	}
	return c.Status(status).JSON(payload)
}

// parseDaysQuery never rejects: a missing, non-numeric or negative value
// yields fallback and anything above maxDays is clamped. Zero is a window of
// today only.
func parseDaysQuery(c *fiber.Ctx, fallback int, maxDays int) int {
	days, err := strconv.Atoi(strings.TrimSpace(c.Query("days")))
	if err != nil || days < 0 {
		days = fallback
	}
	if maxDays > 0 && days > maxDays {
		days = maxDays
	}
	return days
}

func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

func parseOptionalIDQuery(c *fiber.Ctx, name string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return nil, false
	}
	id := uint(value)
	return &id, true
}

func parsePositiveIntQuery(c *fiber.Ctx, name string) int {
	value, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// parseDayValue accepts YYYY-MM-DD or RFC 3339 and returns the calendar day
// in location.
func parseDayValue(raw string, location *time.Location) (*time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, true
	}
	if day, err := time.ParseInLocation(services.DayLayout, value, location); err == nil {
		return &day, true
	}
	if instant, err := time.Parse(time.RFC3339, value); err == nil {
		day := services.DateAtLocation(instant, location)
		return &day, true
	}
	return nil, false
}

func parseDayQuery(c *fiber.Ctx, location *time.Location, names ...string) (*time.Time, bool) {
	for _, name := range names {
		if raw := c.Query(name); strings.TrimSpace(raw) != "" {
			return parseDayValue(raw, location)
		}
	}
	return nil, true
}
