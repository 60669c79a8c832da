package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (handler *Handler) Healthz(c *fiber.Ctx) error {
	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	sqlDB, err := handler.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		handler.logger.Error("database health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}

	cacheStatus := "disabled"
	if handler.cache.Enabled() {
		cacheStatus = "ok"
		if err := handler.cache.Ping(ctx); err != nil {
			cacheStatus = "degraded"
		}
	}
	return c.JSON(fiber.Map{"status": "ok", "cache": cacheStatus})
}
