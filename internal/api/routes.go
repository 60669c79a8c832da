package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Healthz)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Put("/timezone", handler.AuthRequired, handler.UpdateTimezone)
	auth.Put("/change-password", handler.AuthRequired, handler.ChangePassword)

	api.Put("/users/password", handler.AuthRequired, handler.ChangePassword)

	analytics := api.Group("/analytics", handler.AuthRequired, handler.AnalyticsRateLimited)
	analytics.Get("/weekly", handler.WeeklyAnalytics)
	analytics.Get("/adherence", handler.AdherenceAnalytics)
	analytics.Get("/medicines", handler.MedicineAnalytics)
	analytics.Get("/dashboard", handler.DashboardAnalytics)
	analytics.Get("/vitals", handler.VitalsAnalytics)
	analytics.Get("/wellness", handler.WellnessAnalytics)

	logs := api.Group("/log", handler.AuthRequired)
	logs.Post("/take", handler.TakeDose)
	logs.Post("/miss", handler.MissDose)
	logs.Get("/today", handler.TodayDoses)
	logs.Get("/history", handler.DoseHistory)
	logs.Get("/date/:date", handler.DosesForDay)
	logs.Put("/:id", handler.UpdateDose)
	logs.Delete("/:id", handler.DeleteDose)

	healthLogs := api.Group("/health-logs", handler.AuthRequired)
	healthLogs.Post("/", handler.SaveHealthLog)
	healthLogs.Get("/today", handler.TodayHealthLog)
	healthLogs.Get("/", handler.ListHealthLogs)
	healthLogs.Get("/:id", handler.GetHealthLog)
	healthLogs.Put("/:id", handler.UpdateHealthLog)
	healthLogs.Delete("/:id", handler.DeleteHealthLog)

	medicines := api.Group("/medicines", handler.AuthRequired)
	medicines.Post("/", handler.CreateMedicine)
	medicines.Get("/", handler.ListMedicines)
	medicines.Get("/today", handler.TodayMedicines)
	medicines.Get("/:id", handler.GetMedicine)
	medicines.Put("/:id", handler.UpdateMedicine)
	medicines.Patch("/:id/toggle", handler.ToggleMedicine)
	medicines.Delete("/:id", handler.DeleteMedicine)

	api.Use(func(c *fiber.Ctx) error {
		return apiError(c, fiber.StatusNotFound, "route not found")
	})
}
