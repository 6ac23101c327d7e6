package admin

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты административной панели
func (s *AdminService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/admin", authMiddleware, middleware.AdminMiddleware())

	api.Get("/stats", s.GetStats)
	api.Get("/activity", s.GetRecentActivity)
	api.Get("/export/:table", s.ExportTable)
}
