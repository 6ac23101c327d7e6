package profile

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API профилей
func (s *ProfileService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	// Собственный профиль
	api := app.Group("/api/profile", authMiddleware)

	api.Get("/", s.GetMyProfile)
	api.Put("/", s.UpdateMyProfile)
	api.Post("/avatar", s.SaveAvatar)

	// Просмотр чужого профиля
	users := app.Group("/api/users", authMiddleware)
	users.Get("/:id", s.GetUserProfile)
}
