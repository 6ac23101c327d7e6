package rating

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API оценок
func (s *RatingService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/ratings", authMiddleware)

	// Маршрут для отправки оценки
	api.Post("/", s.SubmitRating)

	// Маршрут для списка обменов, ожидающих оценки
	api.Get("/pending", s.GetPendingRatings)

	// Маршрут для оценок, полученных пользователем
	api.Get("/user/:id", s.GetUserRatings)
}
