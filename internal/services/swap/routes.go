package swap

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *SwapService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/swaps", authMiddleware)

	// Маршрут для создания предложения обмена
	api.Post("/", s.CreateSwap)

	// Маршрут для получения списка предложений обмена
	api.Get("/", s.GetMySwaps)

	// Маршрут для смены статуса предложения обмена
	api.Put("/:id/status", s.UpdateSwapStatus)
}
