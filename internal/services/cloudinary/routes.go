package cloudinary

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для загрузки изображений
func (s *CloudinaryService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api")

	// Защищенные маршруты
	protected := api.Group("/", authMiddleware)

	// Маршрут для получения параметров загрузки аватара
	protected.Get("/upload/params", s.GenerateUploadParams)
}
