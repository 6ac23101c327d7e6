package skill

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API навыков
func (s *SkillService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/skills", authMiddleware)

	// Каталог навыков
	api.Get("/", s.GetCatalog)
	api.Get("/categories", s.GetCategories)

	// Навыки текущего пользователя
	api.Get("/my", s.GetMySkills)
	api.Post("/offered", s.AddOfferedSkill)
	api.Delete("/offered/:id", s.RemoveOfferedSkill)
	api.Post("/wanted", s.AddWantedSkill)
	api.Delete("/wanted/:id", s.RemoveWantedSkill)

	// Поиск по предложениям других участников
	browse := app.Group("/api/browse", authMiddleware)
	browse.Get("/", s.Browse)
}
