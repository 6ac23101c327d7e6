package skill

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// Допустимые уровни владения навыком
var validProficiencyLevels = map[string]bool{
	"beginner": true, "intermediate": true, "advanced": true, "expert": true,
}

// Допустимые уровни срочности
var validUrgencyLevels = map[string]bool{
	"low": true, "medium": true, "high": true,
}

// SkillService представляет сервис для работы с каталогом и навыками пользователей
type SkillService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewSkillService создает новый экземпляр SkillService
func NewSkillService(cfg *config.Config) *SkillService {
	return &SkillService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetCatalog возвращает каталог навыков
func (s *SkillService) GetCatalog(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, category, COALESCE(description, ''), created_at
		FROM skills
		ORDER BY category, name
	`)
	if err != nil {
		log.Printf("Ошибка запроса каталога навыков: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения каталога"})
	}
	defer rows.Close()

	skills := []models.Skill{}
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.Category, &skill.Description, &skill.CreatedAt); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		skills = append(skills, skill)
	}

	return c.JSON(fiber.Map{
		"skills": skills,
		"count":  len(skills),
	})
}

// GetCategories возвращает отсортированный список категорий без повторов
func (s *SkillService) GetCategories(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT category FROM skills ORDER BY category
	`)
	if err != nil {
		log.Printf("Ошибка запроса категорий: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения категорий"})
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		categories = append(categories, category)
	}

	return c.JSON(fiber.Map{"categories": categories})
}

// GetMySkills возвращает предлагаемые и желаемые навыки текущего пользователя
func (s *SkillService) GetMySkills(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	offered := []models.SkillOffer{}
	rows, err := db.Pool.Query(ctx, `
		SELECT o.id, o.user_id, o.skill_id, o.proficiency_level, COALESCE(o.description, ''), o.created_at,
			   s.id, s.name, s.category
		FROM user_skills_offered o
		JOIN skills s ON s.id = o.skill_id
		WHERE o.user_id = $1
		ORDER BY s.name
	`, userUUID)
	if err != nil {
		log.Printf("Ошибка запроса предлагаемых навыков: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения навыков"})
	}
	defer rows.Close()

	for rows.Next() {
		var offer models.SkillOffer
		var skill models.Skill
		if err := rows.Scan(
			&offer.ID, &offer.UserID, &offer.SkillID, &offer.ProficiencyLevel,
			&offer.Description, &offer.CreatedAt,
			&skill.ID, &skill.Name, &skill.Category,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		offer.Skill = &skill
		offered = append(offered, offer)
	}
	rows.Close()

	wanted := []models.SkillWant{}
	rows, err = db.Pool.Query(ctx, `
		SELECT w.id, w.user_id, w.skill_id, w.urgency, COALESCE(w.description, ''), w.created_at,
			   s.id, s.name, s.category
		FROM user_skills_wanted w
		JOIN skills s ON s.id = w.skill_id
		WHERE w.user_id = $1
		ORDER BY s.name
	`, userUUID)
	if err != nil {
		log.Printf("Ошибка запроса желаемых навыков: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения навыков"})
	}
	defer rows.Close()

	for rows.Next() {
		var want models.SkillWant
		var skill models.Skill
		if err := rows.Scan(
			&want.ID, &want.UserID, &want.SkillID, &want.Urgency,
			&want.Description, &want.CreatedAt,
			&skill.ID, &skill.Name, &skill.Category,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		want.Skill = &skill
		wanted = append(wanted, want)
	}

	return c.JSON(fiber.Map{
		"offered": offered,
		"wanted":  wanted,
	})
}

// AddOfferedSkill добавляет навык, которому пользователь готов обучать
func (s *SkillService) AddOfferedSkill(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var requestData struct {
		SkillID          string `json:"skill_id"`
		ProficiencyLevel string `json:"proficiency_level"`
		Description      string `json:"description"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	skillUUID, err := uuid.Parse(requestData.SkillID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID навыка"})
	}

	// Проверка валидности уровня владения
	if !validProficiencyLevels[requestData.ProficiencyLevel] {
		requestData.ProficiencyLevel = "beginner" // По умолчанию - начинающий
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	offerID := uuid.New()

	// Уникальность пары (пользователь, навык) обеспечивает база данных
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO user_skills_offered (id, user_id, skill_id, proficiency_level, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, skill_id) DO NOTHING
	`, offerID, userUUID, skillUUID, requestData.ProficiencyLevel, requestData.Description)

	if err != nil {
		log.Printf("Ошибка добавления навыка: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения навыка"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Этот навык уже добавлен"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      offerID,
	})
}

// RemoveOfferedSkill удаляет предлагаемый навык пользователя
func (s *SkillService) RemoveOfferedSkill(c fiber.Ctx) error {
	return s.removeUserSkill(c, "user_skills_offered")
}

// AddWantedSkill добавляет навык, который пользователь хочет освоить
func (s *SkillService) AddWantedSkill(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var requestData struct {
		SkillID     string `json:"skill_id"`
		Urgency     string `json:"urgency"`
		Description string `json:"description"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	skillUUID, err := uuid.Parse(requestData.SkillID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID навыка"})
	}

	// Проверка валидности срочности
	if !validUrgencyLevels[requestData.Urgency] {
		requestData.Urgency = "medium" // По умолчанию - средняя
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	wantID := uuid.New()

	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO user_skills_wanted (id, user_id, skill_id, urgency, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, skill_id) DO NOTHING
	`, wantID, userUUID, skillUUID, requestData.Urgency, requestData.Description)

	if err != nil {
		log.Printf("Ошибка добавления навыка: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения навыка"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Этот навык уже добавлен"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      wantID,
	})
}

// RemoveWantedSkill удаляет желаемый навык пользователя
func (s *SkillService) RemoveWantedSkill(c fiber.Ctx) error {
	return s.removeUserSkill(c, "user_skills_wanted")
}

// removeUserSkill удаляет запись навыка, принадлежащую текущему пользователю
func (s *SkillService) removeUserSkill(c fiber.Ctx, table string) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	recordUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID записи"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Удалить можно только собственную запись
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM `+table+` WHERE id = $1 AND user_id = $2`,
		recordUUID, userUUID)

	if err != nil {
		log.Printf("Ошибка удаления навыка: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления навыка"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Навык не найден"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Browse возвращает предлагаемые навыки других пользователей с открытыми
// профилями, с поиском и фильтром по категории
func (s *SkillService) Browse(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	search := c.Query("search", "")
	category := c.Query("category", "")

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT o.id, o.user_id, o.skill_id, o.proficiency_level, COALESCE(o.description, ''), o.created_at,
			   s.id, s.name, s.category,
			   p.id, COALESCE(p.full_name, ''), COALESCE(p.avatar_url, ''), COALESCE(p.location, '')
		FROM user_skills_offered o
		JOIN skills s ON s.id = o.skill_id
		JOIN profiles p ON p.id = o.user_id
		WHERE p.is_public = true
		  AND o.user_id <> $1
		  AND ($2 = '' OR s.category = $2)
		  AND ($3 = '' OR s.name ILIKE '%' || $3 || '%'
			   OR p.full_name ILIKE '%' || $3 || '%'
			   OR p.location ILIKE '%' || $3 || '%')
		ORDER BY o.created_at DESC
	`, userUUID, category, search)

	if err != nil {
		log.Printf("Ошибка запроса навыков для поиска: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка поиска навыков"})
	}
	defer rows.Close()

	offers := []models.SkillOffer{}
	for rows.Next() {
		var offer models.SkillOffer
		var skill models.Skill
		var owner models.UserSummary
		if err := rows.Scan(
			&offer.ID, &offer.UserID, &offer.SkillID, &offer.ProficiencyLevel,
			&offer.Description, &offer.CreatedAt,
			&skill.ID, &skill.Name, &skill.Category,
			&owner.ID, &owner.FullName, &owner.AvatarURL, &owner.Location,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		offer.Skill = &skill
		offer.Profile = &owner
		offers = append(offers, offer)
	}

	return c.JSON(fiber.Map{
		"results": offers,
		"count":   len(offers),
	})
}
