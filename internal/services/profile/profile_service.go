package profile

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/services/cloudinary"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// ProfileService представляет сервис для работы с профилями
type ProfileService struct {
	cfg               *config.Config
	jwtService        *utils.JWTService
	cloudinaryService *cloudinary.CloudinaryService
}

// NewProfileService создает новый экземпляр ProfileService
func NewProfileService(cfg *config.Config, cloudinaryService *cloudinary.CloudinaryService) *ProfileService {
	return &ProfileService{
		cfg:               cfg,
		jwtService:        utils.NewJWTService(cfg.JWTSecret),
		cloudinaryService: cloudinaryService,
	}
}

// GetMyProfile возвращает профиль текущего пользователя
func (s *ProfileService) GetMyProfile(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	profile, err := db.GetProfileByID(userUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Профиль не найден"})
		}
		log.Printf("Ошибка получения профиля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения профиля"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

// UpdateMyProfile обновляет профиль текущего пользователя
func (s *ProfileService) UpdateMyProfile(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var requestData struct {
		FullName     string `json:"full_name"`
		Location     string `json:"location"`
		Bio          string `json:"bio"`
		Availability string `json:"availability"`
		IsPublic     bool   `json:"is_public"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if strings.TrimSpace(requestData.FullName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Имя обязательно"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	_, err = db.Pool.Exec(ctx, `
		UPDATE profiles
		SET full_name = $1, location = $2, bio = $3, availability = $4, is_public = $5, updated_at = NOW()
		WHERE id = $6
	`, requestData.FullName, requestData.Location, requestData.Bio,
		requestData.Availability, requestData.IsPublic, userUUID)

	if err != nil {
		log.Printf("Ошибка обновления профиля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения профиля"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Профиль обновлен",
	})
}

// GetUserProfile возвращает публичный профиль пользователя вместе с его
// навыками и средней оценкой
func (s *ProfileService) GetUserProfile(c fiber.Ctx) error {
	viewerUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	targetUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID профиля"})
	}

	profile, err := db.GetProfileByID(targetUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Профиль не найден"})
		}
		log.Printf("Ошибка получения профиля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения профиля"})
	}

	// Скрытые профили видит только их владелец
	if !profile.IsPublic && viewerUUID != targetUUID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Профиль не найден"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	offered, err := s.getOfferedSkills(ctx, targetUUID)
	if err != nil {
		log.Printf("Ошибка получения предлагаемых навыков: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения навыков"})
	}

	wanted, err := s.getWantedSkills(ctx, targetUUID)
	if err != nil {
		log.Printf("Ошибка получения желаемых навыков: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения навыков"})
	}

	// Средняя оценка всегда вычисляется по текущим строкам ratings
	var summary models.RatingSummary
	err = db.Pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM ratings WHERE rated_id = $1
	`, targetUUID).Scan(&summary.Average, &summary.Count)

	if err != nil {
		log.Printf("Ошибка вычисления средней оценки: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения оценок"})
	}

	return c.JSON(fiber.Map{
		"profile":        profile,
		"skills_offered": offered,
		"skills_wanted":  wanted,
		"rating":         summary,
	})
}

// SaveAvatar сохраняет новый аватар и удаляет прежний ресурс из Cloudinary
func (s *ProfileService) SaveAvatar(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var requestData struct {
		AvatarURL string `json:"avatar_url"`
		PublicID  string `json:"public_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.AvatarURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Не указан URL аватара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Запоминаем прежний аватар, чтобы убрать его из Cloudinary
	var oldPublicID string
	err = db.Pool.QueryRow(ctx, `
		SELECT COALESCE(avatar_public_id, '') FROM profiles WHERE id = $1
	`, userUUID).Scan(&oldPublicID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Профиль не найден"})
		}
		log.Printf("Ошибка получения профиля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения аватара"})
	}

	_, err = db.Pool.Exec(ctx, `
		UPDATE profiles
		SET avatar_url = $1, avatar_public_id = $2, updated_at = NOW()
		WHERE id = $3
	`, requestData.AvatarURL, requestData.PublicID, userUUID)

	if err != nil {
		log.Printf("Ошибка сохранения аватара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения аватара"})
	}

	// Прежний ресурс удаляем в фоне: профиль уже обновлен
	if oldPublicID != "" && oldPublicID != requestData.PublicID {
		if err := s.cloudinaryService.DestroyAsset(ctx, oldPublicID); err != nil {
			log.Printf("Ошибка удаления прежнего аватара %s: %v", oldPublicID, err)
		}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"avatar_url": requestData.AvatarURL,
	})
}

// getOfferedSkills получает предлагаемые навыки пользователя с данными каталога
func (s *ProfileService) getOfferedSkills(ctx context.Context, userID uuid.UUID) ([]models.SkillOffer, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT o.id, o.user_id, o.skill_id, o.proficiency_level, COALESCE(o.description, ''), o.created_at,
			   s.id, s.name, s.category
		FROM user_skills_offered o
		JOIN skills s ON s.id = o.skill_id
		WHERE o.user_id = $1
		ORDER BY s.name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := []models.SkillOffer{}
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
		offers = append(offers, offer)
	}

	return offers, rows.Err()
}

// getWantedSkills получает желаемые навыки пользователя с данными каталога
func (s *ProfileService) getWantedSkills(ctx context.Context, userID uuid.UUID) ([]models.SkillWant, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT w.id, w.user_id, w.skill_id, w.urgency, COALESCE(w.description, ''), w.created_at,
			   s.id, s.name, s.category
		FROM user_skills_wanted w
		JOIN skills s ON s.id = w.skill_id
		WHERE w.user_id = $1
		ORDER BY s.name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wants := []models.SkillWant{}
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
		wants = append(wants, want)
	}

	return wants, rows.Err()
}
