package rating

import (
	"context"
	"errors"
	"log"
	"slices"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/lifecycle"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// RatingService представляет сервис для работы с оценками после обменов
type RatingService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewRatingService создает новый экземпляр RatingService
func NewRatingService(cfg *config.Config) *RatingService {
	return &RatingService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// SubmitRating сохраняет оценку по завершенному обмену
func (s *RatingService) SubmitRating(c fiber.Ctx) error {
	raterID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var requestData struct {
		SwapRequestID string `json:"swap_request_id"`
		RatedID       string `json:"rated_id"`
		Rating        int    `json:"rating"`
		Feedback      string `json:"feedback"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	swapUUID, err := uuid.Parse(requestData.SwapRequestID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	swapReq, err := s.getSwapRequest(ctx, swapUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Обмен не найден"})
		}
		log.Printf("Ошибка запроса обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения обмена"})
	}

	// Оцениваемый — вторая сторона обмена; клиент может передать его явно
	ratedID := swapReq.Counterpart(raterID)
	if requestData.RatedID != "" {
		ratedID, err = uuid.Parse(requestData.RatedID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID оцениваемого"})
		}
	}

	// Доменные проверки выполняет движок жизненного цикла
	if err := lifecycle.ValidateRating(swapReq, raterID, ratedID, requestData.Rating); err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrInvalidSwapState):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Оценка возможна только по завершенному обмену"})
		case errors.Is(err, lifecycle.ErrInvalidParties):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Оценивать можно только вторую сторону своего обмена"})
		case errors.Is(err, lifecycle.ErrInvalidRatingValue):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Оценка должна быть целым числом от 1 до 5"})
		}
		log.Printf("Ошибка проверки оценки: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки оценки"})
	}

	ratingID := uuid.New()

	// Уникальность пары (обмен, оценивающий) обеспечивает база данных:
	// из двух конкурирующих вставок пройдет ровно одна
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO ratings (id, swap_request_id, rater_id, rated_id, rating, feedback)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (swap_request_id, rater_id) DO NOTHING
	`, ratingID, swapUUID, raterID, ratedID, requestData.Rating, requestData.Feedback)

	if err != nil {
		log.Printf("Ошибка сохранения оценки: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения оценки"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Вы уже оценили этот обмен"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"rating_id": ratingID,
		"message":   "Спасибо за оценку!",
	})
}

// GetPendingRatings возвращает завершенные обмены, которые пользователь
// еще не оценил
func (s *RatingService) GetPendingRatings(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Завершенные обмены с участием пользователя
	rows, err := db.Pool.Query(ctx, `
		SELECT id, requester_id, provider_id, requested_skill_id, offered_skill_id,
			   status, COALESCE(message, ''), created_at, updated_at
		FROM swap_requests
		WHERE status = 'completed' AND (requester_id = $1 OR provider_id = $1)
		ORDER BY updated_at DESC
	`, userUUID)
	if err != nil {
		log.Printf("Ошибка запроса завершенных обменов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения обменов"})
	}
	defer rows.Close()

	completed := []models.SwapRequest{}
	for rows.Next() {
		var swapReq models.SwapRequest
		if err := rows.Scan(
			&swapReq.ID, &swapReq.RequesterID, &swapReq.ProviderID,
			&swapReq.RequestedSkillID, &swapReq.OfferedSkillID,
			&swapReq.Status, &swapReq.Message, &swapReq.CreatedAt, &swapReq.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		completed = append(completed, swapReq)
	}
	rows.Close()

	// Обмены, уже оцененные пользователем
	ratedRows, err := db.Pool.Query(ctx, `
		SELECT swap_request_id FROM ratings WHERE rater_id = $1
	`, userUUID)
	if err != nil {
		log.Printf("Ошибка запроса оценок: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения оценок"})
	}
	defer ratedRows.Close()

	rated := map[uuid.UUID]bool{}
	for ratedRows.Next() {
		var swapID uuid.UUID
		if err := ratedRows.Scan(&swapID); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		rated[swapID] = true
	}

	pending := slices.Collect(lifecycle.PendingRatings(userUUID, completed,
		func(swapID uuid.UUID) bool { return rated[swapID] }))
	if pending == nil {
		pending = []models.SwapRequest{}
	}

	// Добавляем краткую информацию о второй стороне
	for i := range pending {
		pending[i].Requester = s.getUserSummary(ctx, pending[i].RequesterID)
		pending[i].Provider = s.getUserSummary(ctx, pending[i].ProviderID)
	}

	return c.JSON(fiber.Map{
		"pending": pending,
		"count":   len(pending),
	})
}

// GetUserRatings возвращает оценки, полученные пользователем, и его среднюю
// оценку. Среднее не хранится, а вычисляется по текущим строкам
func (s *RatingService) GetUserRatings(c fiber.Ctx) error {
	targetUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, swap_request_id, rater_id, rated_id, rating, COALESCE(feedback, ''), created_at
		FROM ratings
		WHERE rated_id = $1
		ORDER BY created_at DESC
	`, targetUUID)
	if err != nil {
		log.Printf("Ошибка запроса оценок: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения оценок"})
	}
	defer rows.Close()

	ratings := []models.Rating{}
	values := []int{}
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.ID, &r.SwapRequestID, &r.RaterID, &r.RatedID, &r.Rating, &r.Feedback, &r.CreatedAt); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		ratings = append(ratings, r)
		values = append(values, r.Rating)
	}
	rows.Close()

	for i := range ratings {
		ratings[i].Rater = s.getUserSummary(ctx, ratings[i].RaterID)
	}

	summary := models.RatingSummary{
		Average: lifecycle.AverageRating(values),
		Count:   len(values),
	}

	return c.JSON(fiber.Map{
		"ratings": ratings,
		"summary": summary,
	})
}

// getSwapRequest получает предложение обмена по ID
func (s *RatingService) getSwapRequest(ctx context.Context, swapID uuid.UUID) (*models.SwapRequest, error) {
	var swapReq models.SwapRequest
	err := db.Pool.QueryRow(ctx, `
		SELECT id, requester_id, provider_id, requested_skill_id, offered_skill_id,
			   status, COALESCE(message, ''), created_at, updated_at
		FROM swap_requests
		WHERE id = $1
	`, swapID).Scan(
		&swapReq.ID, &swapReq.RequesterID, &swapReq.ProviderID,
		&swapReq.RequestedSkillID, &swapReq.OfferedSkillID,
		&swapReq.Status, &swapReq.Message, &swapReq.CreatedAt, &swapReq.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &swapReq, nil
}

// getUserSummary получает краткую информацию о пользователе
func (s *RatingService) getUserSummary(ctx context.Context, userID uuid.UUID) *models.UserSummary {
	var user models.UserSummary
	err := db.Pool.QueryRow(ctx, `
		SELECT id, COALESCE(full_name, ''), COALESCE(avatar_url, ''), COALESCE(location, '')
		FROM profiles
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.FullName, &user.AvatarURL, &user.Location)

	if err != nil {
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}

	return &user
}
