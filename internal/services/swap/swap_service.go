package swap

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/lifecycle"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// SwapService представляет сервис для работы с обменами навыками
type SwapService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewSwapService создает новый экземпляр SwapService
func NewSwapService(cfg *config.Config) *SwapService {
	return &SwapService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// CreateSwap создает новое предложение обмена навыками
func (s *SwapService) CreateSwap(c fiber.Ctx) error {
	requesterID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		RequestedSkillID string `json:"requested_skill_id"`
		OfferedSkillID   string `json:"offered_skill_id"`
		Message          string `json:"message"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.RequestedSkillID == "" || requestData.OfferedSkillID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо указать навыки для обмена"})
	}

	requestedSkillID, err := uuid.Parse(requestData.RequestedSkillID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID запрашиваемого навыка"})
	}

	offeredSkillID, err := uuid.Parse(requestData.OfferedSkillID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID встречного навыка"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Владелец запрашиваемого навыка — будущий исполнитель обмена
	var providerID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
		SELECT user_id FROM user_skills_offered WHERE id = $1
	`, requestedSkillID).Scan(&providerID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Запрашиваемый навык не найден"})
		}
		log.Printf("Ошибка запроса запрашиваемого навыка: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки навыка"})
	}

	// Встречный навык должен принадлежать инициатору
	var offeredOwnerID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
		SELECT user_id FROM user_skills_offered WHERE id = $1
	`, offeredSkillID).Scan(&offeredOwnerID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Встречный навык не найден"})
		}
		log.Printf("Ошибка запроса встречного навыка: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки навыка"})
	}

	// Все доменные проверки выполняет движок жизненного цикла
	req, err := lifecycle.NewRequest(requesterID, providerID, requestedSkillID, offeredSkillID,
		providerID, offeredOwnerID, requestData.Message)

	if err != nil {
		if errors.Is(err, lifecycle.ErrInvalidParties) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вы не можете предложить обмен самому себе"})
		}
		if errors.Is(err, lifecycle.ErrInvalidSkillOwnership) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не можете предложить чужой навык для обмена"})
		}
		log.Printf("Ошибка создания предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания предложения"})
	}

	// Проверяем, не существует ли уже ожидающее предложение с той же парой навыков
	var existingCount int
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM swap_requests
		WHERE offered_skill_id = $1 AND requested_skill_id = $2 AND status = 'pending'
	`, offeredSkillID, requestedSkillID).Scan(&existingCount)

	if err != nil {
		log.Printf("Ошибка проверки существующих предложений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки существующих обменов"})
	}

	if existingCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Такое предложение обмена уже существует"})
	}

	// Вставляем предложение обмена
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO swap_requests (id, requester_id, provider_id, requested_skill_id, offered_skill_id, status, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, req.ID, req.RequesterID, req.ProviderID, req.RequestedSkillID, req.OfferedSkillID,
		req.Status, req.Message, req.CreatedAt, req.UpdatedAt)

	if err != nil {
		log.Printf("Ошибка создания предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения предложения обмена"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"swap_id": req.ID,
		"message": "Предложение обмена успешно создано",
	})
}

// GetMySwaps возвращает список входящих и исходящих предложений обмена
func (s *SwapService) GetMySwaps(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Тип выборки (входящие/исходящие/все) и фильтр по статусу
	swapType := c.Query("type", "all") // all, received, sent
	status := c.Query("status", "all") // all, pending, accepted, rejected, completed, cancelled

	if status != "all" && !models.SwapStatus(status).Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус"})
	}

	baseQuery := `
		SELECT r.id, r.requester_id, r.provider_id, r.requested_skill_id, r.offered_skill_id,
			   r.status, COALESCE(r.message, ''), r.created_at, r.updated_at
		FROM swap_requests r
	`

	var query string
	var args []interface{}

	switch swapType {
	case "received":
		query = baseQuery + ` WHERE r.provider_id = $1`
		args = []interface{}{userUUID}
	case "sent":
		query = baseQuery + ` WHERE r.requester_id = $1`
		args = []interface{}{userUUID}
	default:
		query = baseQuery + ` WHERE (r.requester_id = $1 OR r.provider_id = $1)`
		args = []interface{}{userUUID}
	}

	if status != "all" {
		query += ` AND r.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY r.created_at DESC`

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Ошибка запроса предложений обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложений обмена"})
	}
	defer rows.Close()

	swaps := []models.SwapRequest{}
	for rows.Next() {
		var swapReq models.SwapRequest
		if err := rows.Scan(
			&swapReq.ID,
			&swapReq.RequesterID,
			&swapReq.ProviderID,
			&swapReq.RequestedSkillID,
			&swapReq.OfferedSkillID,
			&swapReq.Status,
			&swapReq.Message,
			&swapReq.CreatedAt,
			&swapReq.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		swaps = append(swaps, swapReq)
	}
	rows.Close()

	// Загружаем дополнительную информацию о навыках и участниках
	for i := range swaps {
		swaps[i].RequestedSkill = s.getOfferInfo(ctx, swaps[i].RequestedSkillID)
		swaps[i].OfferedSkill = s.getOfferInfo(ctx, swaps[i].OfferedSkillID)
		swaps[i].Requester = s.getUserSummary(ctx, swaps[i].RequesterID)
		swaps[i].Provider = s.getUserSummary(ctx, swaps[i].ProviderID)
	}

	return c.JSON(fiber.Map{
		"swaps": swaps,
		"count": len(swaps),
	})
}

// UpdateSwapStatus проводит предложение обмена по жизненному циклу:
// принятие, отклонение, отмена или завершение
func (s *SwapService) UpdateSwapStatus(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	swapUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	// Получаем новый статус из запроса
	var requestData struct {
		Status string `json:"status"` // accepted, rejected, cancelled, completed
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	action, ok := lifecycle.ActionForStatus(models.SwapStatus(requestData.Status))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	swapReq, err := s.getSwapRequest(ctx, swapUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	// Право и допустимость перехода проверяет движок жизненного цикла
	newStatus, err := lifecycle.Transition(swapReq, userUUID, action)
	if err != nil {
		return s.respondTransitionError(c, err)
	}

	// Статус меняется условным UPDATE: ожидаемый старый статус входит в
	// условие, поэтому из двух конкурирующих запросов выигрывает один
	tag, err := db.Pool.Exec(ctx, `
		UPDATE swap_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, newStatus, swapUUID, swapReq.Status)

	if err != nil {
		log.Printf("Ошибка обновления статуса предложения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления статуса предложения"})
	}

	if tag.RowsAffected() == 0 {
		// Статус уже изменил конкурирующий запрос
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Статус предложения уже изменился, обновите данные"})
	}

	// Формируем сообщение в зависимости от нового статуса
	var message string
	switch newStatus {
	case models.StatusAccepted:
		message = "Предложение обмена принято"
	case models.StatusRejected:
		message = "Предложение обмена отклонено"
	case models.StatusCancelled:
		message = "Предложение обмена отменено"
	case models.StatusCompleted:
		message = "Обмен отмечен завершенным"
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"swap_id": swapUUID,
		"status":  newStatus,
	})
}

// respondTransitionError преобразует доменные ошибки движка в HTTP ответ
func (s *SwapService) respondTransitionError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Это действие доступно только другой стороне обмена"})
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Недопустимая смена статуса для текущего состояния обмена"})
	}
	log.Printf("Ошибка перехода статуса: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления статуса"})
}

// getSwapRequest получает предложение обмена по ID
func (s *SwapService) getSwapRequest(ctx context.Context, swapID uuid.UUID) (*models.SwapRequest, error) {
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

// getOfferInfo получает информацию о предлагаемом навыке с данными каталога
func (s *SwapService) getOfferInfo(ctx context.Context, offerID uuid.UUID) *models.SkillOffer {
	var offer models.SkillOffer
	var skill models.Skill

	err := db.Pool.QueryRow(ctx, `
		SELECT o.id, o.user_id, o.skill_id, o.proficiency_level, COALESCE(o.description, ''),
			   s.id, s.name, s.category
		FROM user_skills_offered o
		JOIN skills s ON s.id = o.skill_id
		WHERE o.id = $1
	`, offerID).Scan(
		&offer.ID, &offer.UserID, &offer.SkillID, &offer.ProficiencyLevel, &offer.Description,
		&skill.ID, &skill.Name, &skill.Category,
	)

	if err != nil {
		log.Printf("Ошибка получения навыка %s: %v", offerID, err)
		return nil
	}

	offer.Skill = &skill
	return &offer
}

// getUserSummary получает краткую информацию о пользователе
func (s *SwapService) getUserSummary(ctx context.Context, userID uuid.UUID) *models.UserSummary {
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
