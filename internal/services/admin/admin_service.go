package admin

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// Таблицы, доступные для выгрузки
var exportableTables = map[string]bool{
	"profiles":      true,
	"swap_requests": true,
	"ratings":       true,
}

// AdminService представляет сервис административной панели
type AdminService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAdminService создает новый экземпляр AdminService
func NewAdminService(cfg *config.Config) *AdminService {
	return &AdminService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetStats возвращает сводную статистику платформы
func (s *AdminService) GetStats(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	// Считаются все профили, а не только с навыками
	var totalUsers, publicProfiles int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_public) FROM profiles
	`).Scan(&totalUsers, &publicProfiles)

	if err != nil {
		log.Printf("Ошибка подсчета профилей: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения статистики"})
	}

	// Обмены по статусам
	rows, err := db.Pool.Query(ctx, `
		SELECT status, COUNT(*) FROM swap_requests GROUP BY status
	`)
	if err != nil {
		log.Printf("Ошибка подсчета обменов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения статистики"})
	}
	defer rows.Close()

	swapsByStatus := map[string]int{}
	totalSwaps := 0
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		swapsByStatus[status] = count
		totalSwaps += count
	}

	var totalRatings int
	var averageRating float64
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM ratings
	`).Scan(&totalRatings, &averageRating)

	if err != nil {
		log.Printf("Ошибка подсчета оценок: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения статистики"})
	}

	return c.JSON(fiber.Map{
		"total_users":      totalUsers,
		"public_profiles":  publicProfiles,
		"private_profiles": totalUsers - publicProfiles,
		"total_swaps":      totalSwaps,
		"swaps_by_status":  swapsByStatus,
		"pending_swaps":    swapsByStatus[string(models.StatusPending)],
		"completed_swaps":  swapsByStatus[string(models.StatusCompleted)],
		"total_ratings":    totalRatings,
		"average_rating":   averageRating,
	})
}

// activityEvent — событие ленты недавней активности
type activityEvent struct {
	Type      string    `json:"type"` // swap или rating
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"text"`
}

// GetRecentActivity возвращает последние события платформы: новые обмены
// и оценки, отсортированные по времени
func (s *AdminService) GetRecentActivity(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	events := []activityEvent{}

	// Последние предложения обмена
	rows, err := db.Pool.Query(ctx, `
		SELECT r.created_at, COALESCE(pr.full_name, ''), COALESCE(pp.full_name, '')
		FROM swap_requests r
		JOIN profiles pr ON pr.id = r.requester_id
		JOIN profiles pp ON pp.id = r.provider_id
		ORDER BY r.created_at DESC
		LIMIT 10
	`)
	if err != nil {
		log.Printf("Ошибка запроса недавних обменов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения активности"})
	}
	defer rows.Close()

	for rows.Next() {
		var createdAt time.Time
		var requesterName, providerName string
		if err := rows.Scan(&createdAt, &requesterName, &providerName); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		events = append(events, activityEvent{
			Type:      "swap",
			CreatedAt: createdAt,
			Text:      fmt.Sprintf("%s предложил обмен %s", requesterName, providerName),
		})
	}
	rows.Close()

	// Последние оценки
	rows, err = db.Pool.Query(ctx, `
		SELECT r.created_at, r.rating, COALESCE(pr.full_name, ''), COALESCE(pd.full_name, '')
		FROM ratings r
		JOIN profiles pr ON pr.id = r.rater_id
		JOIN profiles pd ON pd.id = r.rated_id
		ORDER BY r.created_at DESC
		LIMIT 5
	`)
	if err != nil {
		log.Printf("Ошибка запроса недавних оценок: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения активности"})
	}
	defer rows.Close()

	for rows.Next() {
		var createdAt time.Time
		var value int
		var raterName, ratedName string
		if err := rows.Scan(&createdAt, &value, &raterName, &ratedName); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		events = append(events, activityEvent{
			Type:      "rating",
			CreatedAt: createdAt,
			Text:      fmt.Sprintf("%s оценил %s на %d", raterName, ratedName, value),
		})
	}

	// Объединяем и оставляем десять последних событий
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if len(events) > 10 {
		events = events[:10]
	}

	return c.JSON(fiber.Map{"activity": events})
}

// ExportTable выгружает все строки таблицы в JSON для скачивания
func (s *AdminService) ExportTable(c fiber.Ctx) error {
	table := c.Params("table")
	if !exportableTables[table] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимое имя таблицы"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Имя таблицы проверено по списку выше
	rows, err := db.Pool.Query(ctx, `SELECT * FROM `+table)
	if err != nil {
		log.Printf("Ошибка выгрузки таблицы %s: %v", table, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка выгрузки данных"})
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	records := []map[string]interface{}{}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			log.Printf("Ошибка чтения строки: %v", err)
			continue
		}
		record := map[string]interface{}{}
		for i, field := range fields {
			record[field.Name] = values[i]
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		log.Printf("Ошибка выгрузки таблицы %s: %v", table, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка выгрузки данных"})
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s_export.json"`, table))
	return c.JSON(records)
}
