package middleware

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// AdminMiddleware пропускает только пользователей с ролью admin.
// Роль перечитывается из базы на каждый запрос, а не берется из токена:
// отзыв прав действует немедленно.
func AdminMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		userID := c.Locals("userID").(string)

		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
		}

		ctx, cancel := db.GetContext()
		defer cancel()

		var role string
		err = db.Pool.QueryRow(ctx, `
			SELECT role FROM profiles WHERE id = $1
		`, userUUID).Scan(&role)

		if err != nil {
			if err == pgx.ErrNoRows {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Профиль не найден"})
			}
			log.Printf("Ошибка проверки роли пользователя: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки доступа"})
		}

		if role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Требуются права администратора"})
		}

		return c.Next()
	}
}
