package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// CreateOrUpdateTelegramProfile создает профиль при первом входе через
// Telegram или обновляет имя и аватар существующего
func CreateOrUpdateTelegramProfile(telegramID int64, fullName, avatarURL string) (*models.Profile, error) {
	ctx, cancel := GetContext()
	defer cancel()

	// Начинаем транзакцию
	tx, err := Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx) // Откатываем транзакцию в случае ошибки

	var profileID uuid.UUID

	err = tx.QueryRow(ctx, `
		SELECT id FROM profiles WHERE telegram_id = $1
	`, telegramID).Scan(&profileID)

	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("ошибка при поиске профиля: %w", err)
	}

	if err == pgx.ErrNoRows {
		// Создаем новый профиль
		err = tx.QueryRow(ctx, `
			INSERT INTO profiles (telegram_id, full_name, avatar_url, last_login_at)
			VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
			RETURNING id
		`, telegramID, fullName, avatarURL).Scan(&profileID)

		if err != nil {
			return nil, fmt.Errorf("ошибка при создании профиля: %w", err)
		}
	} else {
		// Обновляем имя, аватар и время входа существующего профиля
		_, err = tx.Exec(ctx, `
			UPDATE profiles
			SET full_name = $1, avatar_url = $2, last_login_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
			WHERE id = $3
		`, fullName, avatarURL, profileID)

		if err != nil {
			return nil, fmt.Errorf("ошибка при обновлении профиля: %w", err)
		}
	}

	// Создаем запись о входе
	_, err = tx.Exec(ctx, `
		INSERT INTO user_sessions (user_id, login_time)
		VALUES ($1, CURRENT_TIMESTAMP)
	`, profileID)

	if err != nil {
		return nil, fmt.Errorf("ошибка при создании сессии пользователя: %w", err)
	}

	profile, err := getProfileByID(ctx, tx, profileID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении профиля: %w", err)
	}

	// Фиксируем транзакцию
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return profile, nil
}

// profileQuery — общий список колонок профиля
const profileQuery = `
	SELECT id, telegram_id, email, full_name, avatar_url, avatar_public_id,
		   location, bio, is_public, availability, role, created_at, updated_at
	FROM profiles WHERE id = $1
`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var profile models.Profile
	var telegramID pgtype.Int8
	var email, fullName, avatarURL, avatarPublicID, location, bio, availability pgtype.Text

	err := row.Scan(
		&profile.ID, &telegramID, &email, &fullName, &avatarURL, &avatarPublicID,
		&location, &bio, &profile.IsPublic, &availability, &profile.Role,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Преобразуем nullable поля
	if telegramID.Valid {
		profile.TelegramID = telegramID.Int64
	}
	if email.Valid {
		profile.Email = email.String
	}
	if fullName.Valid {
		profile.FullName = fullName.String
	}
	if avatarURL.Valid {
		profile.AvatarURL = avatarURL.String
	}
	if avatarPublicID.Valid {
		profile.AvatarPublicID = avatarPublicID.String
	}
	if location.Valid {
		profile.Location = location.String
	}
	if bio.Valid {
		profile.Bio = bio.String
	}
	if availability.Valid {
		profile.Availability = availability.String
	}

	return &profile, nil
}

// getProfileByID получает профиль по ID внутри транзакции
func getProfileByID(ctx context.Context, tx pgx.Tx, profileID uuid.UUID) (*models.Profile, error) {
	return scanProfile(tx.QueryRow(ctx, profileQuery, profileID))
}

// GetProfileByID получает профиль по ID (публичная версия)
func GetProfileByID(profileID uuid.UUID) (*models.Profile, error) {
	ctx, cancel := GetContext()
	defer cancel()

	return scanProfile(Pool.QueryRow(ctx, profileQuery, profileID))
}
