package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating представляет оценку участника после завершенного обмена.
// На один обмен каждая сторона оставляет не больше одной оценки —
// уникальность пары (swap_request_id, rater_id) обеспечивает база данных.
type Rating struct {
	ID            uuid.UUID `json:"id"`
	SwapRequestID uuid.UUID `json:"swap_request_id"`
	RaterID       uuid.UUID `json:"rater_id"`
	RatedID       uuid.UUID `json:"rated_id"`
	Rating        int       `json:"rating"` // от 1 до 5
	Feedback      string    `json:"feedback,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	// Дополнительные поля для API
	Rater *UserSummary `json:"rater,omitempty"`
	Rated *UserSummary `json:"rated,omitempty"`
}

// RatingSummary представляет агрегированную оценку пользователя.
// Среднее всегда вычисляется по запросу и нигде не денормализуется.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
