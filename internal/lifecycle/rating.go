package lifecycle

import (
	"iter"

	"github.com/google/uuid"
	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// Допустимый диапазон оценки
const (
	MinRating = 1
	MaxRating = 5
)

// ValidateRating проверяет допустимость оценки по обмену: обмен завершен,
// оценивающий и оцениваемый — две разные стороны этого обмена, значение
// в диапазоне 1..5. Уникальность пары (обмен, оценивающий) проверяет
// хранилище при вставке, а не этот код.
func ValidateRating(req *models.SwapRequest, raterID, ratedID uuid.UUID, value int) error {
	if req.Status != models.StatusCompleted {
		return ErrInvalidSwapState
	}
	if raterID == ratedID || !req.Involves(raterID) || req.Counterpart(raterID) != ratedID {
		return ErrInvalidParties
	}
	if value < MinRating || value > MaxRating {
		return ErrInvalidRatingValue
	}
	return nil
}

// PendingRatings возвращает ленивую последовательность завершенных обменов
// с участием userID, по которым пользователь еще не оставил оценку.
// Последовательность конечна и допускает повторный проход.
func PendingRatings(userID uuid.UUID, completed []models.SwapRequest, rated func(swapID uuid.UUID) bool) iter.Seq[models.SwapRequest] {
	return func(yield func(models.SwapRequest) bool) {
		for _, req := range completed {
			if req.Status != models.StatusCompleted || !req.Involves(userID) {
				continue
			}
			if rated(req.ID) {
				continue
			}
			if !yield(req) {
				return
			}
		}
	}
}

// AverageRating вычисляет среднюю оценку. Для пустого списка возвращает 0.
func AverageRating(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
