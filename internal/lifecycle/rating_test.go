package lifecycle

import (
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

func completedRequest() models.SwapRequest {
	return requestWithStatus(models.StatusCompleted)
}

func TestValidateRating(t *testing.T) {
	req := completedRequest()

	for v := MinRating; v <= MaxRating; v++ {
		assert.NoError(t, ValidateRating(&req, requester, provider, v), "rating=%d", v)
	}
	for _, v := range []int{0, 6, -1, 100} {
		assert.ErrorIs(t, ValidateRating(&req, requester, provider, v), ErrInvalidRatingValue, "rating=%d", v)
	}

	// Оценка допустима в обе стороны
	assert.NoError(t, ValidateRating(&req, provider, requester, 3))
}

func TestValidateRatingSwapState(t *testing.T) {
	for _, status := range []models.SwapStatus{models.StatusPending, models.StatusAccepted, models.StatusRejected, models.StatusCancelled} {
		req := requestWithStatus(status)
		assert.ErrorIs(t, ValidateRating(&req, requester, provider, 5), ErrInvalidSwapState, "status=%s", status)
	}
}

func TestValidateRatingParties(t *testing.T) {
	req := completedRequest()

	// Оценивающий не участвует в обмене
	assert.ErrorIs(t, ValidateRating(&req, stranger, provider, 5), ErrInvalidParties)
	// Оцениваемый не является второй стороной
	assert.ErrorIs(t, ValidateRating(&req, requester, stranger, 5), ErrInvalidParties)
	// Оценка самого себя
	assert.ErrorIs(t, ValidateRating(&req, requester, requester, 5), ErrInvalidParties)
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 0.0, AverageRating([]int{}))
	assert.Equal(t, 4.5, AverageRating([]int{4, 5}))
	assert.Equal(t, 5.0, AverageRating([]int{5}))
	assert.Equal(t, 3.0, AverageRating([]int{1, 3, 5}))
}

func TestPendingRatings(t *testing.T) {
	me := uuid.New()
	other := uuid.New()

	ratedSwap := models.SwapRequest{ID: uuid.New(), RequesterID: me, ProviderID: other, Status: models.StatusCompleted}
	unratedSwap := models.SwapRequest{ID: uuid.New(), RequesterID: other, ProviderID: me, Status: models.StatusCompleted}
	foreignSwap := models.SwapRequest{ID: uuid.New(), RequesterID: other, ProviderID: uuid.New(), Status: models.StatusCompleted}
	activeSwap := models.SwapRequest{ID: uuid.New(), RequesterID: me, ProviderID: other, Status: models.StatusAccepted}

	all := []models.SwapRequest{ratedSwap, unratedSwap, foreignSwap, activeSwap}
	myRatings := map[uuid.UUID]bool{ratedSwap.ID: true}

	seq := PendingRatings(me, all, func(swapID uuid.UUID) bool { return myRatings[swapID] })

	var got []uuid.UUID
	for req := range seq {
		got = append(got, req.ID)
	}
	require.Equal(t, []uuid.UUID{unratedSwap.ID}, got)

	// Оценка второй стороны не влияет на ожидающие оценки пользователя:
	// unratedSwap остается в списке, даже если other уже оценил
	again := slices.Collect(seq)
	require.Len(t, again, 1)
	assert.Equal(t, unratedSwap.ID, again[0].ID)
}

func TestPendingRatingsEarlyStop(t *testing.T) {
	me := uuid.New()
	other := uuid.New()

	var all []models.SwapRequest
	for i := 0; i < 5; i++ {
		all = append(all, models.SwapRequest{ID: uuid.New(), RequesterID: me, ProviderID: other, Status: models.StatusCompleted})
	}

	seq := PendingRatings(me, all, func(uuid.UUID) bool { return false })

	count := 0
	for range seq {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

// Полный сценарий: создание → принятие → завершение → оценка
func TestFullLifecycle(t *testing.T) {
	req, err := NewRequest(requester, provider, requestedSkill, offeredSkill, provider, requester, "Guitar за Spanish")
	require.NoError(t, err)

	status, err := Transition(&req, provider, ActionAccept)
	require.NoError(t, err)
	req.Status = status

	status, err = Transition(&req, requester, ActionComplete)
	require.NoError(t, err)
	req.Status = status
	require.Equal(t, models.StatusCompleted, req.Status)

	require.NoError(t, ValidateRating(&req, requester, provider, 5))

	// Оценка учитывается в среднем оцениваемого
	assert.Equal(t, 5.0, AverageRating([]int{5}))

	// Обмен больше не ожидает оценки от инициатора
	seq := PendingRatings(requester, []models.SwapRequest{req}, func(swapID uuid.UUID) bool { return swapID == req.ID })
	assert.Empty(t, slices.Collect(seq))

	// Но ожидает оценки от исполнителя
	seq = PendingRatings(provider, []models.SwapRequest{req}, func(uuid.UUID) bool { return false })
	assert.Len(t, slices.Collect(seq), 1)
}
