package lifecycle

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

var (
	requester = uuid.New()
	provider  = uuid.New()
	stranger  = uuid.New()

	requestedSkill = uuid.New()
	offeredSkill   = uuid.New()
)

func pendingRequest() models.SwapRequest {
	req, err := NewRequest(requester, provider, requestedSkill, offeredSkill, provider, requester, "давай меняться")
	if err != nil {
		panic(err)
	}
	return req
}

func requestWithStatus(status models.SwapStatus) models.SwapRequest {
	req := pendingRequest()
	req.Status = status
	return req
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(requester, provider, requestedSkill, offeredSkill, provider, requester, "hi")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, requester, req.RequesterID)
	assert.Equal(t, provider, req.ProviderID)
	assert.Equal(t, "hi", req.Message)
	assert.NotEqual(t, uuid.Nil, req.ID)
	assert.Equal(t, req.CreatedAt, req.UpdatedAt)
}

func TestNewRequestSameParties(t *testing.T) {
	_, err := NewRequest(requester, requester, requestedSkill, offeredSkill, requester, requester, "")
	assert.ErrorIs(t, err, ErrInvalidParties)
}

func TestNewRequestSkillOwnership(t *testing.T) {
	// Запрошенный навык принадлежит не исполнителю
	_, err := NewRequest(requester, provider, requestedSkill, offeredSkill, stranger, requester, "")
	assert.ErrorIs(t, err, ErrInvalidSkillOwnership)

	// Встречный навык принадлежит не инициатору
	_, err = NewRequest(requester, provider, requestedSkill, offeredSkill, provider, stranger, "")
	assert.ErrorIs(t, err, ErrInvalidSkillOwnership)
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name   string
		status models.SwapStatus
		actor  uuid.UUID
		action Action
		want   models.SwapStatus
		err    error
	}{
		{"provider accepts pending", models.StatusPending, provider, ActionAccept, models.StatusAccepted, nil},
		{"provider rejects pending", models.StatusPending, provider, ActionReject, models.StatusRejected, nil},
		{"requester cancels pending", models.StatusPending, requester, ActionCancel, models.StatusCancelled, nil},
		{"requester completes accepted", models.StatusAccepted, requester, ActionComplete, models.StatusCompleted, nil},
		{"provider completes accepted", models.StatusAccepted, provider, ActionComplete, models.StatusCompleted, nil},

		{"requester cannot accept", models.StatusPending, requester, ActionAccept, "", ErrForbidden},
		{"requester cannot reject", models.StatusPending, requester, ActionReject, "", ErrForbidden},
		{"provider cannot cancel", models.StatusPending, provider, ActionCancel, "", ErrForbidden},
		{"stranger cannot accept", models.StatusPending, stranger, ActionAccept, "", ErrForbidden},
		{"stranger cannot complete", models.StatusAccepted, stranger, ActionComplete, "", ErrForbidden},

		{"cannot complete pending", models.StatusPending, provider, ActionComplete, "", ErrInvalidTransition},
		{"cannot accept accepted", models.StatusAccepted, provider, ActionAccept, "", ErrInvalidTransition},
		{"cannot cancel accepted", models.StatusAccepted, requester, ActionCancel, "", ErrInvalidTransition},
		{"unknown action", models.StatusPending, provider, Action("freeze"), "", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestWithStatus(tt.status)
			got, err := Transition(&req, tt.actor, tt.action)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitionFromTerminalStates(t *testing.T) {
	actors := []uuid.UUID{requester, provider, stranger}
	actions := []Action{ActionAccept, ActionReject, ActionCancel, ActionComplete}

	for _, status := range []models.SwapStatus{models.StatusRejected, models.StatusCompleted, models.StatusCancelled} {
		for _, actor := range actors {
			for _, action := range actions {
				req := requestWithStatus(status)
				_, err := Transition(&req, actor, action)
				assert.ErrorIs(t, err, ErrInvalidTransition,
					"status=%s actor=%s action=%s", status, actor, action)
			}
		}
	}
}

// Обмен отклонен исполнителем — последующая отмена инициатором невозможна
func TestCancelAfterReject(t *testing.T) {
	req := pendingRequest()

	status, err := Transition(&req, provider, ActionReject)
	require.NoError(t, err)
	req.Status = status

	_, err = Transition(&req, requester, ActionCancel)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestActionForStatus(t *testing.T) {
	action, ok := ActionForStatus(models.StatusAccepted)
	require.True(t, ok)
	assert.Equal(t, ActionAccept, action)

	_, ok = ActionForStatus(models.StatusPending)
	assert.False(t, ok)

	_, ok = ActionForStatus(models.SwapStatus("frozen"))
	assert.False(t, ok)
}

func TestStatusSets(t *testing.T) {
	assert.False(t, models.StatusPending.Terminal())
	assert.False(t, models.StatusAccepted.Terminal())
	assert.True(t, models.StatusRejected.Terminal())
	assert.True(t, models.StatusCompleted.Terminal())
	assert.True(t, models.StatusCancelled.Terminal())

	assert.True(t, models.StatusPending.Valid())
	assert.False(t, models.SwapStatus("canceled").Valid())
}
