package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCounterpart(t *testing.T) {
	requester := uuid.New()
	provider := uuid.New()
	req := SwapRequest{RequesterID: requester, ProviderID: provider}

	assert.Equal(t, provider, req.Counterpart(requester))
	assert.Equal(t, requester, req.Counterpart(provider))
	assert.Equal(t, uuid.Nil, req.Counterpart(uuid.New()))
}

func TestInvolves(t *testing.T) {
	requester := uuid.New()
	provider := uuid.New()
	req := SwapRequest{RequesterID: requester, ProviderID: provider}

	assert.True(t, req.Involves(requester))
	assert.True(t, req.Involves(provider))
	assert.False(t, req.Involves(uuid.New()))
}
