package models

import (
	"time"

	"github.com/google/uuid"
)

// SwapStatus — замкнутое множество статусов обмена. Любое изменение статуса
// проходит через lifecycle.Transition, прямые записи поля запрещены.
type SwapStatus string

const (
	StatusPending   SwapStatus = "pending"
	StatusAccepted  SwapStatus = "accepted"
	StatusRejected  SwapStatus = "rejected"
	StatusCompleted SwapStatus = "completed"
	StatusCancelled SwapStatus = "cancelled"
)

// Valid сообщает, входит ли значение в множество статусов
func (s SwapStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal сообщает, является ли статус конечным: из конечного статуса
// переходы невозможны
func (s SwapStatus) Terminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// SwapRequest представляет предложение об обмене навыками
type SwapRequest struct {
	ID               uuid.UUID  `json:"id"`
	RequesterID      uuid.UUID  `json:"requester_id"`
	ProviderID       uuid.UUID  `json:"provider_id"`
	RequestedSkillID uuid.UUID  `json:"requested_skill_id"`
	OfferedSkillID   uuid.UUID  `json:"offered_skill_id"`
	Status           SwapStatus `json:"status"`
	Message          string     `json:"message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Дополнительные поля для API
	RequestedSkill *SkillOffer  `json:"requested_skill,omitempty"`
	OfferedSkill   *SkillOffer  `json:"offered_skill,omitempty"`
	Requester      *UserSummary `json:"requester,omitempty"`
	Provider       *UserSummary `json:"provider,omitempty"`
}

// Counterpart возвращает вторую сторону обмена для указанного участника.
// Для постороннего пользователя возвращает uuid.Nil.
func (r *SwapRequest) Counterpart(userID uuid.UUID) uuid.UUID {
	switch userID {
	case r.RequesterID:
		return r.ProviderID
	case r.ProviderID:
		return r.RequesterID
	}
	return uuid.Nil
}

// Involves сообщает, является ли пользователь стороной обмена
func (r *SwapRequest) Involves(userID uuid.UUID) bool {
	return userID == r.RequesterID || userID == r.ProviderID
}
