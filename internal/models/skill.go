package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill представляет навык из общего каталога
type Skill struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SkillOffer представляет навык, которому пользователь готов обучать
type SkillOffer struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	SkillID          uuid.UUID `json:"skill_id"`
	ProficiencyLevel string    `json:"proficiency_level"` // beginner, intermediate, advanced, expert
	Description      string    `json:"description,omitempty"`
	CreatedAt        time.Time `json:"created_at"`

	// Дополнительные поля для API
	Skill   *Skill       `json:"skill,omitempty"`
	Profile *UserSummary `json:"profile,omitempty"`
}

// SkillWant представляет навык, который пользователь хочет освоить
type SkillWant struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	SkillID     uuid.UUID `json:"skill_id"`
	Urgency     string    `json:"urgency"` // low, medium, high
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Дополнительные поля для API
	Skill *Skill `json:"skill,omitempty"`
}
