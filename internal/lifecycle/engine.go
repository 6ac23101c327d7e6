// Package lifecycle содержит правила жизненного цикла обмена навыками:
// создание предложения, переходы статусов и условия выставления оценок.
// Пакет не обращается к базе данных — все функции чистые, запись результата
// выполняют сервисы поверх условных запросов хранилища.
package lifecycle

import (
	"time"

	"github.com/google/uuid"
	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// Action представляет действие одной из сторон над предложением обмена
type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// NewRequest создает новое предложение обмена в статусе pending.
//
// ownerOfRequested и ownerOfOffered — владельцы соответствующих навыков,
// уже прочитанные сервисом из каталога предложений: запрошенный навык должен
// принадлежать исполнителю, встречный — инициатору.
func NewRequest(requesterID, providerID, requestedSkillID, offeredSkillID,
	ownerOfRequested, ownerOfOffered uuid.UUID, message string) (models.SwapRequest, error) {

	if requesterID == providerID {
		return models.SwapRequest{}, ErrInvalidParties
	}
	if ownerOfRequested != providerID || ownerOfOffered != requesterID {
		return models.SwapRequest{}, ErrInvalidSkillOwnership
	}

	now := time.Now()
	return models.SwapRequest{
		ID:               uuid.New(),
		RequesterID:      requesterID,
		ProviderID:       providerID,
		RequestedSkillID: requestedSkillID,
		OfferedSkillID:   offeredSkillID,
		Status:           models.StatusPending,
		Message:          message,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Transition проверяет допустимость действия actorID над предложением и
// возвращает целевой статус. Сами поля предложения не меняются — сервис
// обязан записать новый статус условным UPDATE по ожидаемому старому.
//
// Граф переходов: pending → accepted | rejected | cancelled,
// accepted → completed. Конечные статусы переходов не имеют.
func Transition(req *models.SwapRequest, actorID uuid.UUID, action Action) (models.SwapStatus, error) {
	// Конечный статус закрыт для любых действий любой стороны
	if req.Status.Terminal() {
		return "", ErrInvalidTransition
	}

	switch action {
	case ActionAccept, ActionReject:
		if req.Status != models.StatusPending {
			return "", ErrInvalidTransition
		}
		if actorID != req.ProviderID {
			return "", ErrForbidden
		}
		if action == ActionAccept {
			return models.StatusAccepted, nil
		}
		return models.StatusRejected, nil

	case ActionCancel:
		if req.Status != models.StatusPending {
			return "", ErrInvalidTransition
		}
		if actorID != req.RequesterID {
			return "", ErrForbidden
		}
		return models.StatusCancelled, nil

	case ActionComplete:
		if req.Status != models.StatusAccepted {
			return "", ErrInvalidTransition
		}
		if !req.Involves(actorID) {
			return "", ErrForbidden
		}
		return models.StatusCompleted, nil
	}

	return "", ErrInvalidTransition
}

// ActionForStatus сопоставляет целевой статус из запроса клиента действию
// движка. Второй результат false для статусов, недостижимых действием сторон.
func ActionForStatus(status models.SwapStatus) (Action, bool) {
	switch status {
	case models.StatusAccepted:
		return ActionAccept, true
	case models.StatusRejected:
		return ActionReject, true
	case models.StatusCancelled:
		return ActionCancel, true
	case models.StatusCompleted:
		return ActionComplete, true
	}
	return "", false
}
