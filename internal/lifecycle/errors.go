package lifecycle

import "errors"

// Доменные ошибки жизненного цикла обмена. Все они детерминированы по
// входным данным: повторять запрос без изменений бессмысленно. Ошибки
// хранилища сюда не входят и оборачиваются отдельно.
var (
	// ErrInvalidParties — инициатор и исполнитель совпадают, либо стороны
	// оценки не являются сторонами обмена
	ErrInvalidParties = errors.New("invalid parties")

	// ErrInvalidSkillOwnership — навык не принадлежит нужной стороне обмена
	ErrInvalidSkillOwnership = errors.New("invalid skill ownership")

	// ErrForbidden — действие выполняет не та сторона
	ErrForbidden = errors.New("forbidden for this actor")

	// ErrInvalidTransition — недопустимая смена статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidSwapState — оценка по незавершенному обмену
	ErrInvalidSwapState = errors.New("swap is not completed")

	// ErrDuplicateRating — повторная оценка той же стороной того же обмена
	ErrDuplicateRating = errors.New("duplicate rating")

	// ErrInvalidRatingValue — оценка вне диапазона 1..5
	ErrInvalidRatingValue = errors.New("rating value out of range")
)
