package submit_booking

import "github.com/m04kA/strike-booking/internal/domain"

// Validate проверяет снимок черновика. Правила применяются в фиксированном порядке,
// проверка останавливается на первом нарушенном правиле.
// Возвращает nil или *domain.ValidationError. Поле Error черновика не учитывается.
func Validate(d domain.BookingDraft) error {
	// 1. Обязательные поля (ноль и отрицательные значения считаются незаполненными)
	if d.Date == "" || d.Lanes < domain.MinLanes || d.Time == "" || d.People < domain.MinPeople {
		return &domain.ValidationError{Rule: domain.RuleRequiredFields, Message: domain.MsgFieldsRequired}
	}

	// 2. Количество обуви совпадает с количеством игроков
	if d.People != d.Shoes.Count() {
		return &domain.ValidationError{Rule: domain.RuleShoeCount, Message: domain.MsgShoeCountMismatch}
	}

	// 3. Все размеры заполнены
	if !d.Shoes.AllSizesFilled() {
		return &domain.ValidationError{Rule: domain.RuleShoeSizes, Message: domain.MsgShoeSizesRequired}
	}

	// 4. Не больше MaxPlayersPerLane игроков на дорожку.
	// Сравнение без умножения: lanes приходит от пользователя и может быть сколь угодно большим.
	if d.Lanes < lanesRequired(d.People) {
		return &domain.ValidationError{Rule: domain.RuleLaneCapacity, Message: domain.MsgTooManyPlayersPerLane}
	}

	return nil
}

// lanesRequired минимальное число дорожек для people игроков
func lanesRequired(people int) int {
	return people/domain.MaxPlayersPerLane + min(people%domain.MaxPlayersPerLane, 1)
}
