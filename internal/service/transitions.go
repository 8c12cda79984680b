package service

import (
	"fmt"

	"github.com/nvlasov/cottage-booking/internal/apperr"
	"github.com/nvlasov/cottage-booking/internal/model"
)

// Action действие над бронированием
type Action string

const (
	ActionApprove Action = "approve" // администратор подтверждает заявку
	ActionReject  Action = "reject"  // администратор отклоняет заявку
	ActionCancel  Action = "cancel"  // владелец отменяет своё бронирование
	ActionRevoke  Action = "revoke"  // администратор аннулирует бронирование
)

// transitions таблица допустимых переходов статус × действие.
// Все правила машины состояний собраны здесь, а не размазаны
// по обработчикам. REJECTED и CANCELLED терминальны для владельца;
// аннулирование администратором допустимо из любого статуса,
// кроме CANCELLED
var transitions = map[model.BookingStatus]map[Action]model.BookingStatus{
	model.BookingStatusPending: {
		ActionApprove: model.BookingStatusConfirmed,
		ActionReject:  model.BookingStatusRejected,
		ActionCancel:  model.BookingStatusCancelled,
		ActionRevoke:  model.BookingStatusCancelled,
	},
	model.BookingStatusConfirmed: {
		ActionCancel: model.BookingStatusCancelled,
		ActionRevoke: model.BookingStatusCancelled,
	},
	model.BookingStatusRejected: {
		ActionRevoke: model.BookingStatusCancelled,
	},
	model.BookingStatusCancelled: {},
}

// NextStatus возвращает статус после применения действия или ошибку,
// если переход недопустим. Повторное аннулирование или отмена уже
// отменённого бронирования всегда даёт AlreadyCancelled - возврат
// кредитов не задваивается
func NextStatus(current model.BookingStatus, action Action) (model.BookingStatus, error) {
	if next, ok := transitions[current][action]; ok {
		return next, nil
	}
	if current == model.BookingStatusCancelled {
		return "", apperr.AlreadyCancelled()
	}
	return "", apperr.InvalidTransition(
		fmt.Sprintf("cannot %s booking in status %q", action, current))
}
