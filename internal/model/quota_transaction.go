package model

import "time"

type TransactionType string

const (
	TransactionTypeActivation TransactionType = "activation"        // Начальная квота при активации
	TransactionTypeBooking    TransactionType = "booking"           // Списание в эскроу при создании заявки
	TransactionTypeRefund     TransactionType = "refund"            // Возврат кредитов
	TransactionTypeReset      TransactionType = "reset"             // Годовой сброс баланса до квоты
	TransactionTypeAdjustment TransactionType = "manual_adjustment" // Ручная корректировка администратором
)

// QuotaTransaction запись журнала квот. Журнал append-only:
// записи никогда не изменяются и не удаляются, исправления
// делаются встречными записями
type QuotaTransaction struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Type            TransactionType `json:"transaction_type"`
	WeekdayChange   int             `json:"weekday_change"`
	WeekendChange   int             `json:"weekend_change"`
	BookingID       *int64          `json:"booking_id"` // указатель - не у всех операций есть бронирование
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CostBreakdown стоимость проживания с разбивкой по классам дней
type CostBreakdown struct {
	WeekdayCredits int `json:"weekday_credits"`
	WeekendCredits int `json:"weekend_credits"`
}

// Total возвращает суммарную стоимость, равную числу ночей
func (c CostBreakdown) Total() int {
	return c.WeekdayCredits + c.WeekendCredits
}
