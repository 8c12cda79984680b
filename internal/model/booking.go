package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает решения администратора
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusRejected  BookingStatus = "rejected"  // Отклонено администратором
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено
)

// Booking бронирование коттеджа. Интервал полуоткрытый:
// занятые дни - [CheckIn, CheckOut), ночей = CheckOut - CheckIn.
type Booking struct {
	ID                 int64         `json:"id"`
	UserID             int64         `json:"user_id"`
	CottageID          int64         `json:"cottage_id"`
	CheckIn            time.Time     `json:"check_in"`
	CheckOut           time.Time     `json:"check_out"`
	Status             BookingStatus `json:"status"`
	WeekdayCreditsUsed int           `json:"weekday_credits_used"`
	WeekendCreditsUsed int           `json:"weekend_credits_used"`
	DecisionNotes      string        `json:"decision_notes"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Cottage *Cottage `json:"cottage,omitempty"`
	User    *User    `json:"user,omitempty"`
}

// Nights возвращает количество ночей в интервале [CheckIn, CheckOut)
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// TotalCredits возвращает суммарную стоимость бронирования в кредитах
func (b *Booking) TotalCredits() int {
	return b.WeekdayCreditsUsed + b.WeekendCreditsUsed
}

// IsActive проверяет занимает ли бронирование даты коттеджа
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// CoversDay проверяет занят ли день бронированием: CheckIn <= day < CheckOut
func (b *Booking) CoversDay(day time.Time) bool {
	return !day.Before(b.CheckIn) && day.Before(b.CheckOut)
}
