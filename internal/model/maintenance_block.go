package model

import "time"

// MaintenanceBlock закрывает коттедж на обслуживание.
// Интервал блока закрытый с обеих сторон: [StartDate, EndDate],
// в отличие от бронирований, где интервал полуоткрытый.
type MaintenanceBlock struct {
	ID        int64     `json:"id"`
	CottageID int64     `json:"cottage_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Covers проверяет попадает ли день в интервал блока
func (b *MaintenanceBlock) Covers(day time.Time) bool {
	return !day.Before(b.StartDate) && !day.After(b.EndDate)
}
