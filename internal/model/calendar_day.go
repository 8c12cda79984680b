package model

import "time"

// DayClass тарифный класс дня: будни и выходные списываются
// из разных квот
type DayClass string

const (
	DayClassWeekday DayClass = "weekday"
	DayClassWeekend DayClass = "weekend"
)

// CalendarDay запись системного календаря. Справочные данные,
// поддерживаются администратором
type CalendarDay struct {
	ID           int64     `json:"id"`
	Date         time.Time `json:"date"`
	IsHoliday    bool      `json:"is_holiday"`
	IsPeakSeason bool      `json:"is_peak_season"`
	HolidayName  string    `json:"holiday_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// PeakSeason именованный период высокого сезона. При создании и
// изменении дни периода материализуются в системный календарь
type PeakSeason struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// DayKey нормализует дату в ключ вида "2006-01-02" для
// поиска по предзагруженному календарю
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
