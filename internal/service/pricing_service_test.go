package service

import (
	"testing"

	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/stretchr/testify/assert"
)

func calendarWith(days ...*model.CalendarDay) map[string]*model.CalendarDay {
	m := make(map[string]*model.CalendarDay, len(days))
	for _, d := range days {
		m[model.DayKey(d.Date)] = d
	}
	return m
}

func TestPriceStay(t *testing.T) {
	tests := []struct {
		name        string
		checkIn     string
		checkOut    string
		days        map[string]*model.CalendarDay
		wantWeekday int
		wantWeekend int
	}{
		{
			// Mon 2025-06-02 .. Thu 2025-06-05: three weekday nights
			name:        "weekday stay",
			checkIn:     "2025-06-02",
			checkOut:    "2025-06-05",
			wantWeekday: 3,
			wantWeekend: 0,
		},
		{
			// Same stay, but Monday is a holiday and prices as weekend
			name:     "holiday reprices a weekday night",
			checkIn:  "2025-06-02",
			checkOut: "2025-06-05",
			days: calendarWith(&model.CalendarDay{
				Date:      date("2025-06-02"),
				IsHoliday: true,
			}),
			wantWeekday: 2,
			wantWeekend: 1,
		},
		{
			// Fri 2025-06-06 .. Mon 2025-06-09: Fri is weekday, Sat and Sun are weekend
			name:        "weekend stay",
			checkIn:     "2025-06-06",
			checkOut:    "2025-06-09",
			wantWeekday: 1,
			wantWeekend: 2,
		},
		{
			// Check-out day itself is never charged
			name:        "single night ending on saturday",
			checkIn:     "2025-06-06",
			checkOut:    "2025-06-07",
			wantWeekday: 1,
			wantWeekend: 0,
		},
		{
			name:     "peak season charges weekend rate all week",
			checkIn:  "2025-07-14",
			checkOut: "2025-07-16",
			days: calendarWith(
				&model.CalendarDay{Date: date("2025-07-14"), IsPeakSeason: true},
				&model.CalendarDay{Date: date("2025-07-15"), IsPeakSeason: true},
			),
			wantWeekday: 0,
			wantWeekend: 2,
		},
		{
			name:        "empty range costs nothing",
			checkIn:     "2025-06-05",
			checkOut:    "2025-06-05",
			wantWeekday: 0,
			wantWeekend: 0,
		},
		{
			name:        "inverted range costs nothing",
			checkIn:     "2025-06-05",
			checkOut:    "2025-06-02",
			wantWeekday: 0,
			wantWeekend: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := PriceStay(date(tt.checkIn), date(tt.checkOut), tt.days)
			assert.Equal(t, tt.wantWeekday, cost.WeekdayCredits, "weekday credits")
			assert.Equal(t, tt.wantWeekend, cost.WeekendCredits, "weekend credits")
			assert.Equal(t, tt.wantWeekday+tt.wantWeekend, cost.Total())
		})
	}
}
