package service

import (
	"testing"
	"time"

	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		day   string
		entry *model.CalendarDay
		want  model.DayClass
	}{
		{name: "monday without entry", day: "2025-06-02", want: model.DayClassWeekday},
		{name: "friday without entry", day: "2025-06-06", want: model.DayClassWeekday},
		{name: "saturday", day: "2025-06-07", want: model.DayClassWeekend},
		{name: "sunday", day: "2025-06-08", want: model.DayClassWeekend},
		{
			name:  "holiday on monday",
			day:   "2025-06-02",
			entry: &model.CalendarDay{IsHoliday: true, HolidayName: "Founders Day"},
			want:  model.DayClassWeekend,
		},
		{
			name:  "peak season weekday",
			day:   "2025-07-15",
			entry: &model.CalendarDay{IsPeakSeason: true},
			want:  model.DayClassWeekend,
		},
		{
			name:  "calendar entry without flags",
			day:   "2025-06-03",
			entry: &model.CalendarDay{},
			want:  model.DayClassWeekday,
		},
		{
			name:  "holiday on saturday stays weekend",
			day:   "2025-06-07",
			entry: &model.CalendarDay{IsHoliday: true},
			want:  model.DayClassWeekend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(date(tt.day), tt.entry))
		})
	}
}
