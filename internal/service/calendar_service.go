package service

import (
	"context"
	"time"

	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository"
	"go.uber.org/zap"
)

// Classify определяет тарифный класс дня. День тарифицируется как
// выходной, если это суббота или воскресенье, праздник или день
// высокого сезона; entry может быть nil - тогда решает только день
// недели. Чистая функция от справочных данных
func Classify(day time.Time, entry *model.CalendarDay) model.DayClass {
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		return model.DayClassWeekend
	}
	if entry != nil && (entry.IsHoliday || entry.IsPeakSeason) {
		return model.DayClassWeekend
	}
	return model.DayClassWeekday
}

// CalendarService доступ к системному календарю. Классификация
// всегда считается по текущему состоянию календаря: изменения,
// внесённые после создания заявки, не переоценивают уже
// сохранённую стоимость
type CalendarService struct {
	calendarRepo *repository.CalendarRepository
	logger       *zap.Logger
}

func NewCalendarService(calendarRepo *repository.CalendarRepository, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		calendarRepo: calendarRepo,
		logger:       logger,
	}
}

// LoadRange загружает записи календаря за полуоткрытый интервал [from, to)
// одним запросом; ключ - model.DayKey даты
func (s *CalendarService) LoadRange(ctx context.Context, from, to time.Time) (map[string]*model.CalendarDay, error) {
	return s.calendarRepo.GetRange(ctx, from, to)
}

// ClassifyDate определяет тарифный класс одной даты
func (s *CalendarService) ClassifyDate(ctx context.Context, day time.Time) (model.DayClass, error) {
	entry, err := s.calendarRepo.GetByDate(ctx, day)
	if err != nil {
		return "", err
	}
	return Classify(day, entry), nil
}
