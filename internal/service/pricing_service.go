package service

import (
	"context"
	"time"

	"github.com/nvlasov/cottage-booking/internal/model"
	"go.uber.org/zap"
)

// PriceStay считает стоимость проживания: каждый день полуоткрытого
// интервала [checkIn, checkOut) классифицируется и увеличивает
// соответствующий счётчик. Сумма равна числу ночей. Пустой или
// отрицательный интервал стоит ноль. Чистая функция - детерминирована
// при фиксированном календаре
func PriceStay(checkIn, checkOut time.Time, days map[string]*model.CalendarDay) model.CostBreakdown {
	var cost model.CostBreakdown

	for day := checkIn; day.Before(checkOut); day = day.AddDate(0, 0, 1) {
		switch Classify(day, days[model.DayKey(day)]) {
		case model.DayClassWeekend:
			cost.WeekendCredits++
		default:
			cost.WeekdayCredits++
		}
	}

	return cost
}

// PricingService пересчитывает стоимость заявки. Стоимость всегда
// считается заново (не копируется) при создании и при каждом
// изменении дат или коттеджа
type PricingService struct {
	calendar *CalendarService
	logger   *zap.Logger
}

func NewPricingService(calendar *CalendarService, logger *zap.Logger) *PricingService {
	return &PricingService{
		calendar: calendar,
		logger:   logger,
	}
}

// Price считает стоимость интервала [checkIn, checkOut) по текущему
// состоянию системного календаря
func (s *PricingService) Price(ctx context.Context, checkIn, checkOut time.Time) (model.CostBreakdown, error) {
	if !checkOut.After(checkIn) {
		return model.CostBreakdown{}, nil
	}

	days, err := s.calendar.LoadRange(ctx, checkIn, checkOut)
	if err != nil {
		return model.CostBreakdown{}, err
	}

	return PriceStay(checkIn, checkOut, days), nil
}
