package service

import (
	"context"
	"time"

	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository"
	"go.uber.org/zap"
)

// DayState состояние дня коттеджа
type DayState string

const (
	DayAvailable   DayState = "available"
	DayBooked      DayState = "booked"
	DayMaintenance DayState = "maintenance"
)

// FirstConflict ищет первый занятый день полуоткрытого интервала
// [checkIn, checkOut). День занят, если его покрывает активное
// бронирование (полуоткрытый интервал, excludeID исключает
// редактируемую заявку) или блок обслуживания (закрытый интервал).
// Чистая функция над предзагруженными данными
func FirstConflict(checkIn, checkOut time.Time, bookings []*model.Booking, blocks []*model.MaintenanceBlock, excludeID int64) (time.Time, DayState, bool) {
	for day := checkIn; day.Before(checkOut); day = day.AddDate(0, 0, 1) {
		for _, b := range bookings {
			if b.ID == excludeID || !b.IsActive() {
				continue
			}
			if b.CoversDay(day) {
				return day, DayBooked, true
			}
		}
		for _, block := range blocks {
			if block.Covers(day) {
				return day, DayMaintenance, true
			}
		}
	}

	return time.Time{}, DayAvailable, false
}

// DayAvailability состояние и тариф одного дня для календаря владельца
type DayAvailability struct {
	Date          time.Time `json:"date"`
	IsAvailable   bool      `json:"is_available"`
	IsBooked      bool      `json:"is_booked"`
	IsMaintenance bool      `json:"is_maintenance"`
	IsHoliday     bool      `json:"is_holiday"`
	IsPeakSeason  bool      `json:"is_peak_season"`
	CostWeekday   bool      `json:"cost_weekday"`
}

// AvailabilityService читает занятость коттеджей для календарей и
// проверок. Проверка перед записью выполняется внутри транзакции
// бронирования по тем же предикатам (FirstConflict)
type AvailabilityService struct {
	bookingRepo     *repository.BookingRepository
	maintenanceRepo *repository.MaintenanceRepository
	calendarRepo    *repository.CalendarRepository
	logger          *zap.Logger
}

func NewAvailabilityService(
	bookingRepo *repository.BookingRepository,
	maintenanceRepo *repository.MaintenanceRepository,
	calendarRepo *repository.CalendarRepository,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		bookingRepo:     bookingRepo,
		maintenanceRepo: maintenanceRepo,
		calendarRepo:    calendarRepo,
		logger:          logger,
	}
}

// IsAvailable проверяет свободен ли каждый день интервала [checkIn, checkOut).
// Пустой интервал свободен тривиально
func (s *AvailabilityService) IsAvailable(ctx context.Context, cottageID int64, checkIn, checkOut time.Time, excludeBookingID int64) (bool, error) {
	if !checkOut.After(checkIn) {
		return true, nil
	}

	bookings, err := s.bookingRepo.ListActiveOverlapping(ctx, cottageID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return false, err
	}
	blocks, err := s.maintenanceRepo.ListOverlapping(ctx, cottageID, checkIn, checkOut)
	if err != nil {
		return false, err
	}

	_, _, conflict := FirstConflict(checkIn, checkOut, bookings, blocks, excludeBookingID)
	return !conflict, nil
}

// Calendar строит посуточный календарь коттеджа за закрытый интервал
// [from, to] с занятостью и тарифным классом каждого дня
func (s *AvailabilityService) Calendar(ctx context.Context, cottageID int64, from, to time.Time) ([]DayAvailability, error) {
	end := to.AddDate(0, 0, 1) // включительно

	bookings, err := s.bookingRepo.ListActiveOverlapping(ctx, cottageID, from, end, 0)
	if err != nil {
		return nil, err
	}
	blocks, err := s.maintenanceRepo.ListOverlapping(ctx, cottageID, from, end)
	if err != nil {
		return nil, err
	}
	calendarDays, err := s.calendarRepo.GetRange(ctx, from, end)
	if err != nil {
		return nil, err
	}

	var days []DayAvailability
	for day := from; day.Before(end); day = day.AddDate(0, 0, 1) {
		status := dayStatus(day, bookings, blocks)
		entry := calendarDays[model.DayKey(day)]

		d := DayAvailability{
			Date:          day,
			IsAvailable:   status == DayAvailable,
			IsBooked:      status == DayBooked,
			IsMaintenance: status == DayMaintenance,
			CostWeekday:   Classify(day, entry) == model.DayClassWeekday,
		}
		if entry != nil {
			d.IsHoliday = entry.IsHoliday
			d.IsPeakSeason = entry.IsPeakSeason
		}
		days = append(days, d)
	}

	return days, nil
}

// dayStatus определяет состояние одного дня; обслуживание имеет
// приоритет над бронированием
func dayStatus(day time.Time, bookings []*model.Booking, blocks []*model.MaintenanceBlock) DayState {
	for _, block := range blocks {
		if block.Covers(day) {
			return DayMaintenance
		}
	}
	for _, b := range bookings {
		if b.IsActive() && b.CoversDay(day) {
			return DayBooked
		}
	}
	return DayAvailable
}

// DayStatus определяет состояние одного дня коттеджа
func (s *AvailabilityService) DayStatus(ctx context.Context, cottageID int64, day time.Time) (DayState, error) {
	next := day.AddDate(0, 0, 1)

	bookings, err := s.bookingRepo.ListActiveOverlapping(ctx, cottageID, day, next, 0)
	if err != nil {
		return "", err
	}
	blocks, err := s.maintenanceRepo.ListOverlapping(ctx, cottageID, day, next)
	if err != nil {
		return "", err
	}

	return dayStatus(day, bookings, blocks), nil
}
