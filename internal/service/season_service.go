package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nvlasov/cottage-booking/internal/apperr"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository"
	"go.uber.org/zap"
)

// SeasonService ведёт справочные данные тарификации: праздники и
// периоды высокого сезона. Периоды материализуются в посуточные
// записи системного календаря, по которым работает классификатор
type SeasonService struct {
	calendarRepo *repository.CalendarRepository
	seasonRepo   *repository.PeakSeasonRepository
	logger       *zap.Logger
}

func NewSeasonService(
	calendarRepo *repository.CalendarRepository,
	seasonRepo *repository.PeakSeasonRepository,
	logger *zap.Logger,
) *SeasonService {
	return &SeasonService{
		calendarRepo: calendarRepo,
		seasonRepo:   seasonRepo,
		logger:       logger,
	}
}

// SetHoliday отмечает день праздником. Существующая запись календаря
// дополняется, флаг высокого сезона не сбрасывается
func (s *SeasonService) SetHoliday(ctx context.Context, date time.Time, name string) (*model.CalendarDay, error) {
	day, err := s.calendarRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		day = &model.CalendarDay{Date: date}
	}

	day.IsHoliday = true
	day.HolidayName = name
	if err := s.calendarRepo.Upsert(ctx, day); err != nil {
		return nil, fmt.Errorf("upsert calendar day: %w", err)
	}

	s.logger.Info("Holiday set",
		zap.String("date", model.DayKey(date)),
		zap.String("name", name),
	)
	return day, nil
}

// RemoveHoliday снимает отметку праздника. Запись календаря
// удаляется, только если день не входит в высокий сезон
func (s *SeasonService) RemoveHoliday(ctx context.Context, date time.Time) error {
	day, err := s.calendarRepo.GetByDate(ctx, date)
	if err != nil {
		return err
	}
	if day == nil || !day.IsHoliday {
		return apperr.NotFound("holiday")
	}

	if day.IsPeakSeason {
		day.IsHoliday = false
		day.HolidayName = ""
		if err := s.calendarRepo.Upsert(ctx, day); err != nil {
			return fmt.Errorf("upsert calendar day: %w", err)
		}
	} else {
		if err := s.calendarRepo.DeleteByDate(ctx, date); err != nil {
			return fmt.Errorf("delete calendar day: %w", err)
		}
	}

	s.logger.Info("Holiday removed", zap.String("date", model.DayKey(date)))
	return nil
}

// ListHolidays возвращает все дни, отмеченные праздниками
func (s *SeasonService) ListHolidays(ctx context.Context) ([]*model.CalendarDay, error) {
	return s.calendarRepo.ListHolidays(ctx)
}

// materializeSeason проставляет флаг высокого сезона каждому дню
// закрытого интервала [start, end], сохраняя праздничные отметки
func (s *SeasonService) materializeSeason(ctx context.Context, start, end time.Time, isPeak bool) error {
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		entry, err := s.calendarRepo.GetByDate(ctx, day)
		if err != nil {
			return err
		}

		switch {
		case entry == nil && isPeak:
			entry = &model.CalendarDay{Date: day, IsPeakSeason: true}
			if err := s.calendarRepo.Upsert(ctx, entry); err != nil {
				return fmt.Errorf("upsert calendar day %s: %w", model.DayKey(day), err)
			}
		case entry == nil:
			// снимать нечего
		case !isPeak && !entry.IsHoliday:
			if err := s.calendarRepo.DeleteByDate(ctx, day); err != nil {
				return fmt.Errorf("delete calendar day %s: %w", model.DayKey(day), err)
			}
		default:
			entry.IsPeakSeason = isPeak
			if err := s.calendarRepo.Upsert(ctx, entry); err != nil {
				return fmt.Errorf("upsert calendar day %s: %w", model.DayKey(day), err)
			}
		}
	}
	return nil
}

// CreateSeason создаёт период высокого сезона и материализует его
// дни в системный календарь
func (s *SeasonService) CreateSeason(ctx context.Context, name string, start, end time.Time) (*model.PeakSeason, error) {
	if end.Before(start) {
		return nil, apperr.InvalidRange("end_date must not be before start_date")
	}

	season := &model.PeakSeason{Name: name, StartDate: start, EndDate: end}
	if err := s.seasonRepo.Create(ctx, season); err != nil {
		return nil, fmt.Errorf("create peak season: %w", err)
	}

	if err := s.materializeSeason(ctx, start, end, true); err != nil {
		return nil, err
	}

	s.logger.Info("Peak season created",
		zap.Int64("season_id", season.ID),
		zap.String("name", name),
		zap.String("start", model.DayKey(start)),
		zap.String("end", model.DayKey(end)),
	)
	return season, nil
}

// UpdateSeason меняет границы периода: флаги старого интервала
// снимаются, нового - проставляются
func (s *SeasonService) UpdateSeason(ctx context.Context, seasonID int64, name string, start, end time.Time) (*model.PeakSeason, error) {
	if end.Before(start) {
		return nil, apperr.InvalidRange("end_date must not be before start_date")
	}

	season, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, apperr.NotFound("peak season")
	}

	if err := s.materializeSeason(ctx, season.StartDate, season.EndDate, false); err != nil {
		return nil, err
	}

	season.Name = name
	season.StartDate = start
	season.EndDate = end
	if err := s.seasonRepo.Update(ctx, season); err != nil {
		return nil, fmt.Errorf("update peak season: %w", err)
	}

	if err := s.materializeSeason(ctx, start, end, true); err != nil {
		return nil, err
	}

	s.logger.Info("Peak season updated", zap.Int64("season_id", seasonID))
	return season, nil
}

// DeleteSeason удаляет период и снимает флаги его дней
func (s *SeasonService) DeleteSeason(ctx context.Context, seasonID int64) error {
	season, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return err
	}
	if season == nil {
		return apperr.NotFound("peak season")
	}

	if err := s.materializeSeason(ctx, season.StartDate, season.EndDate, false); err != nil {
		return err
	}

	if err := s.seasonRepo.Delete(ctx, seasonID); err != nil {
		return fmt.Errorf("delete peak season: %w", err)
	}

	s.logger.Info("Peak season deleted", zap.Int64("season_id", seasonID))
	return nil
}

// ListSeasons возвращает все периоды высокого сезона
func (s *SeasonService) ListSeasons(ctx context.Context) ([]*model.PeakSeason, error) {
	return s.seasonRepo.List(ctx)
}
