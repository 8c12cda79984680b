package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository/base"
)

type CalendarRepository struct {
	db base.Querier
}

func NewCalendarRepository(pool *pgxpool.Pool) *CalendarRepository {
	return &CalendarRepository{db: pool}
}

// WithTx возвращает копию репозитория, привязанную к транзакции
func (r *CalendarRepository) WithTx(tx pgx.Tx) *CalendarRepository {
	return &CalendarRepository{db: tx}
}

func scanCalendarDay(row pgx.Row) (*model.CalendarDay, error) {
	var day model.CalendarDay
	err := row.Scan(
		&day.ID,
		&day.Date,
		&day.IsHoliday,
		&day.IsPeakSeason,
		&day.HolidayName,
		&day.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// GetByDate получает запись календаря на дату
func (r *CalendarRepository) GetByDate(ctx context.Context, date time.Time) (*model.CalendarDay, error) {
	query := `
		SELECT id, date, is_holiday, is_peak_season, holiday_name, created_at
		FROM system_calendars
		WHERE date = $1
	`

	day, err := scanCalendarDay(r.db.QueryRow(ctx, query, date))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get calendar day: %w", err)
	}

	return day, nil
}

// GetRange получает записи календаря за полуоткрытый интервал [from, to),
// ключ результата - model.DayKey даты
func (r *CalendarRepository) GetRange(ctx context.Context, from, to time.Time) (map[string]*model.CalendarDay, error) {
	query := `
		SELECT id, date, is_holiday, is_peak_season, holiday_name, created_at
		FROM system_calendars
		WHERE date >= $1 AND date < $2
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get calendar range: %w", err)
	}
	defer rows.Close()

	days := make(map[string]*model.CalendarDay)
	for rows.Next() {
		day, err := scanCalendarDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar day: %w", err)
		}
		days[model.DayKey(day.Date)] = day
	}

	return days, rows.Err()
}

// Upsert создаёт или обновляет запись календаря по дате
func (r *CalendarRepository) Upsert(ctx context.Context, day *model.CalendarDay) error {
	query := `
		INSERT INTO system_calendars (date, is_holiday, is_peak_season, holiday_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date) DO UPDATE
		SET is_holiday = EXCLUDED.is_holiday,
			is_peak_season = EXCLUDED.is_peak_season,
			holiday_name = EXCLUDED.holiday_name
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		day.Date,
		day.IsHoliday,
		day.IsPeakSeason,
		day.HolidayName,
	).Scan(&day.ID, &day.CreatedAt)

	if err != nil {
		return fmt.Errorf("upsert calendar day: %w", err)
	}

	return nil
}

// DeleteByDate удаляет запись календаря на дату
func (r *CalendarRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	query := `DELETE FROM system_calendars WHERE date = $1`

	tag, err := r.db.Exec(ctx, query, date)
	if err != nil {
		return fmt.Errorf("delete calendar day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("calendar day not found")
	}

	return nil
}

// ListHolidays получает все праздничные дни по порядку дат
func (r *CalendarRepository) ListHolidays(ctx context.Context) ([]*model.CalendarDay, error) {
	query := `
		SELECT id, date, is_holiday, is_peak_season, holiday_name, created_at
		FROM system_calendars
		WHERE is_holiday = true
		ORDER BY date
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	defer rows.Close()

	var days []*model.CalendarDay
	for rows.Next() {
		day, err := scanCalendarDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar day: %w", err)
		}
		days = append(days, day)
	}

	return days, rows.Err()
}
