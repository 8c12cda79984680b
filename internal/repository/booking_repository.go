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

type BookingRepository struct {
	db base.Querier
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: pool}
}

// WithTx возвращает копию репозитория, привязанную к транзакции
func (r *BookingRepository) WithTx(tx pgx.Tx) *BookingRepository {
	return &BookingRepository{db: tx}
}

const bookingColumns = `id, user_id, cottage_id, check_in, check_out, status,
		weekday_credits_used, weekend_credits_used, decision_notes, created_at, updated_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CottageID,
		&booking.CheckIn,
		&booking.CheckOut,
		&booking.Status,
		&booking.WeekdayCreditsUsed,
		&booking.WeekendCreditsUsed,
		&booking.DecisionNotes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*model.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (user_id, cottage_id, check_in, check_out, status,
			weekday_credits_used, weekend_credits_used, decision_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		booking.UserID,
		booking.CottageID,
		booking.CheckIn,
		booking.CheckOut,
		booking.Status,
		booking.WeekdayCreditsUsed,
		booking.WeekendCreditsUsed,
		booking.DecisionNotes,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// GetByIDForUpdate получает бронирование с блокировкой строки до
// конца транзакции, чтобы два конкурентных решения не применились
// к одному бронированию
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking for update: %w", err)
	}

	return booking, nil
}

// ListByUser получает все бронирования пользователя
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE user_id = $1
		ORDER BY check_in DESC`

	bookings, err := r.queryBookings(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", err)
	}
	return bookings, nil
}

// ListPending получает все бронирования в ожидании решения
// в порядке поступления
func (r *BookingRepository) ListPending(ctx context.Context) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status = $1
		ORDER BY created_at ASC`

	bookings, err := r.queryBookings(ctx, query, model.BookingStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending bookings: %w", err)
	}
	return bookings, nil
}

// ListActiveOverlapping получает активные (pending/confirmed) бронирования
// коттеджа, пересекающие полуоткрытый интервал [from, to).
// excludeID исключает редактируемое бронирование; 0 - ничего не исключать
func (r *BookingRepository) ListActiveOverlapping(ctx context.Context, cottageID int64, from, to time.Time, excludeID int64) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE cottage_id = $1
			AND status IN ($2, $3)
			AND check_in < $4 AND check_out > $5
			AND id <> $6
		ORDER BY check_in`

	bookings, err := r.queryBookings(ctx, query,
		cottageID, model.BookingStatusPending, model.BookingStatusConfirmed, to, from, excludeID)
	if err != nil {
		return nil, fmt.Errorf("list overlapping bookings: %w", err)
	}
	return bookings, nil
}

// ListPendingOverlappingClosed получает pending бронирования коттеджа,
// пересекающие закрытый интервал [start, end] по правилу
// check_in <= end AND check_out >= start. Используется автоотклонением
// при создании блока обслуживания
func (r *BookingRepository) ListPendingOverlappingClosed(ctx context.Context, cottageID int64, start, end time.Time) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE cottage_id = $1
			AND status = $2
			AND check_in <= $3 AND check_out >= $4
		ORDER BY check_in`

	bookings, err := r.queryBookings(ctx, query, cottageID, model.BookingStatusPending, end, start)
	if err != nil {
		return nil, fmt.Errorf("list pending overlapping bookings: %w", err)
	}
	return bookings, nil
}

// SumPendingCredits суммирует кредиты, зарезервированные в остальных
// pending бронированиях пользователя. excludeID исключает редактируемое
// бронирование; 0 - ничего не исключать
func (r *BookingRepository) SumPendingCredits(ctx context.Context, userID, excludeID int64) (weekday, weekend int, err error) {
	query := `
		SELECT COALESCE(SUM(weekday_credits_used), 0), COALESCE(SUM(weekend_credits_used), 0)
		FROM bookings
		WHERE user_id = $1 AND status = $2 AND id <> $3
	`

	err = r.db.QueryRow(ctx, query, userID, model.BookingStatusPending, excludeID).Scan(&weekday, &weekend)
	if err != nil {
		return 0, 0, fmt.Errorf("sum pending credits: %w", err)
	}

	return weekday, weekend, nil
}

// UpdateStatus обновляет статус бронирования и заметки решения
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus, notes string) error {
	query := `
		UPDATE bookings
		SET status = $1, decision_notes = $2, updated_at = now()
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, status, notes, id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// UpdateStay записывает новые даты, коттедж и стоимость после
// редактирования заявки
func (r *BookingRepository) UpdateStay(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET cottage_id = $1, check_in = $2, check_out = $3,
			weekday_credits_used = $4, weekend_credits_used = $5, updated_at = now()
		WHERE id = $6
	`

	tag, err := r.db.Exec(ctx, query,
		booking.CottageID,
		booking.CheckIn,
		booking.CheckOut,
		booking.WeekdayCreditsUsed,
		booking.WeekendCreditsUsed,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("update booking stay: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// Delete удаляет бронирование
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM bookings WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}
