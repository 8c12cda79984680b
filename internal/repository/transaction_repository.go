package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository/base"
)

// TransactionRepository журнал квот. Записи добавляются и читаются,
// но не удаляются; единственное исключение из append-only -
// пересчёт эскроу-записи при редактировании pending заявки
type TransactionRepository struct {
	db base.Querier
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: pool}
}

// WithTx возвращает копию репозитория, привязанную к транзакции
func (r *TransactionRepository) WithTx(tx pgx.Tx) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

// Create добавляет запись в журнал квот
func (r *TransactionRepository) Create(ctx context.Context, t *model.QuotaTransaction) error {
	query := `
		INSERT INTO quota_transactions (user_id, transaction_type, weekday_change, weekend_change, booking_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		t.UserID,
		t.Type,
		t.WeekdayChange,
		t.WeekendChange,
		t.BookingID,
		t.Description,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return fmt.Errorf("create quota transaction: %w", err)
	}

	return nil
}

// UpdateEscrowForBooking пересчитывает эскроу-запись бронирования
// после редактирования заявки владельцем
func (r *TransactionRepository) UpdateEscrowForBooking(ctx context.Context, bookingID int64, weekdayChange, weekendChange int, description string) error {
	query := `
		UPDATE quota_transactions
		SET weekday_change = $1, weekend_change = $2, description = $3
		WHERE booking_id = $4 AND transaction_type = $5
	`

	_, err := r.db.Exec(ctx, query, weekdayChange, weekendChange, description, bookingID, model.TransactionTypeBooking)
	if err != nil {
		return fmt.Errorf("update escrow transaction: %w", err)
	}

	return nil
}

// ListByUser получает журнал пользователя, новые записи первыми
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64) ([]*model.QuotaTransaction, error) {
	query := `
		SELECT id, user_id, transaction_type, weekday_change, weekend_change, booking_id, description, created_at
		FROM quota_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	return r.queryTransactions(ctx, query, userID)
}

// ListByType получает записи журнала одного типа, новые первыми
func (r *TransactionRepository) ListByType(ctx context.Context, txType model.TransactionType) ([]*model.QuotaTransaction, error) {
	query := `
		SELECT id, user_id, transaction_type, weekday_change, weekend_change, booking_id, description, created_at
		FROM quota_transactions
		WHERE transaction_type = $1
		ORDER BY created_at DESC
	`

	return r.queryTransactions(ctx, query, txType)
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*model.QuotaTransaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quota transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*model.QuotaTransaction
	for rows.Next() {
		var t model.QuotaTransaction
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Type,
			&t.WeekdayChange,
			&t.WeekendChange,
			&t.BookingID,
			&t.Description,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quota transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}
