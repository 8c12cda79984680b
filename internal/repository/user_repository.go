package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository/base"
)

type UserRepository struct {
	db base.Querier
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

// WithTx возвращает копию репозитория, привязанную к транзакции
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

const userColumns = `id, email, name, phone, role, status, property_id,
		weekday_quota, weekend_quota, weekday_balance, weekend_balance, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Phone,
		&user.Role,
		&user.Status,
		&user.PropertyID,
		&user.WeekdayQuota,
		&user.WeekendQuota,
		&user.WeekdayBalance,
		&user.WeekendBalance,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetByIDForUpdate получает пользователя с блокировкой строки до конца
// транзакции. Все изменения баланса проходят через эту блокировку,
// чтобы две конкурентные операции не прочитали один и тот же остаток
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	return user, nil
}

// ListActiveOwners получает всех активных владельцев
func (r *UserRepository) ListActiveOwners(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE status = $1 AND role = $2
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, model.UserStatusActive, model.UserRoleOwner)
	if err != nil {
		return nil, fmt.Errorf("list active owners: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// ListActive получает всех активных пользователей независимо от роли
func (r *UserRepository) ListActive(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE status = $1
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, model.UserStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// UpdateBalances записывает новые остатки кредитов пользователя
func (r *UserRepository) UpdateBalances(ctx context.Context, id int64, weekday, weekend int) error {
	query := `
		UPDATE users
		SET weekday_balance = $1, weekend_balance = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, weekday, weekend, id)
	if err != nil {
		return fmt.Errorf("update balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// Activate активирует пользователя: назначает участок и устанавливает
// квоту и баланс
func (r *UserRepository) Activate(ctx context.Context, id, propertyID int64, weekdayQuota, weekendQuota int) error {
	query := `
		UPDATE users
		SET status = $1, property_id = $2,
			weekday_quota = $3, weekend_quota = $4,
			weekday_balance = $3, weekend_balance = $4
		WHERE id = $5
	`

	tag, err := r.db.Exec(ctx, query, model.UserStatusActive, propertyID, weekdayQuota, weekendQuota, id)
	if err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// UpdateStatus изменяет статус пользователя
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	query := `UPDATE users SET status = $1 WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}
