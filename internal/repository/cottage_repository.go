package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository/base"
)

type CottageRepository struct {
	db base.Querier
}

func NewCottageRepository(pool *pgxpool.Pool) *CottageRepository {
	return &CottageRepository{db: pool}
}

// WithTx возвращает копию репозитория, привязанную к транзакции
func (r *CottageRepository) WithTx(tx pgx.Tx) *CottageRepository {
	return &CottageRepository{db: tx}
}

// GetByID получает коттедж по ID
func (r *CottageRepository) GetByID(ctx context.Context, id int64) (*model.Cottage, error) {
	query := `
		SELECT id, property_id, cottage_id, capacity, amenities, created_at
		FROM cottages
		WHERE id = $1
	`

	var cottage model.Cottage
	err := r.db.QueryRow(ctx, query, id).Scan(
		&cottage.ID,
		&cottage.PropertyID,
		&cottage.CottageID,
		&cottage.Capacity,
		&cottage.Amenities,
		&cottage.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cottage by id: %w", err)
	}

	return &cottage, nil
}

// ListByProperty получает все коттеджи участка
func (r *CottageRepository) ListByProperty(ctx context.Context, propertyID int64) ([]*model.Cottage, error) {
	query := `
		SELECT id, property_id, cottage_id, capacity, amenities, created_at
		FROM cottages
		WHERE property_id = $1
		ORDER BY cottage_id
	`

	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list cottages by property: %w", err)
	}
	defer rows.Close()

	var cottages []*model.Cottage
	for rows.Next() {
		var cottage model.Cottage
		err := rows.Scan(
			&cottage.ID,
			&cottage.PropertyID,
			&cottage.CottageID,
			&cottage.Capacity,
			&cottage.Amenities,
			&cottage.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cottage: %w", err)
		}
		cottages = append(cottages, &cottage)
	}

	return cottages, rows.Err()
}
