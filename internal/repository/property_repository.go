package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository/base"
)

// PropertyRepository участки. Справочные данные: ядро их только читает
type PropertyRepository struct {
	db base.Querier
}

func NewPropertyRepository(pool *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{db: pool}
}

const propertyColumns = `id, name, description, created_at`

func scanProperty(row pgx.Row) (*model.Property, error) {
	var property model.Property
	err := row.Scan(
		&property.ID,
		&property.Name,
		&property.Description,
		&property.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// GetByID получает участок по ID
func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*model.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	property, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property by id: %w", err)
	}

	return property, nil
}

// List получает все участки
func (r *PropertyRepository) List(ctx context.Context) ([]*model.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var properties []*model.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, property)
	}

	return properties, rows.Err()
}
