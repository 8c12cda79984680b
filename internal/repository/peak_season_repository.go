package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository/base"
)

type PeakSeasonRepository struct {
	db base.Querier
}

func NewPeakSeasonRepository(pool *pgxpool.Pool) *PeakSeasonRepository {
	return &PeakSeasonRepository{db: pool}
}

// WithTx возвращает копию репозитория, привязанную к транзакции
func (r *PeakSeasonRepository) WithTx(tx pgx.Tx) *PeakSeasonRepository {
	return &PeakSeasonRepository{db: tx}
}

// Create создаёт период высокого сезона
func (r *PeakSeasonRepository) Create(ctx context.Context, season *model.PeakSeason) error {
	query := `
		INSERT INTO peak_seasons (name, start_date, end_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, season.Name, season.StartDate, season.EndDate).
		Scan(&season.ID, &season.CreatedAt)
	if err != nil {
		return fmt.Errorf("create peak season: %w", err)
	}

	return nil
}

// GetByID получает период высокого сезона по ID
func (r *PeakSeasonRepository) GetByID(ctx context.Context, id int64) (*model.PeakSeason, error) {
	query := `
		SELECT id, name, start_date, end_date, created_at
		FROM peak_seasons
		WHERE id = $1
	`

	var season model.PeakSeason
	err := r.db.QueryRow(ctx, query, id).Scan(
		&season.ID,
		&season.Name,
		&season.StartDate,
		&season.EndDate,
		&season.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get peak season by id: %w", err)
	}

	return &season, nil
}

// Update записывает новые параметры периода
func (r *PeakSeasonRepository) Update(ctx context.Context, season *model.PeakSeason) error {
	query := `
		UPDATE peak_seasons
		SET name = $1, start_date = $2, end_date = $3
		WHERE id = $4
	`

	tag, err := r.db.Exec(ctx, query, season.Name, season.StartDate, season.EndDate, season.ID)
	if err != nil {
		return fmt.Errorf("update peak season: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("peak season not found")
	}

	return nil
}

// Delete удаляет период высокого сезона
func (r *PeakSeasonRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM peak_seasons WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete peak season: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("peak season not found")
	}

	return nil
}

// List получает все периоды высокого сезона по порядку дат начала
func (r *PeakSeasonRepository) List(ctx context.Context) ([]*model.PeakSeason, error) {
	query := `
		SELECT id, name, start_date, end_date, created_at
		FROM peak_seasons
		ORDER BY start_date
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list peak seasons: %w", err)
	}
	defer rows.Close()

	var seasons []*model.PeakSeason
	for rows.Next() {
		var season model.PeakSeason
		err := rows.Scan(
			&season.ID,
			&season.Name,
			&season.StartDate,
			&season.EndDate,
			&season.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan peak season: %w", err)
		}
		seasons = append(seasons, &season)
	}

	return seasons, rows.Err()
}
