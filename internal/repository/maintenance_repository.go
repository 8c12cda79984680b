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

type MaintenanceRepository struct {
	db base.Querier
}

func NewMaintenanceRepository(pool *pgxpool.Pool) *MaintenanceRepository {
	return &MaintenanceRepository{db: pool}
}

// WithTx возвращает копию репозитория, привязанную к транзакции
func (r *MaintenanceRepository) WithTx(tx pgx.Tx) *MaintenanceRepository {
	return &MaintenanceRepository{db: tx}
}

func scanBlock(row pgx.Row) (*model.MaintenanceBlock, error) {
	var block model.MaintenanceBlock
	err := row.Scan(
		&block.ID,
		&block.CottageID,
		&block.StartDate,
		&block.EndDate,
		&block.Reason,
		&block.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// Create создаёт блок обслуживания
func (r *MaintenanceRepository) Create(ctx context.Context, block *model.MaintenanceBlock) error {
	query := `
		INSERT INTO maintenance_blocks (cottage_id, start_date, end_date, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		block.CottageID,
		block.StartDate,
		block.EndDate,
		block.Reason,
	).Scan(&block.ID, &block.CreatedAt)

	if err != nil {
		return fmt.Errorf("create maintenance block: %w", err)
	}

	return nil
}

// GetByID получает блок обслуживания по ID
func (r *MaintenanceRepository) GetByID(ctx context.Context, id int64) (*model.MaintenanceBlock, error) {
	query := `
		SELECT id, cottage_id, start_date, end_date, reason, created_at
		FROM maintenance_blocks
		WHERE id = $1
	`

	block, err := scanBlock(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get maintenance block by id: %w", err)
	}

	return block, nil
}

// Update записывает новые параметры блока обслуживания
func (r *MaintenanceRepository) Update(ctx context.Context, block *model.MaintenanceBlock) error {
	query := `
		UPDATE maintenance_blocks
		SET cottage_id = $1, start_date = $2, end_date = $3, reason = $4
		WHERE id = $5
	`

	tag, err := r.db.Exec(ctx, query,
		block.CottageID,
		block.StartDate,
		block.EndDate,
		block.Reason,
		block.ID,
	)
	if err != nil {
		return fmt.Errorf("update maintenance block: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("maintenance block not found")
	}

	return nil
}

// Delete удаляет блок обслуживания. Прошлые бронирования не затрагиваются
func (r *MaintenanceRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM maintenance_blocks WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete maintenance block: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("maintenance block not found")
	}

	return nil
}

// List получает все блоки обслуживания
func (r *MaintenanceRepository) List(ctx context.Context) ([]*model.MaintenanceBlock, error) {
	query := `
		SELECT id, cottage_id, start_date, end_date, reason, created_at
		FROM maintenance_blocks
		ORDER BY start_date
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list maintenance blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*model.MaintenanceBlock
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan maintenance block: %w", err)
		}
		blocks = append(blocks, block)
	}

	return blocks, rows.Err()
}

// ListOverlapping получает блоки коттеджа, закрывающие хотя бы один
// день полуоткрытого интервала [from, to). Интервал блока закрытый,
// поэтому пересечение: start_date < to AND end_date >= from
func (r *MaintenanceRepository) ListOverlapping(ctx context.Context, cottageID int64, from, to time.Time) ([]*model.MaintenanceBlock, error) {
	query := `
		SELECT id, cottage_id, start_date, end_date, reason, created_at
		FROM maintenance_blocks
		WHERE cottage_id = $1 AND start_date < $2 AND end_date >= $3
		ORDER BY start_date
	`

	rows, err := r.db.Query(ctx, query, cottageID, to, from)
	if err != nil {
		return nil, fmt.Errorf("list overlapping maintenance blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*model.MaintenanceBlock
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan maintenance block: %w", err)
		}
		blocks = append(blocks, block)
	}

	return blocks, rows.Err()
}
