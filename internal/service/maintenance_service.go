package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvlasov/cottage-booking/internal/app"
	"github.com/nvlasov/cottage-booking/internal/apperr"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository"
	"go.uber.org/zap"
)

// MaintenanceService управляет блоками обслуживания коттеджей.
// Создание и расширение блока автоматически отклоняет pending
// заявки, попавшие под блок, с возвратом кредитов
type MaintenanceService struct {
	pool        *pgxpool.Pool
	maintRepo   *repository.MaintenanceRepository
	bookingRepo *repository.BookingRepository
	ledger      *QuotaLedger
	notifier    *app.Notifier
	logger      *zap.Logger
}

func NewMaintenanceService(
	pool *pgxpool.Pool,
	maintRepo *repository.MaintenanceRepository,
	bookingRepo *repository.BookingRepository,
	ledger *QuotaLedger,
	notifier *app.Notifier,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		pool:        pool,
		maintRepo:   maintRepo,
		bookingRepo: bookingRepo,
		ledger:      ledger,
		notifier:    notifier,
		logger:      logger,
	}
}

func validateBlockRange(start, end time.Time) error {
	if end.Before(start) {
		return apperr.InvalidRange("end_date must not be before start_date")
	}
	return nil
}

// rejectPendingInBlock отклоняет pending заявки, пересекающиеся с
// закрытым интервалом блока, возвращая кредиты. Подтверждённые
// бронирования не трогаются: их снимают явным bulk revoke
func (s *MaintenanceService) rejectPendingInBlock(ctx context.Context, tx pgx.Tx, block *model.MaintenanceBlock) ([]*model.Booking, error) {
	pending, err := s.bookingRepo.WithTx(tx).ListPendingOverlappingClosed(ctx, block.CottageID, block.StartDate, block.EndDate)
	if err != nil {
		return nil, err
	}

	notes := fmt.Sprintf("Rejected automatically: cottage closed for maintenance %s - %s",
		block.StartDate.Format("2006-01-02"), block.EndDate.Format("2006-01-02"))

	for _, b := range pending {
		if err := s.bookingRepo.WithTx(tx).UpdateStatus(ctx, b.ID, model.BookingStatusRejected, notes); err != nil {
			return nil, fmt.Errorf("reject booking %d: %w", b.ID, err)
		}
		err = s.ledger.Refund(ctx, tx, b.UserID,
			b.WeekdayCreditsUsed, b.WeekendCreditsUsed,
			b.ID, "Booking rejected - quota refunded")
		if err != nil {
			return nil, err
		}
		b.DecisionNotes = notes
	}

	return pending, nil
}

// CreateBlock закрывает коттедж на обслуживание и отклоняет попавшие
// под блок pending заявки в той же транзакции
func (s *MaintenanceService) CreateBlock(ctx context.Context, cottageID int64, start, end time.Time, reason string) (*model.MaintenanceBlock, error) {
	if err := validateBlockRange(start, end); err != nil {
		return nil, err
	}

	block := &model.MaintenanceBlock{
		CottageID: cottageID,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
	}

	var rejected []*model.Booking
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := s.maintRepo.WithTx(tx).Create(ctx, block); err != nil {
			return fmt.Errorf("create maintenance block: %w", err)
		}

		rejected, err = s.rejectPendingInBlock(ctx, tx, block)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	for _, b := range rejected {
		s.notifier.Publish(app.EventRejected, b.ID, b.UserID, b.DecisionNotes)
	}

	s.logger.Info("Maintenance block created",
		zap.Int64("block_id", block.ID),
		zap.Int64("cottage_id", cottageID),
		zap.Int("rejected_bookings", len(rejected)),
	)

	return block, nil
}

// UpdateBlock меняет границы или причину блока. Pending заявки,
// попавшие под новые границы, отклоняются так же, как при создании
func (s *MaintenanceService) UpdateBlock(ctx context.Context, blockID int64, start, end time.Time, reason string) (*model.MaintenanceBlock, error) {
	if err := validateBlockRange(start, end); err != nil {
		return nil, err
	}

	var block *model.MaintenanceBlock
	var rejected []*model.Booking
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		block, err = s.maintRepo.WithTx(tx).GetByID(ctx, blockID)
		if err != nil {
			return err
		}
		if block == nil {
			return apperr.NotFound("maintenance block")
		}

		block.StartDate = start
		block.EndDate = end
		block.Reason = reason
		if err := s.maintRepo.WithTx(tx).Update(ctx, block); err != nil {
			return fmt.Errorf("update maintenance block: %w", err)
		}

		rejected, err = s.rejectPendingInBlock(ctx, tx, block)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	for _, b := range rejected {
		s.notifier.Publish(app.EventRejected, b.ID, b.UserID, b.DecisionNotes)
	}

	s.logger.Info("Maintenance block updated",
		zap.Int64("block_id", blockID),
		zap.Int("rejected_bookings", len(rejected)),
	)

	return block, nil
}

// DeleteBlock снимает блок обслуживания. Отклонённые им заявки
// остаются отклонёнными: владельцы бронируют заново
func (s *MaintenanceService) DeleteBlock(ctx context.Context, blockID int64) error {
	block, err := s.maintRepo.GetByID(ctx, blockID)
	if err != nil {
		return err
	}
	if block == nil {
		return apperr.NotFound("maintenance block")
	}

	if err := s.maintRepo.Delete(ctx, blockID); err != nil {
		return fmt.Errorf("delete maintenance block: %w", err)
	}

	s.logger.Info("Maintenance block deleted", zap.Int64("block_id", blockID))
	return nil
}

// BulkRevoke аннулирует все активные бронирования, пересекающиеся с
// блоком обслуживания, с возвратом кредитов каждому владельцу.
// Предикат пересечения здесь полуоткрытый (check_in < end AND
// check_out > start) в отличие от автоотклонения при создании блока.
// Возвращает число аннулированных
func (s *MaintenanceService) BulkRevoke(ctx context.Context, blockID int64, reason string) (int, error) {
	if reason == "" {
		reason = "Booking revoked by admin"
	}

	var revoked []*model.Booking
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		block, err := s.maintRepo.WithTx(tx).GetByID(ctx, blockID)
		if err != nil {
			return err
		}
		if block == nil {
			return apperr.NotFound("maintenance block")
		}

		revoked, err = s.bookingRepo.WithTx(tx).ListActiveOverlapping(ctx, block.CottageID, block.StartDate, block.EndDate, 0)
		if err != nil {
			return err
		}

		for _, b := range revoked {
			if err := s.bookingRepo.WithTx(tx).UpdateStatus(ctx, b.ID, model.BookingStatusCancelled, reason); err != nil {
				return fmt.Errorf("revoke booking %d: %w", b.ID, err)
			}
			err = s.ledger.Refund(ctx, tx, b.UserID,
				b.WeekdayCreditsUsed, b.WeekendCreditsUsed,
				b.ID, "Booking revoked by admin - quota refunded")
			if err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return 0, err
	}

	for _, b := range revoked {
		s.notifier.Publish(app.EventRevoked, b.ID, b.UserID, reason)
	}

	s.logger.Info("Bulk revoke completed",
		zap.Int64("block_id", blockID),
		zap.Int("revoked_bookings", len(revoked)),
		zap.String("reason", reason),
	)

	return len(revoked), nil
}

// List возвращает все блоки обслуживания
func (s *MaintenanceService) List(ctx context.Context) ([]*model.MaintenanceBlock, error) {
	return s.maintRepo.List(ctx)
}

// BlockedBookings возвращает активные бронирования, пересекающиеся
// с блоком, для предпросмотра перед bulk revoke
func (s *MaintenanceService) BlockedBookings(ctx context.Context, blockID int64) ([]*model.Booking, error) {
	block, err := s.maintRepo.GetByID(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, apperr.NotFound("maintenance block")
	}
	return s.bookingRepo.ListActiveOverlapping(ctx, block.CottageID, block.StartDate, block.EndDate, 0)
}
