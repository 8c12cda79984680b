package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nvlasov/cottage-booking/internal/apperr"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository"
	"go.uber.org/zap"
)

// MemberService управляет аккаунтами владельцев и их квотами
type MemberService struct {
	pool         *pgxpool.Pool
	userRepo     *repository.UserRepository
	bookingRepo  *repository.BookingRepository
	propertyRepo *repository.PropertyRepository
	txRepo       *repository.TransactionRepository
	ledger       *QuotaLedger
	logger       *zap.Logger
}

func NewMemberService(
	pool *pgxpool.Pool,
	userRepo *repository.UserRepository,
	bookingRepo *repository.BookingRepository,
	propertyRepo *repository.PropertyRepository,
	txRepo *repository.TransactionRepository,
	ledger *QuotaLedger,
	logger *zap.Logger,
) *MemberService {
	return &MemberService{
		pool:         pool,
		userRepo:     userRepo,
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		txRepo:       txRepo,
		ledger:       ledger,
		logger:       logger,
	}
}

// Activate активирует pending аккаунт: привязывает его к базе,
// назначает квоту и зачисляет начальный баланс, равный квоте
func (s *MemberService) Activate(ctx context.Context, userID, propertyID int64, weekdayQuota, weekendQuota int) (*model.User, error) {
	if weekdayQuota < 0 || weekendQuota < 0 {
		return nil, apperr.InvalidInput("quota must not be negative")
	}

	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperr.NotFound("property")
	}

	err = withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := s.ledger.Activate(ctx, tx, userID, propertyID, weekdayQuota, weekendQuota); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Member activated",
		zap.Int64("user_id", userID),
		zap.Int64("property_id", propertyID),
		zap.Int("weekday_quota", weekdayQuota),
		zap.Int("weekend_quota", weekendQuota),
	)

	return s.userRepo.GetByID(ctx, userID)
}

// AdjustQuota применяет ручную корректировку баланса владельца
func (s *MemberService) AdjustQuota(ctx context.Context, userID int64, weekdayDelta, weekendDelta int, description string) (*model.User, error) {
	var user *model.User
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		user, err = s.ledger.Adjust(ctx, tx, userID, weekdayDelta, weekendDelta, description)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ResetAllQuotas возвращает баланс каждого активного пользователя к его
// квоте. Возвращает число затронутых аккаунтов
func (s *MemberService) ResetAllQuotas(ctx context.Context) (int, error) {
	var count int
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		count, err = s.ledger.ResetAll(ctx, tx)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Quota reset completed", zap.Int("users", count))
	return count, nil
}

// Deactivate блокирует аккаунт владельца. Существующие бронирования
// не трогаются, но новые операции аккаунту недоступны
func (s *MemberService) Deactivate(ctx context.Context, userID int64) error {
	return s.setStatus(ctx, userID, model.UserStatusSuspended)
}

// Reactivate возвращает заблокированный аккаунт в строй
func (s *MemberService) Reactivate(ctx context.Context, userID int64) error {
	return s.setStatus(ctx, userID, model.UserStatusActive)
}

func (s *MemberService) setStatus(ctx context.Context, userID int64, status model.UserStatus) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user")
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		return fmt.Errorf("update user status: %w", err)
	}

	s.logger.Info("User status changed",
		zap.Int64("user_id", userID),
		zap.String("status", string(status)),
	)
	return nil
}

// QuotaStatus баланс владельца с разбивкой на зарезервированное
// pending заявками и реально доступное
type QuotaStatus struct {
	WeekdayQuota     int `json:"weekday_quota"`
	WeekendQuota     int `json:"weekend_quota"`
	WeekdayBalance   int `json:"weekday_balance"`
	WeekendBalance   int `json:"weekend_balance"`
	WeekdayPending   int `json:"weekday_pending"`
	WeekendPending   int `json:"weekend_pending"`
	WeekdayAvailable int `json:"weekday_available"`
	WeekendAvailable int `json:"weekend_available"`
}

// QuotaStatus возвращает текущее состояние квоты владельца
func (s *MemberService) QuotaStatus(ctx context.Context, userID int64) (*QuotaStatus, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}

	pendingWd, pendingWe, err := s.bookingRepo.SumPendingCredits(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	availableWd, availableWe := availableCredits(user, pendingWd, pendingWe)
	return &QuotaStatus{
		WeekdayQuota:     user.WeekdayQuota,
		WeekendQuota:     user.WeekendQuota,
		WeekdayBalance:   user.WeekdayBalance,
		WeekendBalance:   user.WeekendBalance,
		WeekdayPending:   pendingWd,
		WeekendPending:   pendingWe,
		WeekdayAvailable: availableWd,
		WeekendAvailable: availableWe,
	}, nil
}

// Transactions возвращает журнал квот владельца, новые записи первыми
func (s *MemberService) Transactions(ctx context.Context, userID int64) ([]*model.QuotaTransaction, error) {
	return s.txRepo.ListByUser(ctx, userID)
}

// List возвращает всех активных владельцев
func (s *MemberService) List(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.ListActiveOwners(ctx)
}
