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
	"github.com/nvlasov/cottage-booking/internal/repository/base"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// withRetry повторяет транзакцию при конфликте сериализации или
// нарушении ограничения пересечения дат. Повторный прогон заново
// читает занятость, поэтому гонка двух заявок на одни даты
// завершается обычной ошибкой конфликта дат, а не ошибкой БД
func withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && (base.IsRetryableConflict(err) || base.IsExclusionViolation(err)) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// BookingService управляет жизненным циклом бронирований. Все
// операции записи выполняются в одной транзакции: проверка
// занятости, запись бронирования и движение кредитов либо
// применяются вместе, либо не применяются вовсе
type BookingService struct {
	pool            *pgxpool.Pool
	bookingRepo     *repository.BookingRepository
	cottageRepo     *repository.CottageRepository
	userRepo        *repository.UserRepository
	maintenanceRepo *repository.MaintenanceRepository
	pricing         *PricingService
	ledger          *QuotaLedger
	notifier        *app.Notifier
	logger          *zap.Logger
}

func NewBookingService(
	pool *pgxpool.Pool,
	bookingRepo *repository.BookingRepository,
	cottageRepo *repository.CottageRepository,
	userRepo *repository.UserRepository,
	maintenanceRepo *repository.MaintenanceRepository,
	pricing *PricingService,
	ledger *QuotaLedger,
	notifier *app.Notifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		pool:            pool,
		bookingRepo:     bookingRepo,
		cottageRepo:     cottageRepo,
		userRepo:        userRepo,
		maintenanceRepo: maintenanceRepo,
		pricing:         pricing,
		ledger:          ledger,
		notifier:        notifier,
		logger:          logger,
	}
}

// validateRange проверяет что интервал содержит хотя бы одну ночь
func validateRange(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return apperr.InvalidRange("check_out must be after check_in")
	}
	return nil
}

// checkAvailability проверяет занятость дней внутри транзакции по тем
// же предикатам, что и календарь. excludeID исключает редактируемую
// заявку из проверки против самой себя
func (s *BookingService) checkAvailability(ctx context.Context, tx pgx.Tx, cottageID int64, checkIn, checkOut time.Time, excludeID int64) error {
	bookings, err := s.bookingRepo.WithTx(tx).ListActiveOverlapping(ctx, cottageID, checkIn, checkOut, excludeID)
	if err != nil {
		return err
	}
	blocks, err := s.maintenanceRepo.WithTx(tx).ListOverlapping(ctx, cottageID, checkIn, checkOut)
	if err != nil {
		return err
	}

	if day, state, conflict := FirstConflict(checkIn, checkOut, bookings, blocks, excludeID); conflict {
		reason := "already booked"
		if state == DayMaintenance {
			reason = "scheduled maintenance"
		}
		return apperr.DateConflict(day, reason)
	}
	return nil
}

// Create создаёт заявку на бронирование. Стоимость считается заранее,
// кредиты резервируются в эскроу в той же транзакции, что и запись
// заявки. Заявка попадает в очередь на рассмотрение со статусом pending
func (s *BookingService) Create(ctx context.Context, userID, cottageID int64, checkIn, checkOut time.Time) (*model.Booking, error) {
	if err := validateRange(checkIn, checkOut); err != nil {
		return nil, err
	}

	cottage, err := s.cottageRepo.GetByID(ctx, cottageID)
	if err != nil {
		return nil, err
	}
	if cottage == nil {
		return nil, apperr.NotFound("cottage")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}
	if user.PropertyID == nil || *user.PropertyID != cottage.PropertyID {
		return nil, apperr.AccessDenied("cottage belongs to another property")
	}

	cost, err := s.pricing.Price(ctx, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		UserID:             userID,
		CottageID:          cottageID,
		CheckIn:            checkIn,
		CheckOut:           checkOut,
		Status:             model.BookingStatusPending,
		WeekdayCreditsUsed: cost.WeekdayCredits,
		WeekendCreditsUsed: cost.WeekendCredits,
	}

	err = withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := s.checkAvailability(ctx, tx, cottageID, checkIn, checkOut, 0); err != nil {
			return err
		}

		if err := s.bookingRepo.WithTx(tx).Create(ctx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		description := fmt.Sprintf("Escrow for booking #%d (%s - %s)",
			booking.ID, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
		if err := s.ledger.Escrow(ctx, tx, userID, cost, booking.ID, description); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", userID),
		zap.Int64("cottage_id", cottageID),
		zap.Int("weekday_credits", cost.WeekdayCredits),
		zap.Int("weekend_credits", cost.WeekendCredits),
	)

	return booking, nil
}

// EditInput изменения pending заявки; nil-поля остаются прежними
type EditInput struct {
	CottageID *int64
	CheckIn   *time.Time
	CheckOut  *time.Time
}

// Edit меняет даты или коттедж pending заявки владельца. Запрос без
// фактических изменений - no-op без движения кредитов; иначе заявка
// переоценивается и эскроу пересчитывается атомарно
func (s *BookingService) Edit(ctx context.Context, userID, bookingID int64, in EditInput) (*model.Booking, error) {
	var booking *model.Booking
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		booking, err = s.bookingRepo.WithTx(tx).GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil || booking.UserID != userID {
			return apperr.NotFound("booking")
		}
		if booking.Status != model.BookingStatusPending {
			return apperr.NotEditable("only pending bookings can be edited")
		}

		cottageID := booking.CottageID
		if in.CottageID != nil {
			cottageID = *in.CottageID
		}
		checkIn := booking.CheckIn
		if in.CheckIn != nil {
			checkIn = *in.CheckIn
		}
		checkOut := booking.CheckOut
		if in.CheckOut != nil {
			checkOut = *in.CheckOut
		}

		if err := validateRange(checkIn, checkOut); err != nil {
			return err
		}

		if cottageID == booking.CottageID &&
			booking.CheckIn.Equal(checkIn) && booking.CheckOut.Equal(checkOut) {
			return nil
		}

		if cottageID != booking.CottageID {
			cottage, err := s.cottageRepo.GetByID(ctx, cottageID)
			if err != nil {
				return err
			}
			if cottage == nil {
				return apperr.NotFound("cottage")
			}
			user, err := s.userRepo.WithTx(tx).GetByID(ctx, userID)
			if err != nil {
				return err
			}
			if user == nil || user.PropertyID == nil || *user.PropertyID != cottage.PropertyID {
				return apperr.AccessDenied("cottage belongs to another property")
			}
		}

		if err := s.checkAvailability(ctx, tx, cottageID, checkIn, checkOut, booking.ID); err != nil {
			return err
		}

		newCost, err := s.pricing.Price(ctx, checkIn, checkOut)
		if err != nil {
			return err
		}
		oldCost := model.CostBreakdown{
			WeekdayCredits: booking.WeekdayCreditsUsed,
			WeekendCredits: booking.WeekendCreditsUsed,
		}

		description := fmt.Sprintf("Escrow for booking #%d (%s - %s)",
			booking.ID, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
		if err := s.ledger.Reprice(ctx, tx, userID, oldCost, newCost, booking.ID, description); err != nil {
			return err
		}

		booking.CottageID = cottageID
		booking.CheckIn = checkIn
		booking.CheckOut = checkOut
		booking.WeekdayCreditsUsed = newCost.WeekdayCredits
		booking.WeekendCreditsUsed = newCost.WeekendCredits
		if err := s.bookingRepo.WithTx(tx).UpdateStay(ctx, booking); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking edited",
		zap.Int64("booking_id", bookingID),
		zap.Int64("user_id", userID),
	)

	return booking, nil
}

// Decide применяет решение администратора по pending заявке:
// approve подтверждает бронирование, reject отклоняет его и
// возвращает кредиты владельцу
func (s *BookingService) Decide(ctx context.Context, bookingID int64, action Action, notes string) (*model.Booking, error) {
	if action != ActionApprove && action != ActionReject {
		return nil, apperr.InvalidInput(fmt.Sprintf("unknown decision %q", action))
	}

	var booking *model.Booking
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		booking, err = s.bookingRepo.WithTx(tx).GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return apperr.NotFound("booking")
		}

		next, err := NextStatus(booking.Status, action)
		if err != nil {
			return err
		}

		if err := s.bookingRepo.WithTx(tx).UpdateStatus(ctx, bookingID, next, notes); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		if action == ActionReject {
			err = s.ledger.Refund(ctx, tx, booking.UserID,
				booking.WeekdayCreditsUsed, booking.WeekendCreditsUsed,
				booking.ID, "Booking rejected - quota refunded")
			if err != nil {
				return err
			}
		}

		booking.Status = next
		booking.DecisionNotes = notes
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	event := app.EventApproved
	if action == ActionReject {
		event = app.EventRejected
	}
	s.notifier.Publish(event, booking.ID, booking.UserID, notes)

	s.logger.Info("Booking decision applied",
		zap.Int64("booking_id", bookingID),
		zap.String("action", string(action)),
		zap.String("status", string(booking.Status)),
	)

	return booking, nil
}

// Cancel отменяет заявку её владельцем с полным возвратом кредитов
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID int64) (*model.Booking, error) {
	var booking *model.Booking
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		booking, err = s.bookingRepo.WithTx(tx).GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil || booking.UserID != userID {
			return apperr.NotFound("booking")
		}

		next, err := NextStatus(booking.Status, ActionCancel)
		if err != nil {
			return err
		}

		if err := s.bookingRepo.WithTx(tx).UpdateStatus(ctx, bookingID, next, booking.DecisionNotes); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		err = s.ledger.Refund(ctx, tx, userID,
			booking.WeekdayCreditsUsed, booking.WeekendCreditsUsed,
			booking.ID, "Booking cancelled by user - quota refunded")
		if err != nil {
			return err
		}

		booking.Status = next
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(app.EventCancelled, booking.ID, booking.UserID, "")

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("user_id", userID),
	)

	return booking, nil
}

// Revoke принудительно отменяет бронирование администратором с
// возвратом кредитов. Отказано только для уже отменённых заявок
func (s *BookingService) Revoke(ctx context.Context, bookingID int64, reason string) (*model.Booking, error) {
	if reason == "" {
		reason = "Booking revoked by admin"
	}

	var booking *model.Booking
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		booking, err = s.bookingRepo.WithTx(tx).GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return apperr.NotFound("booking")
		}

		next, err := NextStatus(booking.Status, ActionRevoke)
		if err != nil {
			return err
		}

		if err := s.bookingRepo.WithTx(tx).UpdateStatus(ctx, bookingID, next, reason); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		err = s.ledger.Refund(ctx, tx, booking.UserID,
			booking.WeekdayCreditsUsed, booking.WeekendCreditsUsed,
			booking.ID, "Booking revoked by admin - quota refunded")
		if err != nil {
			return err
		}

		booking.Status = next
		booking.DecisionNotes = reason
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(app.EventRevoked, booking.ID, booking.UserID, reason)

	s.logger.Info("Booking revoked",
		zap.Int64("booking_id", bookingID),
		zap.String("reason", reason),
	)

	return booking, nil
}

// Delete удаляет заявку владельцем насовсем. Разрешено для pending
// и confirmed; кредиты возвращаются перед удалением, записи журнала
// квот сохраняются с обнулённой ссылкой на бронирование
func (s *BookingService) Delete(ctx context.Context, userID, bookingID int64) error {
	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		booking, err := s.bookingRepo.WithTx(tx).GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil || booking.UserID != userID {
			return apperr.NotFound("booking")
		}
		if !booking.IsActive() {
			return apperr.NotDeletable("only pending or confirmed bookings can be deleted")
		}

		err = s.ledger.Refund(ctx, tx, userID,
			booking.WeekdayCreditsUsed, booking.WeekendCreditsUsed,
			booking.ID, "Booking deleted by user - quota refunded")
		if err != nil {
			return err
		}

		if err := s.bookingRepo.WithTx(tx).Delete(ctx, bookingID); err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Booking deleted",
		zap.Int64("booking_id", bookingID),
		zap.Int64("user_id", userID),
	)

	return nil
}

// OverrideInput параметры административного бронирования в обход
// обычных проверок
type OverrideInput struct {
	UserID    int64
	CottageID int64
	CheckIn   time.Time
	CheckOut  time.Time
	Notes     string
}

// Override создаёт подтверждённое бронирование от имени владельца в
// обход оценки стоимости, эскроу и проверки принадлежности к базе.
// Занятость дат проверяется всегда: и административное бронирование
// не может пересечься с активным
func (s *BookingService) Override(ctx context.Context, in OverrideInput) (*model.Booking, error) {
	if err := validateRange(in.CheckIn, in.CheckOut); err != nil {
		return nil, err
	}

	cottage, err := s.cottageRepo.GetByID(ctx, in.CottageID)
	if err != nil {
		return nil, err
	}
	if cottage == nil {
		return nil, apperr.NotFound("cottage")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}

	notes := in.Notes
	if notes == "" {
		notes = "Created by admin override - pricing and quota checks bypassed"
	}

	booking := &model.Booking{
		UserID:        in.UserID,
		CottageID:     in.CottageID,
		CheckIn:       in.CheckIn,
		CheckOut:      in.CheckOut,
		Status:        model.BookingStatusConfirmed,
		DecisionNotes: notes,
	}

	err = withRetry(ctx, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := s.checkAvailability(ctx, tx, in.CottageID, in.CheckIn, in.CheckOut, 0); err != nil {
			return err
		}

		if err := s.bookingRepo.WithTx(tx).Create(ctx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warn("Booking created by admin override",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", in.UserID),
		zap.Int64("cottage_id", in.CottageID),
	)

	return booking, nil
}

// ListByUser возвращает бронирования владельца, новые первыми
func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

// ApprovalQueue возвращает pending заявки в порядке подачи
func (s *BookingService) ApprovalQueue(ctx context.Context) ([]*model.Booking, error) {
	return s.bookingRepo.ListPending(ctx)
}

// Get возвращает бронирование. Владелец видит только свои заявки,
// администратор - любые; чужая заявка неотличима от несуществующей
func (s *BookingService) Get(ctx context.Context, requester *model.User, bookingID int64) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil || (!requester.IsAdmin() && booking.UserID != requester.ID) {
		return nil, apperr.NotFound("booking")
	}
	return booking, nil
}
