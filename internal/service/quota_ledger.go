package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nvlasov/cottage-booking/internal/apperr"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/nvlasov/cottage-booking/internal/repository"
	"go.uber.org/zap"
)

// QuotaLedger владеет балансом кредитов пользователей. Каждая
// операция выполняется внутри транзакции вызывающего, блокирует
// строку пользователя (FOR UPDATE) на время проверки и записи и
// оставляет ровно одну запись в журнале квот. Баланс никогда не
// меняется в обход журнала
type QuotaLedger struct {
	userRepo    *repository.UserRepository
	bookingRepo *repository.BookingRepository
	txRepo      *repository.TransactionRepository
	logger      *zap.Logger
}

func NewQuotaLedger(
	userRepo *repository.UserRepository,
	bookingRepo *repository.BookingRepository,
	txRepo *repository.TransactionRepository,
	logger *zap.Logger,
) *QuotaLedger {
	return &QuotaLedger{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		txRepo:      txRepo,
		logger:      logger,
	}
}

// lockUser блокирует и возвращает пользователя в транзакции
func (l *QuotaLedger) lockUser(ctx context.Context, tx pgx.Tx, userID int64) (*model.User, error) {
	user, err := l.userRepo.WithTx(tx).GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}
	return user, nil
}

// availableCredits считает доступный остаток: баланс минус кредиты,
// зарезервированные в остальных pending заявках пользователя
func availableCredits(user *model.User, pendingWeekday, pendingWeekend int) (weekday, weekend int) {
	return user.WeekdayBalance - pendingWeekday, user.WeekendBalance - pendingWeekend
}

// escrowEntry строит журнальную запись резервирования: отрицательные
// дельты в размере стоимости, привязка к заявке
func escrowEntry(userID int64, cost model.CostBreakdown, bookingID int64, description string) *model.QuotaTransaction {
	return &model.QuotaTransaction{
		UserID:        userID,
		Type:          model.TransactionTypeBooking,
		WeekdayChange: -cost.WeekdayCredits,
		WeekendChange: -cost.WeekendCredits,
		BookingID:     &bookingID,
		Description:   description,
	}
}

// refundEntry строит журнальную запись возврата: положительные дельты,
// симметричные резервированию
func refundEntry(userID int64, weekday, weekend int, bookingID int64, description string) *model.QuotaTransaction {
	return &model.QuotaTransaction{
		UserID:        userID,
		Type:          model.TransactionTypeRefund,
		WeekdayChange: weekday,
		WeekendChange: weekend,
		BookingID:     &bookingID,
		Description:   description,
	}
}

// Escrow резервирует кредиты под заявку: проверяет доступный остаток
// по каждому измерению, списывает с баланса и записывает в журнал
// отрицательные дельты. excludeBookingID - сама заявка, уже созданная
// в этой транзакции: её кредиты не считаются среди остальных pending
func (l *QuotaLedger) Escrow(ctx context.Context, tx pgx.Tx, userID int64, cost model.CostBreakdown, bookingID int64, description string) error {
	user, err := l.lockUser(ctx, tx, userID)
	if err != nil {
		return err
	}

	pendingWd, pendingWe, err := l.bookingRepo.WithTx(tx).SumPendingCredits(ctx, userID, bookingID)
	if err != nil {
		return err
	}

	availableWd, availableWe := availableCredits(user, pendingWd, pendingWe)
	if cost.WeekdayCredits > availableWd {
		return apperr.InsufficientCredits("weekday", cost.WeekdayCredits, availableWd)
	}
	if cost.WeekendCredits > availableWe {
		return apperr.InsufficientCredits("weekend", cost.WeekendCredits, availableWe)
	}

	err = l.userRepo.WithTx(tx).UpdateBalances(ctx, userID,
		user.WeekdayBalance-cost.WeekdayCredits,
		user.WeekendBalance-cost.WeekendCredits,
	)
	if err != nil {
		return err
	}

	return l.txRepo.WithTx(tx).Create(ctx, escrowEntry(userID, cost, bookingID, description))
}

// Refund возвращает кредиты на баланс. Возврат не ограничен сверху
// и всегда успешен; в журнал пишутся положительные дельты
func (l *QuotaLedger) Refund(ctx context.Context, tx pgx.Tx, userID int64, weekday, weekend int, bookingID int64, description string) error {
	user, err := l.lockUser(ctx, tx, userID)
	if err != nil {
		return err
	}

	err = l.userRepo.WithTx(tx).UpdateBalances(ctx, userID,
		user.WeekdayBalance+weekday,
		user.WeekendBalance+weekend,
	)
	if err != nil {
		return err
	}

	return l.txRepo.WithTx(tx).Create(ctx, refundEntry(userID, weekday, weekend, bookingID, description))
}

// Reprice пересчитывает эскроу pending заявки при редактировании:
// возвращает прежние кредиты, проверяет доступный остаток под новую
// стоимость и списывает её. Эскроу-запись журнала обновляется на
// новые дельты вместо добавления пары возврат/списание. При нехватке
// кредитов транзакция откатывается целиком - старые значения
// сохраняются
func (l *QuotaLedger) Reprice(ctx context.Context, tx pgx.Tx, userID int64, oldCost, newCost model.CostBreakdown, bookingID int64, description string) error {
	user, err := l.lockUser(ctx, tx, userID)
	if err != nil {
		return err
	}

	// Баланс после возврата прежнего эскроу
	balanceWd := user.WeekdayBalance + oldCost.WeekdayCredits
	balanceWe := user.WeekendBalance + oldCost.WeekendCredits

	pendingWd, pendingWe, err := l.bookingRepo.WithTx(tx).SumPendingCredits(ctx, userID, bookingID)
	if err != nil {
		return err
	}

	availableWd := balanceWd - pendingWd
	availableWe := balanceWe - pendingWe
	if newCost.WeekdayCredits > availableWd {
		return apperr.InsufficientCredits("weekday", newCost.WeekdayCredits, availableWd)
	}
	if newCost.WeekendCredits > availableWe {
		return apperr.InsufficientCredits("weekend", newCost.WeekendCredits, availableWe)
	}

	err = l.userRepo.WithTx(tx).UpdateBalances(ctx, userID,
		balanceWd-newCost.WeekdayCredits,
		balanceWe-newCost.WeekendCredits,
	)
	if err != nil {
		return err
	}

	return l.txRepo.WithTx(tx).UpdateEscrowForBooking(ctx, bookingID,
		-newCost.WeekdayCredits, -newCost.WeekendCredits, description)
}

// clampNonNegative не даёт балансу уйти в минус при ручной корректировке
func clampNonNegative(balance int) int {
	if balance < 0 {
		return 0
	}
	return balance
}

// applyAdjustment применяет дельты к балансам пользователя, ограничивая
// результат нулём снизу
func applyAdjustment(user *model.User, weekdayDelta, weekendDelta int) {
	user.WeekdayBalance = clampNonNegative(user.WeekdayBalance + weekdayDelta)
	user.WeekendBalance = clampNonNegative(user.WeekendBalance + weekendDelta)
}

// adjustEntry строит журнальную запись корректировки. В журнал идёт
// запрошенная дельта, даже если применённая была ограничена нулём
func adjustEntry(userID int64, weekdayDelta, weekendDelta int, description string) *model.QuotaTransaction {
	if description == "" {
		description = "Manual quota adjustment by admin"
	}
	return &model.QuotaTransaction{
		UserID:        userID,
		Type:          model.TransactionTypeAdjustment,
		WeekdayChange: weekdayDelta,
		WeekendChange: weekendDelta,
		Description:   description,
	}
}

// resetEntry строит журнальную запись годового сброса: полное значение
// квоты, а не разница с прежним балансом
func resetEntry(user *model.User) *model.QuotaTransaction {
	return &model.QuotaTransaction{
		UserID:        user.ID,
		Type:          model.TransactionTypeReset,
		WeekdayChange: user.WeekdayQuota,
		WeekendChange: user.WeekendQuota,
		Description:   "Annual quota reset",
	}
}

// Adjust применяет ручную корректировку администратора. Баланс
// ограничивается нулём снизу, но в журнал пишется запрошенная
// дельта, а не применённая - так ведёт себя исходная система,
// расхождение задокументировано
func (l *QuotaLedger) Adjust(ctx context.Context, tx pgx.Tx, userID int64, weekdayDelta, weekendDelta int, description string) (*model.User, error) {
	user, err := l.lockUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	applyAdjustment(user, weekdayDelta, weekendDelta)

	err = l.userRepo.WithTx(tx).UpdateBalances(ctx, userID, user.WeekdayBalance, user.WeekendBalance)
	if err != nil {
		return nil, err
	}

	err = l.txRepo.WithTx(tx).Create(ctx, adjustEntry(userID, weekdayDelta, weekendDelta, description))
	if err != nil {
		return nil, err
	}

	l.logger.Info("Quota adjusted",
		zap.Int64("user_id", userID),
		zap.Int("weekday_delta", weekdayDelta),
		zap.Int("weekend_delta", weekendDelta),
	)

	return user, nil
}

// ResetAll устанавливает баланс каждого активного пользователя равным
// его квоте, включая администраторов. В журнал пишется полное значение
// квоты, а не разница с прежним балансом - поведение исходной системы
// сохранено
func (l *QuotaLedger) ResetAll(ctx context.Context, tx pgx.Tx) (int, error) {
	users, err := l.userRepo.WithTx(tx).ListActive(ctx)
	if err != nil {
		return 0, err
	}

	for _, user := range users {
		err = l.userRepo.WithTx(tx).UpdateBalances(ctx, user.ID, user.WeekdayQuota, user.WeekendQuota)
		if err != nil {
			return 0, fmt.Errorf("reset balances for user %d: %w", user.ID, err)
		}

		err = l.txRepo.WithTx(tx).Create(ctx, resetEntry(user))
		if err != nil {
			return 0, fmt.Errorf("record reset for user %d: %w", user.ID, err)
		}
	}

	return len(users), nil
}

// Activate устанавливает квоту и начальный баланс при активации
// аккаунта и записывает активацию в журнал
func (l *QuotaLedger) Activate(ctx context.Context, tx pgx.Tx, userID, propertyID int64, weekdayQuota, weekendQuota int) error {
	if _, err := l.lockUser(ctx, tx, userID); err != nil {
		return err
	}

	err := l.userRepo.WithTx(tx).Activate(ctx, userID, propertyID, weekdayQuota, weekendQuota)
	if err != nil {
		return err
	}

	return l.txRepo.WithTx(tx).Create(ctx, &model.QuotaTransaction{
		UserID:        userID,
		Type:          model.TransactionTypeActivation,
		WeekdayChange: weekdayQuota,
		WeekendChange: weekendQuota,
		Description:   "Account activated with initial quota",
	})
}
