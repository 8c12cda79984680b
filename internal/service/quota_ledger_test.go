package service

import (
	"testing"

	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableCredits(t *testing.T) {
	user := &model.User{WeekdayBalance: 10, WeekendBalance: 4}

	wd, we := availableCredits(user, 0, 0)
	assert.Equal(t, 10, wd)
	assert.Equal(t, 4, we)

	// кредиты других pending заявок уменьшают доступный остаток
	wd, we = availableCredits(user, 6, 4)
	assert.Equal(t, 4, wd)
	assert.Equal(t, 0, we)
}

func TestClampNonNegative(t *testing.T) {
	assert.Equal(t, 5, clampNonNegative(5))
	assert.Equal(t, 0, clampNonNegative(0))
	assert.Equal(t, 0, clampNonNegative(-3))
}

func TestEscrowEntry(t *testing.T) {
	cost := model.CostBreakdown{WeekdayCredits: 3, WeekendCredits: 2}

	entry := escrowEntry(7, cost, 42, "Escrow for booking #42")

	assert.Equal(t, int64(7), entry.UserID)
	assert.Equal(t, model.TransactionTypeBooking, entry.Type)
	assert.Equal(t, -3, entry.WeekdayChange)
	assert.Equal(t, -2, entry.WeekendChange)
	require.NotNil(t, entry.BookingID)
	assert.Equal(t, int64(42), *entry.BookingID)
	assert.Equal(t, "Escrow for booking #42", entry.Description)
}

// Возврат пишет положительные дельты, зеркальные резервированию:
// пара эскроу+возврат по одной заявке даёт нулевую сумму в журнале
func TestRefundEntryMirrorsEscrow(t *testing.T) {
	cost := model.CostBreakdown{WeekdayCredits: 3, WeekendCredits: 2}

	escrow := escrowEntry(7, cost, 42, "Escrow for booking #42")
	refund := refundEntry(7, cost.WeekdayCredits, cost.WeekendCredits, 42,
		"Booking cancelled by user - quota refunded")

	assert.Equal(t, model.TransactionTypeRefund, refund.Type)
	assert.Equal(t, 3, refund.WeekdayChange)
	assert.Equal(t, 2, refund.WeekendChange)
	require.NotNil(t, refund.BookingID)
	assert.Equal(t, int64(42), *refund.BookingID)

	assert.Zero(t, escrow.WeekdayChange+refund.WeekdayChange)
	assert.Zero(t, escrow.WeekendChange+refund.WeekendChange)
}

// Корректировка ограничивает баланс нулём, но в журнал идёт
// запрошенная дельта, а не применённая
func TestAdjustmentClampsBalanceButRecordsRequestedDelta(t *testing.T) {
	user := &model.User{ID: 7, WeekdayBalance: 2, WeekendBalance: 5}

	applyAdjustment(user, -10, 3)
	assert.Equal(t, 0, user.WeekdayBalance)
	assert.Equal(t, 8, user.WeekendBalance)

	entry := adjustEntry(user.ID, -10, 3, "")
	assert.Equal(t, model.TransactionTypeAdjustment, entry.Type)
	assert.Equal(t, -10, entry.WeekdayChange)
	assert.Equal(t, 3, entry.WeekendChange)
	assert.Nil(t, entry.BookingID)
	assert.Equal(t, "Manual quota adjustment by admin", entry.Description)
}

func TestAdjustEntryKeepsCustomDescription(t *testing.T) {
	entry := adjustEntry(7, 1, 0, "Compensation for outage")
	assert.Equal(t, "Compensation for outage", entry.Description)
}

// Годовой сброс записывает полное значение квоты, а не разницу
// с прежним балансом
func TestResetEntryRecordsFullQuota(t *testing.T) {
	user := &model.User{
		ID:             7,
		WeekdayQuota:   20,
		WeekendQuota:   8,
		WeekdayBalance: 3,
		WeekendBalance: 1,
	}

	entry := resetEntry(user)

	assert.Equal(t, int64(7), entry.UserID)
	assert.Equal(t, model.TransactionTypeReset, entry.Type)
	assert.Equal(t, 20, entry.WeekdayChange)
	assert.Equal(t, 8, entry.WeekendChange)
	assert.Equal(t, "Annual quota reset", entry.Description)
}
