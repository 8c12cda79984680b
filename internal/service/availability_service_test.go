package service

import (
	"testing"

	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(id int64, status model.BookingStatus, checkIn, checkOut string) *model.Booking {
	return &model.Booking{
		ID:       id,
		Status:   status,
		CheckIn:  date(checkIn),
		CheckOut: date(checkOut),
	}
}

func block(start, end string) *model.MaintenanceBlock {
	return &model.MaintenanceBlock{StartDate: date(start), EndDate: date(end)}
}

func TestFirstConflict(t *testing.T) {
	t.Run("free range has no conflict", func(t *testing.T) {
		_, _, conflict := FirstConflict(date("2025-06-02"), date("2025-06-05"), nil, nil, 0)
		assert.False(t, conflict)
	})

	t.Run("pending booking blocks its nights", func(t *testing.T) {
		bookings := []*model.Booking{booking(1, model.BookingStatusPending, "2025-06-03", "2025-06-05")}

		day, state, conflict := FirstConflict(date("2025-06-02"), date("2025-06-06"), bookings, nil, 0)
		require.True(t, conflict)
		assert.Equal(t, date("2025-06-03"), day)
		assert.Equal(t, DayBooked, state)
	})

	t.Run("booking check-out day is free", func(t *testing.T) {
		bookings := []*model.Booking{booking(1, model.BookingStatusConfirmed, "2025-06-02", "2025-06-05")}

		_, _, conflict := FirstConflict(date("2025-06-05"), date("2025-06-08"), bookings, nil, 0)
		assert.False(t, conflict)
	})

	t.Run("maintenance end date is still blocked", func(t *testing.T) {
		blocks := []*model.MaintenanceBlock{block("2025-06-02", "2025-06-05")}

		day, state, conflict := FirstConflict(date("2025-06-05"), date("2025-06-08"), nil, blocks, 0)
		require.True(t, conflict)
		assert.Equal(t, date("2025-06-05"), day)
		assert.Equal(t, DayMaintenance, state)
	})

	t.Run("rejected and cancelled bookings do not block", func(t *testing.T) {
		bookings := []*model.Booking{
			booking(1, model.BookingStatusRejected, "2025-06-02", "2025-06-05"),
			booking(2, model.BookingStatusCancelled, "2025-06-02", "2025-06-05"),
		}

		_, _, conflict := FirstConflict(date("2025-06-02"), date("2025-06-05"), bookings, nil, 0)
		assert.False(t, conflict)
	})

	t.Run("edited booking does not conflict with itself", func(t *testing.T) {
		bookings := []*model.Booking{booking(7, model.BookingStatusPending, "2025-06-02", "2025-06-05")}

		_, _, conflict := FirstConflict(date("2025-06-03"), date("2025-06-06"), bookings, nil, 7)
		assert.False(t, conflict)
	})

	t.Run("booking conflict reported before maintenance", func(t *testing.T) {
		bookings := []*model.Booking{booking(1, model.BookingStatusPending, "2025-06-02", "2025-06-03")}
		blocks := []*model.MaintenanceBlock{block("2025-06-02", "2025-06-04")}

		_, state, conflict := FirstConflict(date("2025-06-02"), date("2025-06-05"), bookings, blocks, 0)
		require.True(t, conflict)
		assert.Equal(t, DayBooked, state)
	})
}

func TestDayStatus(t *testing.T) {
	bookings := []*model.Booking{booking(1, model.BookingStatusConfirmed, "2025-06-02", "2025-06-05")}
	blocks := []*model.MaintenanceBlock{block("2025-06-04", "2025-06-06")}

	// обслуживание перекрывает бронирование в календаре
	assert.Equal(t, DayBooked, dayStatus(date("2025-06-02"), bookings, blocks))
	assert.Equal(t, DayMaintenance, dayStatus(date("2025-06-04"), bookings, blocks))
	assert.Equal(t, DayMaintenance, dayStatus(date("2025-06-06"), bookings, blocks))
	assert.Equal(t, DayAvailable, dayStatus(date("2025-06-07"), bookings, blocks))
}
