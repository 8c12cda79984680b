package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBookingNights(t *testing.T) {
	b := &Booking{CheckIn: day("2025-06-02"), CheckOut: day("2025-06-05")}
	assert.Equal(t, 3, b.Nights())

	single := &Booking{CheckIn: day("2025-06-02"), CheckOut: day("2025-06-03")}
	assert.Equal(t, 1, single.Nights())
}

func TestBookingCoversDay(t *testing.T) {
	b := &Booking{CheckIn: day("2025-06-02"), CheckOut: day("2025-06-05")}

	assert.False(t, b.CoversDay(day("2025-06-01")))
	assert.True(t, b.CoversDay(day("2025-06-02")))
	assert.True(t, b.CoversDay(day("2025-06-04")))
	// день выезда не занят
	assert.False(t, b.CoversDay(day("2025-06-05")))
}

func TestMaintenanceBlockCovers(t *testing.T) {
	block := &MaintenanceBlock{StartDate: day("2025-06-02"), EndDate: day("2025-06-05")}

	assert.False(t, block.Covers(day("2025-06-01")))
	assert.True(t, block.Covers(day("2025-06-02")))
	// интервал блока закрытый: последний день тоже занят
	assert.True(t, block.Covers(day("2025-06-05")))
	assert.False(t, block.Covers(day("2025-06-06")))
}

func TestBookingIsActive(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingStatusPending}).IsActive())
	assert.True(t, (&Booking{Status: BookingStatusConfirmed}).IsActive())
	assert.False(t, (&Booking{Status: BookingStatusRejected}).IsActive())
	assert.False(t, (&Booking{Status: BookingStatusCancelled}).IsActive())
}
