package httpapi

import (
	"time"

	"github.com/nvlasov/cottage-booking/internal/apperr"
)

const dateLayout = "2006-01-02"

// parseDate разбирает дату формата YYYY-MM-DD
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.InvalidInput(field + " must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// parseStay разбирает пару дат заезда и выезда
func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := parseDate("check_in", checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := parseDate("check_out", checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

type createBookingRequest struct {
	CottageID int64  `json:"cottage_id" binding:"required"`
	CheckIn   string `json:"check_in" binding:"required"`
	CheckOut  string `json:"check_out" binding:"required"`
}

type editBookingRequest struct {
	CottageID *int64 `json:"cottage_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
}

type decideRequest struct {
	Action string `json:"action" binding:"required"`
	Notes  string `json:"notes"`
}

type revokeRequest struct {
	Reason string `json:"reason"`
}

type overrideRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	CottageID int64  `json:"cottage_id" binding:"required"`
	CheckIn   string `json:"check_in" binding:"required"`
	CheckOut  string `json:"check_out" binding:"required"`
	Notes     string `json:"notes"`
}

type maintenanceRequest struct {
	CottageID int64  `json:"cottage_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type bulkRevokeRequest struct {
	Reason string `json:"reason"`
}

type activateMemberRequest struct {
	PropertyID   int64 `json:"property_id" binding:"required"`
	WeekdayQuota int   `json:"weekday_quota" binding:"min=0"`
	WeekendQuota int   `json:"weekend_quota" binding:"min=0"`
}

type adjustQuotaRequest struct {
	WeekdayDelta int    `json:"weekday_delta"`
	WeekendDelta int    `json:"weekend_delta"`
	Description  string `json:"description"`
}

type holidayRequest struct {
	Date string `json:"date" binding:"required"`
	Name string `json:"name"`
}

type seasonRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}
