package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nvlasov/cottage-booking/internal/apperr"
	"github.com/nvlasov/cottage-booking/internal/service"
)

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.InvalidInput(name + " must be an integer")
	}
	return id, nil
}

func (h *Handler) createBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput(err.Error()))
		return
	}

	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		h.respondError(c, err)
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), currentUser(c).ID, req.CottageID, checkIn, checkOut)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, booking)
}

func (h *Handler) listMyBookings(c *gin.Context) {
	bookings, err := h.bookings.ListByUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, bookings)
}

func (h *Handler) getBooking(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	booking, err := h.bookings.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, booking)
}

func (h *Handler) editBooking(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req editBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput(err.Error()))
		return
	}

	in := service.EditInput{CottageID: req.CottageID}
	if req.CheckIn != "" {
		checkIn, err := parseDate("check_in", req.CheckIn)
		if err != nil {
			h.respondError(c, err)
			return
		}
		in.CheckIn = &checkIn
	}
	if req.CheckOut != "" {
		checkOut, err := parseDate("check_out", req.CheckOut)
		if err != nil {
			h.respondError(c, err)
			return
		}
		in.CheckOut = &checkOut
	}

	booking, err := h.bookings.Edit(c.Request.Context(), currentUser(c).ID, id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, booking)
}

func (h *Handler) cancelBooking(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	booking, err := h.bookings.Cancel(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, booking)
}

func (h *Handler) deleteBooking(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.bookings.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

func (h *Handler) listCottages(c *gin.Context) {
	user := currentUser(c)
	if user.PropertyID == nil {
		h.respondError(c, apperr.AccessDenied("account is not linked to a property"))
		return
	}

	cottages, err := h.cottages.ListByProperty(c.Request.Context(), *user.PropertyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, cottages)
}

// cottageCalendar строит посуточный календарь занятости коттеджа
// за закрытый интервал [from, to]
func (h *Handler) cottageCalendar(c *gin.Context) {
	cottageID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	from, err := parseDate("from", c.Query("from"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	to, err := parseDate("to", c.Query("to"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if to.Before(from) {
		h.respondError(c, apperr.InvalidRange("to must not be before from"))
		return
	}

	days, err := h.availability.Calendar(c.Request.Context(), cottageID, from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"days": days})
}

// priceQuote считает стоимость интервала без создания заявки
func (h *Handler) priceQuote(c *gin.Context) {
	checkIn, checkOut, err := parseStay(c.Query("check_in"), c.Query("check_out"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !checkOut.After(checkIn) {
		h.respondError(c, apperr.InvalidRange("check_out must be after check_in"))
		return
	}

	cost, err := h.pricing.Price(c.Request.Context(), checkIn, checkOut)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"weekday_credits": cost.WeekdayCredits,
		"weekend_credits": cost.WeekendCredits,
		"total_credits":   cost.Total(),
	})
}

func (h *Handler) quotaStatus(c *gin.Context) {
	status, err := h.members.QuotaStatus(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, status)
}

func (h *Handler) quotaTransactions(c *gin.Context) {
	transactions, err := h.members.Transactions(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, transactions)
}
