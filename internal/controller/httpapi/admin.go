package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/nvlasov/cottage-booking/internal/apperr"
	"github.com/nvlasov/cottage-booking/internal/service"
)

func (h *Handler) approvalQueue(c *gin.Context) {
	bookings, err := h.bookings.ApprovalQueue(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, bookings)
}

func (h *Handler) decideBooking(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput(err.Error()))
		return
	}

	booking, err := h.bookings.Decide(c.Request.Context(), id, service.Action(req.Action), req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, booking)
}

func (h *Handler) revokeBooking(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req revokeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondError(c, apperr.InvalidInput(err.Error()))
			return
		}
	}

	booking, err := h.bookings.Revoke(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, booking)
}

func (h *Handler) overrideBooking(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput(err.Error()))
		return
	}

	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		h.respondError(c, err)
		return
	}

	booking, err := h.bookings.Override(c.Request.Context(), service.OverrideInput{
		UserID:    req.UserID,
		CottageID: req.CottageID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, booking)
}

func (h *Handler) listMaintenance(c *gin.Context) {
	blocks, err := h.maintenance.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, blocks)
}

func (h *Handler) createMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput(err.Error()))
		return
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	block, err := h.maintenance.CreateBlock(c.Request.Context(), req.CottageID, start, end, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, block)
}

func (h *Handler) updateMaintenance(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput(err.Error()))
		return
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	block, err := h.maintenance.UpdateBlock(c.Request.Context(), id, start, end, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, block)
}

func (h *Handler) deleteMaintenance(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.maintenance.DeleteBlock(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// bulkRevoke аннулирует все активные бронирования, попавшие под блок
func (h *Handler) bulkRevoke(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req bulkRevokeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondError(c, apperr.InvalidInput(err.Error()))
			return
		}
	}

	count, err := h.maintenance.BulkRevoke(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"revoked": count})
}

// blockedBookings показывает бронирования, которые затронет bulk revoke
func (h *Handler) blockedBookings(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	bookings, err := h.maintenance.BlockedBookings(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, bookings)
}

func (h *Handler) listMembers(c *gin.Context) {
	members, err := h.members.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, members)
}

func (h *Handler) activateMember(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req activateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput(err.Error()))
		return
	}

	user, err := h.members.Activate(c.Request.Context(), id, req.PropertyID, req.WeekdayQuota, req.WeekendQuota)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, user)
}

func (h *Handler) adjustMemberQuota(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req adjustQuotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput(err.Error()))
		return
	}

	user, err := h.members.AdjustQuota(c.Request.Context(), id, req.WeekdayDelta, req.WeekendDelta, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, user)
}

func (h *Handler) resetAllQuotas(c *gin.Context) {
	count, err := h.members.ResetAllQuotas(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"users_reset": count})
}

func (h *Handler) deactivateMember(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.members.Deactivate(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"status": "suspended"})
}

func (h *Handler) reactivateMember(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.members.Reactivate(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"status": "active"})
}

func (h *Handler) memberTransactions(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	transactions, err := h.members.Transactions(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, transactions)
}

func (h *Handler) listHolidays(c *gin.Context) {
	holidays, err := h.seasons.ListHolidays(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, holidays)
}

func (h *Handler) setHoliday(c *gin.Context) {
	var req holidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput(err.Error()))
		return
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	day, err := h.seasons.SetHoliday(c.Request.Context(), date, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, day)
}

func (h *Handler) removeHoliday(c *gin.Context) {
	date, err := parseDate("date", c.Param("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.seasons.RemoveHoliday(c.Request.Context(), date); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

func (h *Handler) listSeasons(c *gin.Context) {
	seasons, err := h.seasons.ListSeasons(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, seasons)
}

func (h *Handler) createSeason(c *gin.Context) {
	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput(err.Error()))
		return
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	season, err := h.seasons.CreateSeason(c.Request.Context(), req.Name, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, season)
}

func (h *Handler) updateSeason(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput(err.Error()))
		return
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	season, err := h.seasons.UpdateSeason(c.Request.Context(), id, req.Name, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, season)
}

func (h *Handler) deleteSeason(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.seasons.DeleteSeason(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}
