package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nvlasov/cottage-booking/internal/repository"
	"github.com/nvlasov/cottage-booking/internal/service"
	"go.uber.org/zap"
)

// Handler объединяет зависимости HTTP-слоя
type Handler struct {
	bookings     *service.BookingService
	maintenance  *service.MaintenanceService
	members      *service.MemberService
	seasons      *service.SeasonService
	availability *service.AvailabilityService
	pricing      *service.PricingService
	users        *repository.UserRepository
	cottages     *repository.CottageRepository
	logger       *zap.Logger
}

func NewHandler(
	bookings *service.BookingService,
	maintenance *service.MaintenanceService,
	members *service.MemberService,
	seasons *service.SeasonService,
	availability *service.AvailabilityService,
	pricing *service.PricingService,
	users *repository.UserRepository,
	cottages *repository.CottageRepository,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bookings:     bookings,
		maintenance:  maintenance,
		members:      members,
		seasons:      seasons,
		availability: availability,
		pricing:      pricing,
		users:        users,
		cottages:     cottages,
		logger:       logger,
	}
}

// Router собирает все маршруты API. Аутентификация - по заголовку
// X-User-ID: внешняя аутентификация выполняется до этого сервиса
func (h *Handler) Router(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), h.RequestID(), h.Logging())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", h.Authenticate())

	owner := api.Group("", h.RequireActive())
	{
		owner.POST("/bookings", h.createBooking)
		owner.GET("/bookings", h.listMyBookings)
		owner.GET("/bookings/:id", h.getBooking)
		owner.PUT("/bookings/:id", h.editBooking)
		owner.POST("/bookings/:id/cancel", h.cancelBooking)
		owner.DELETE("/bookings/:id", h.deleteBooking)

		owner.GET("/cottages", h.listCottages)
		owner.GET("/cottages/:id/calendar", h.cottageCalendar)
		owner.GET("/pricing/quote", h.priceQuote)

		owner.GET("/quota", h.quotaStatus)
		owner.GET("/quota/transactions", h.quotaTransactions)
	}

	admin := api.Group("/admin", h.RequireAdmin())
	{
		admin.GET("/bookings/pending", h.approvalQueue)
		admin.POST("/bookings/:id/decide", h.decideBooking)
		admin.POST("/bookings/:id/revoke", h.revokeBooking)
		admin.POST("/bookings/override", h.overrideBooking)

		admin.GET("/maintenance", h.listMaintenance)
		admin.POST("/maintenance", h.createMaintenance)
		admin.PUT("/maintenance/:id", h.updateMaintenance)
		admin.DELETE("/maintenance/:id", h.deleteMaintenance)
		admin.GET("/maintenance/:id/bookings", h.blockedBookings)
		admin.POST("/maintenance/:id/revoke-bookings", h.bulkRevoke)

		admin.GET("/members", h.listMembers)
		admin.POST("/members/:id/activate", h.activateMember)
		admin.POST("/members/:id/adjust-quota", h.adjustMemberQuota)
		admin.POST("/members/reset-quotas", h.resetAllQuotas)
		admin.POST("/members/:id/deactivate", h.deactivateMember)
		admin.POST("/members/:id/reactivate", h.reactivateMember)
		admin.GET("/members/:id/transactions", h.memberTransactions)

		admin.GET("/holidays", h.listHolidays)
		admin.POST("/holidays", h.setHoliday)
		admin.DELETE("/holidays/:date", h.removeHoliday)

		admin.GET("/seasons", h.listSeasons)
		admin.POST("/seasons", h.createSeason)
		admin.PUT("/seasons/:id", h.updateSeason)
		admin.DELETE("/seasons/:id", h.deleteSeason)
	}

	return r
}
