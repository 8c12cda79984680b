package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nvlasov/cottage-booking/internal/apperr"
	"github.com/nvlasov/cottage-booking/internal/model"
	"go.uber.org/zap"
)

const (
	ctxKeyRequestID = "request_id"
	ctxKeyUser      = "current_user"
)

func requestID(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}

// currentUser возвращает аутентифицированного пользователя запроса
func currentUser(c *gin.Context) *model.User {
	return c.MustGet(ctxKeyUser).(*model.User)
}

// RequestID присваивает каждому запросу идентификатор для
// сквозной трассировки в логах
func (h *Handler) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logging пишет итог каждого запроса в структурированный лог
func (h *Handler) Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.logger.Info("Request handled",
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// Authenticate загружает пользователя по заголовку X-User-ID.
// Заблокированным аккаунтам доступ закрыт
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "UNAUTHENTICATED",
				"message": "X-User-ID header is required",
			}})
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "UNAUTHENTICATED",
				"message": "X-User-ID must be an integer",
			}})
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		if user == nil {
			h.respondError(c, apperr.NotFound("user"))
			return
		}
		if user.Status == model.UserStatusSuspended {
			h.respondError(c, apperr.AccessDenied("account is suspended"))
			return
		}

		c.Set(ctxKeyUser, user)
		c.Next()
	}
}

// RequireActive пропускает только активированные аккаунты
func (h *Handler) RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if !user.IsAdmin() && user.Status != model.UserStatusActive {
			h.respondError(c, apperr.AccessDenied("account is not activated"))
			return
		}
		c.Next()
	}
}

// RequireAdmin пропускает только администраторов
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentUser(c).IsAdmin() {
			h.respondError(c, apperr.AccessDenied("admin access required"))
			return
		}
		c.Next()
	}
}
