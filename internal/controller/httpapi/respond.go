package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nvlasov/cottage-booking/internal/apperr"
	"go.uber.org/zap"
)

// respondError переводит ошибку приложения в JSON-ответ. Внутренние
// ошибки логируются целиком, клиенту уходит только общий код
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := apperr.As(err)

	if appErr.Code == apperr.CodeInternal {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{"error": appErr})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func respondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
