package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// buildTestApp собирает минимальный роутер с подставным пользователем
// вместо аутентификации по заголовку
func buildTestApp(user *model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{logger: zap.NewNop()}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ctxKeyRequestID, "test")
		c.Set(ctxKeyUser, user)
	})

	r.GET("/admin-only", h.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/active-only", h.RequireActive(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRequireAdmin(t *testing.T) {
	owner := &model.User{ID: 1, Role: model.UserRoleOwner, Status: model.UserStatusActive}
	admin := &model.User{ID: 2, Role: model.UserRoleAdmin, Status: model.UserStatusActive}

	assert.Equal(t, http.StatusForbidden, doGet(buildTestApp(owner), "/admin-only").Code)
	assert.Equal(t, http.StatusOK, doGet(buildTestApp(admin), "/admin-only").Code)
}

func TestRequireActive(t *testing.T) {
	pending := &model.User{ID: 1, Role: model.UserRoleOwner, Status: model.UserStatusPending}
	active := &model.User{ID: 2, Role: model.UserRoleOwner, Status: model.UserStatusActive}
	admin := &model.User{ID: 3, Role: model.UserRoleAdmin, Status: model.UserStatusPending}

	assert.Equal(t, http.StatusForbidden, doGet(buildTestApp(pending), "/active-only").Code)
	assert.Equal(t, http.StatusOK, doGet(buildTestApp(active), "/active-only").Code)
	// администратору активация не нужна
	assert.Equal(t, http.StatusOK, doGet(buildTestApp(admin), "/active-only").Code)
}

func TestParseStay(t *testing.T) {
	in, out, err := parseStay("2025-06-02", "2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", in.Format("2006-01-02"))
	assert.Equal(t, "2025-06-05", out.Format("2006-01-02"))

	_, _, err = parseStay("06/02/2025", "2025-06-05")
	require.Error(t, err)

	_, _, err = parseStay("2025-06-02", "not-a-date")
	require.Error(t, err)
}
