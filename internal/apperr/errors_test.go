package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsComparesByCode(t *testing.T) {
	err := NotFound("booking")

	assert.True(t, errors.Is(err, NotFound("cottage")))
	assert.False(t, errors.Is(err, AccessDenied("nope")))
}

func TestErrorSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create booking: %w", InsufficientCredits("weekday", 3, 1))

	appErr := As(wrapped)
	assert.Equal(t, CodeInsufficientCredits, appErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	assert.Equal(t, 3, appErr.Details["required"])
	assert.Equal(t, 1, appErr.Details["available"])
}

func TestAsWrapsUnknownErrors(t *testing.T) {
	appErr := As(errors.New("connection reset"))

	require.NotNil(t, appErr)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}

func TestDateConflictDetails(t *testing.T) {
	day := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	err := DateConflict(day, "already booked")

	assert.Equal(t, "2025-06-03", err.Details["date"])
	assert.Equal(t, "already booked", err.Details["reason"])
	assert.Equal(t, http.StatusConflict, err.HTTPStatus)
}
