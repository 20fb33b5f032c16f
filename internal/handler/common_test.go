package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopapi/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// 業務エラー → HTTPステータスの対応表
func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", domain.NewValidationError("quantity must be greater than 0"), http.StatusBadRequest},
		{"empty cart", domain.ErrEmptyCart, http.StatusBadRequest},
		{"email taken", domain.ErrEmailTaken, http.StatusBadRequest},
		{"product conflict", domain.ErrProductConflict, http.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"order not found", domain.ErrOrderNotFound, http.StatusNotFound},
		{"product not found", domain.ErrProductNotFound, http.StatusNotFound},
		{"unavailable product", &domain.ProductUnavailableError{ProductID: 100, Reason: domain.ReasonInsufficientInventory}, http.StatusConflict},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t, "/")

			assert.NoError(t, writeError(c, tc.err))
			assert.Equal(t, tc.wantStatus, rec.Code)

			var body ErrorResponse
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

// 内部エラーの文言は外に漏らさない
func TestWriteError_InternalErrorIsOpaque(t *testing.T) {
	c, rec := newTestContext(t, "/")

	assert.NoError(t, writeError(c, errors.New("pq: connection refused")))

	var body ErrorResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal error", body.Error)
}

func TestParseSkipLimit(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, _ := newTestContext(t, "/orders")

		skip, limit, err := parseSkipLimit(c, 20)
		assert.NoError(t, err)
		assert.Equal(t, 0, skip)
		assert.Equal(t, 20, limit)
	})

	t.Run("explicit values", func(t *testing.T) {
		c, _ := newTestContext(t, "/orders?skip=40&limit=10")

		skip, limit, err := parseSkipLimit(c, 20)
		assert.NoError(t, err)
		assert.Equal(t, 40, skip)
		assert.Equal(t, 10, limit)
	})

	t.Run("negative skip", func(t *testing.T) {
		c, _ := newTestContext(t, "/orders?skip=-1")

		_, _, err := parseSkipLimit(c, 20)
		assert.Error(t, err)
	})

	t.Run("zero limit", func(t *testing.T) {
		c, _ := newTestContext(t, "/orders?limit=0")

		_, _, err := parseSkipLimit(c, 20)
		assert.Error(t, err)
	})

	t.Run("non-numeric", func(t *testing.T) {
		c, _ := newTestContext(t, "/orders?skip=abc")

		_, _, err := parseSkipLimit(c, 20)
		assert.Error(t, err)
	})
}
