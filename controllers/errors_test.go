package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/entity"
	"marketplace/pkg/flutterwave"
	"marketplace/pkg/paystack"
	"marketplace/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func statusFor(err error) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, err)
	return w.Code
}

func TestWriteErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&entity.ValidationError{Model: "issue", Fields: map[string]string{"title": "title is required"}}, http.StatusBadRequest},
		{fmt.Errorf("%w: amount", services.ErrBadInput), http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: dup", services.ErrConflict), http.StatusConflict},
		{services.ErrInvalidTransition, http.StatusConflict},
		{services.ErrNotPending, http.StatusConflict},
		{services.ErrNotConfigured, http.StatusServiceUnavailable},
		{&paystack.APIError{StatusCode: 400, Message: "Invalid key"}, http.StatusBadGateway},
		{&flutterwave.APIError{StatusCode: 404, Message: "No transaction"}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, errors.New("sql: database is locked"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"internal server error"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, &paystack.APIError{Message: "payment gateway unreachable", Err: errors.New("dial tcp 10.0.0.1:443: connection refused")})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"payment gateway unreachable"}`, w.Body.String())
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "0"}}

	_, ok := paramID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := paramID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}
