package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"marketplace/entity"
	"marketplace/pkg/flutterwave"
	"marketplace/pkg/logger"
	"marketplace/pkg/paystack"
	"marketplace/pkg/resp"
	"marketplace/services"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		verr *entity.ValidationError
		pse  *paystack.APIError
		flwe *flutterwave.APIError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, services.ErrBadInput):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		resp.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNotPending):
		resp.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotConfigured):
		resp.Unavailable(c, err.Error())
	case errors.As(err, &pse):
		resp.Error(c, http.StatusBadGateway, pse.Message)
	case errors.As(err, &flwe):
		resp.Error(c, http.StatusBadGateway, flwe.Message)
	default:
		logger.Default().Errorf(err, "%s %s", c.Request.Method, c.FullPath())
		resp.ServerError(c, err)
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		resp.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryFloat(c *gin.Context, name string) *float64 {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
