package controllers

import (
	"marketplace/pkg/resp"
	"marketplace/services"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

type initializePaymentReq struct {
	BookingID uint `json:"bookingId" binding:"required"`
}

// POST /api/payments/paystack/initialize
func (pc *PaymentController) PaystackInitialize(c *gin.Context) {
	var req initializePaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := pc.payments.InitializePaystack(c.Request.Context(), utils.CurrentUserID(c), req.BookingID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, out)
}

// GET /api/payments/paystack/verify/:reference
func (pc *PaymentController) PaystackVerify(c *gin.Context) {
	p, err := pc.payments.VerifyPaystack(c.Request.Context(), utils.CurrentUserID(c), c.Param("reference"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, p)
}

// POST /api/payments/flutterwave/charge
func (pc *PaymentController) FlutterwaveCharge(c *gin.Context) {
	var req services.FlutterwaveChargeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := pc.payments.ChargeFlutterwave(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, out)
}

// GET /api/payments/flutterwave/verify/:id
func (pc *PaymentController) FlutterwaveVerify(c *gin.Context) {
	p, err := pc.payments.VerifyFlutterwave(c.Request.Context(), utils.CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, p)
}
