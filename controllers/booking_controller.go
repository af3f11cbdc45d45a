package controllers

import (
	"marketplace/pkg/resp"
	"marketplace/services"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

// POST /api/bookings
func (bc *BookingController) Create(c *gin.Context) {
	var req services.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	b, err := bc.bookings.Create(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, b)
}

// GET /api/bookings?status=
func (bc *BookingController) ListMine(c *gin.Context) {
	list, err := bc.bookings.ListMine(utils.CurrentUserID(c), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, list)
}

func (bc *BookingController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := bc.bookings.Get(utils.CurrentUserID(c), utils.CurrentRole(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, b)
}

// Transition returns the handler for PATCH /api/bookings/:id/<action>.
func (bc *BookingController) Transition(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		b, err := bc.bookings.Transition(c.Request.Context(), utils.CurrentUserID(c), utils.CurrentRole(c), id, action)
		if err != nil {
			writeError(c, err)
			return
		}
		resp.OK(c, b)
	}
}
