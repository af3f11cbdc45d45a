package controllers

import (
	"marketplace/pkg/resp"
	"marketplace/services"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(n *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: n}
}

// GET /api/notifications?unread=true
func (nc *NotificationController) List(c *gin.Context) {
	list, err := nc.notifications.List(utils.CurrentUserID(c), c.Query("unread") == "true")
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, list)
}

// PATCH /api/notifications/:id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := nc.notifications.MarkRead(utils.CurrentUserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id, "read": true})
}
