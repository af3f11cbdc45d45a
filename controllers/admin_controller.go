package controllers

import (
	"marketplace/pkg/resp"
	"marketplace/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{admin: admin}
}

// GET /api/admin/dashboard
func (ac *AdminController) Dashboard(c *gin.Context) {
	d, err := ac.admin.Dashboard()
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, d)
}
