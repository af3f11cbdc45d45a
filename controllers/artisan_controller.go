package controllers

import (
	"strconv"

	"marketplace/pkg/resp"
	"marketplace/services"

	"github.com/gin-gonic/gin"
)

type ArtisanController struct {
	artisans *services.ArtisanService
}

func NewArtisanController(artisans *services.ArtisanService) *ArtisanController {
	return &ArtisanController{artisans: artisans}
}

// GET /api/artisans?serviceId=&lat=&lng=
func (ac *ArtisanController) List(c *gin.Context) {
	var serviceID uint
	if v := c.Query("serviceId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			resp.BadRequest(c, "invalid serviceId")
			return
		}
		serviceID = uint(id)
	}
	list, err := ac.artisans.List(c.Request.Context(), serviceID, queryFloat(c, "lat"), queryFloat(c, "lng"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, list)
}
