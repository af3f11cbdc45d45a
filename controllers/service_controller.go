package controllers

import (
	"marketplace/pkg/resp"
	"marketplace/services"

	"github.com/gin-gonic/gin"
)

type ServiceController struct {
	catalog *services.CatalogService
}

func NewServiceController(catalog *services.CatalogService) *ServiceController {
	return &ServiceController{catalog: catalog}
}

// GET /api/services?q=
func (sc *ServiceController) List(c *gin.Context) {
	list, err := sc.catalog.List(c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, list)
}

func (sc *ServiceController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	svc, err := sc.catalog.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, svc)
}

func (sc *ServiceController) Create(c *gin.Context) {
	var req services.ServiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	svc, err := sc.catalog.Create(req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, svc)
}

func (sc *ServiceController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.ServiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	svc, err := sc.catalog.Update(id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, svc)
}

func (sc *ServiceController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := sc.catalog.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": id})
}
