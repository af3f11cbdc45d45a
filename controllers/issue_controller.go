package controllers

import (
	"strconv"

	"marketplace/pkg/resp"
	"marketplace/repository"
	"marketplace/services"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

type IssueController struct {
	issues *services.IssueService
}

func NewIssueController(issues *services.IssueService) *IssueController {
	return &IssueController{issues: issues}
}

// POST /api/issues (multipart; optional "file" handled by the upload middleware)
func (ic *IssueController) Create(c *gin.Context) {
	var req services.CreateIssueInput
	if err := c.ShouldBind(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	file := ""
	if f, ok := utils.UploadedFiles(c)["file"]; ok {
		file = f.Path
	}

	issue, err := ic.issues.Create(c.Request.Context(), utils.CurrentUserID(c), req, file)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, issue)
}

// GET /api/issues
func (ic *IssueController) ListMine(c *gin.Context) {
	issues, err := ic.issues.ListMine(utils.CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, issues)
}

// GET /api/issues/:id
func (ic *IssueController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	issue, err := ic.issues.Get(utils.CurrentUserID(c), utils.CurrentRole(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, issue)
}

// GET /api/admin/issues?status=&priority=&category=&page=&limit=
func (ic *IssueController) AdminList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	f := repository.IssueFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Page:     page,
		Limit:    limit,
	}
	issues, total, err := ic.issues.List(f)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": issues, "total": total, "page": f.Page})
}

// PATCH /api/admin/issues/:id
func (ic *IssueController) AdminUpdate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateIssueInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	issue, err := ic.issues.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, issue)
}
