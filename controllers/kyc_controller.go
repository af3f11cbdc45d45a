package controllers

import (
	"marketplace/pkg/resp"
	"marketplace/services"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

type KYCController struct {
	kyc *services.KYCService
}

func NewKYCController(kyc *services.KYCService) *KYCController {
	return &KYCController{kyc: kyc}
}

// POST /api/kyc (multipart: idProof, addressProof, credentials)
func (kc *KYCController) Submit(c *gin.Context) {
	var req services.KYCSubmission
	if err := c.ShouldBind(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	files := utils.UploadedFiles(c)
	req.IDProof = files["idProof"].Path
	req.AddressProof = files["addressProof"].Path
	req.Credentials = files["credentials"].Path

	app, err := kc.kyc.Submit(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, app)
}

// GET /api/kyc/me
func (kc *KYCController) Status(c *gin.Context) {
	view, err := kc.kyc.Status(utils.CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, view)
}

// GET /api/admin/kyc?status=
func (kc *KYCController) List(c *gin.Context) {
	apps, err := kc.kyc.List(c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, apps)
}

// PATCH /api/admin/kyc/:id/approve
func (kc *KYCController) Approve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	app, err := kc.kyc.Approve(c.Request.Context(), id, utils.CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, app)
}

// PATCH /api/admin/kyc/:id/reject
func (kc *KYCController) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	app, err := kc.kyc.Reject(c.Request.Context(), id, utils.CurrentUserID(c), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, app)
}
