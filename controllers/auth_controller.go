package controllers

import (
	"errors"
	"net/http"

	"marketplace/entity"
	"marketplace/pkg/resp"
	"marketplace/services"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type FCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func userView(u *entity.User) gin.H {
	return gin.H{
		"id": u.ID, "email": u.Email, "firstName": u.FirstName,
		"lastName": u.LastName, "phoneNumber": u.PhoneNumber, "role": u.Role,
		"emailVerified": u.EmailVerified, "kycStatus": u.KYCStatus,
		"kyc":       utils.GetKYCStatusInfo(u.KYCStatus),
		"serviceId": u.ServiceID,
	}
}

// POST /api/auth/register
func (a *AuthController) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	user, err := a.auth.Register(req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.Created(c, userView(user))
}

// POST /api/auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	token, user, err := a.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"token": token,
		"user":  userView(user),
	})
}

// GET /api/auth/verify/:token
// The verification page reads {success, message}, not the usual envelope.
func (a *AuthController) VerifyEmail(c *gin.Context) {
	_, err := a.auth.VerifyEmail(c.Param("token"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully"})
	case errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Verification failed. Please try again."})
	}
}

// POST /api/auth/resend-verification
func (a *AuthController) ResendVerification(c *gin.Context) {
	if err := a.auth.ResendVerification(utils.CurrentUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "Verification email sent"})
}

// GET /api/auth/me
func (a *AuthController) Me(c *gin.Context) {
	user, err := a.auth.GetProfile(utils.CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, userView(user))
}

// PATCH /api/auth/me/fcm-token
func (a *AuthController) UpdateFCMToken(c *gin.Context) {
	var req FCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := a.auth.UpdateFCMToken(c.Request.Context(), utils.CurrentUserID(c), req.Token); err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "token updated"})
}
