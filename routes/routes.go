package routes

import (
	"net/http"

	"marketplace/configs"
	"marketplace/controllers"
	"marketplace/entity"
	"marketplace/middlewares"
	"marketplace/repository"
	"marketplace/services"
	"marketplace/ws"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth          *controllers.AuthController
	Issues        *controllers.IssueController
	Services      *controllers.ServiceController
	KYC           *controllers.KYCController
	Bookings      *controllers.BookingController
	Artisans      *controllers.ArtisanController
	Payments      *controllers.PaymentController
	Notifications *controllers.NotificationController
	Admin         *controllers.AdminController
	Hub           *ws.NotificationHub
	Users         *repository.UserRepository
}

func RegisterRoutes(r *gin.Engine, cfg *configs.Config, h Handlers) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.Static("/uploads", cfg.UploadDir)

	auth := middlewares.AuthMiddleware(cfg.JWTSecret)
	admin := middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleAdmin)
	kyc := middlewares.RequireKYC(h.Users)

	api := r.Group("/api")

	// Auth (public)
	a := api.Group("/auth")
	{
		a.POST("/register", h.Auth.Register)
		a.POST("/login", h.Auth.Login)
		a.GET("/verify/:token", h.Auth.VerifyEmail)
	}

	// Auth (protected)
	aAuth := a.Group("", auth)
	{
		aAuth.GET("/me", h.Auth.Me)
		aAuth.PATCH("/me/fcm-token", h.Auth.UpdateFCMToken)
		aAuth.POST("/resend-verification", h.Auth.ResendVerification)
	}

	// Service catalog
	api.GET("/services", h.Services.List)
	api.GET("/services/:id", h.Services.Get)
	svcAdmin := api.Group("/services", admin)
	{
		svcAdmin.POST("", h.Services.Create)
		svcAdmin.PATCH("/:id", h.Services.Update)
		svcAdmin.DELETE("/:id", h.Services.Delete)
	}

	// Issues
	issues := api.Group("/issues", auth)
	{
		issues.POST("", middlewares.IssueUpload(cfg.UploadDir), h.Issues.Create)
		issues.GET("", h.Issues.ListMine)
		issues.GET("/:id", h.Issues.Get)
	}

	// KYC
	k := api.Group("/kyc", auth)
	{
		k.POST("", middlewares.KYCUpload(cfg.UploadDir), h.KYC.Submit)
		k.GET("/me", h.KYC.Status)
	}

	// Bookings
	b := api.Group("/bookings", auth)
	{
		b.POST("", kyc, h.Bookings.Create)
		b.GET("", h.Bookings.ListMine)
		b.GET("/:id", h.Bookings.Get)
		for _, action := range []string{
			services.ActionAccept,
			services.ActionReject,
			services.ActionStart,
			services.ActionComplete,
			services.ActionCancel,
		} {
			b.PATCH("/:id/"+action, h.Bookings.Transition(action))
		}
	}

	api.GET("/artisans", auth, h.Artisans.List)

	// Payments
	p := api.Group("/payments", auth, kyc)
	{
		p.POST("/paystack/initialize", h.Payments.PaystackInitialize)
		p.GET("/paystack/verify/:reference", h.Payments.PaystackVerify)
		p.POST("/flutterwave/charge", h.Payments.FlutterwaveCharge)
		p.GET("/flutterwave/verify/:id", h.Payments.FlutterwaveVerify)
	}

	// Notifications
	n := api.Group("/notifications", auth)
	{
		n.GET("", h.Notifications.List)
		n.PATCH("/:id/read", h.Notifications.MarkRead)
	}
	r.GET("/ws/notifications", middlewares.WSAuthMiddleware(cfg.JWTSecret), h.Hub.HandleWebSocket)

	// Admin (admin only)
	ad := api.Group("/admin", admin)
	{
		ad.GET("/dashboard", h.Admin.Dashboard)
		ad.GET("/issues", h.Issues.AdminList)
		ad.PATCH("/issues/:id", h.Issues.AdminUpdate)
		ad.GET("/kyc", h.KYC.List)
		ad.PATCH("/kyc/:id/approve", h.KYC.Approve)
		ad.PATCH("/kyc/:id/reject", h.KYC.Reject)
	}
}
