package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/configs"
	"marketplace/controllers"
	"marketplace/middlewares"
	"marketplace/pkg/events"
	"marketplace/pkg/fcm"
	"marketplace/pkg/flutterwave"
	"marketplace/pkg/logger"
	"marketplace/pkg/maps"
	"marketplace/pkg/paystack"
	"marketplace/pkg/verifyme"
	"marketplace/repository"
	"marketplace/routes"
	"marketplace/services"
	"marketplace/workers"
	"marketplace/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()
	logger.InitDefaultLogger(logger.GlobalLoggerConfig{
		Level: cfg.LogLevel,
		Args:  []logger.LoggerArg{{Key: "service", Value: "marketplace-api"}},
	})
	log := logger.Default()

	// DB
	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		log.Fatal(err, "connect database failed")
	}
	if err := configs.SetupDatabase(db); err != nil {
		log.Fatal(err, "migrate failed")
	}
	if err := configs.SeedAdmin(db, cfg); err != nil {
		log.Fatal(err, "seed admin failed")
	}
	if err := configs.SeedServices(db); err != nil {
		log.Fatal(err, "seed services failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Providers. Anything without credentials stays nil and its endpoints
	// answer "provider not configured".
	var push services.PushSender
	if cfg.FirebaseCredentialsFile != "" {
		c, err := fcm.New(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			log.Error(err, "firebase messaging disabled")
		} else {
			push = c
		}
	}

	var distance services.DistanceCalculator
	if cfg.GoogleMapsAPIKey != "" {
		c, err := maps.New(cfg.GoogleMapsAPIKey)
		if err != nil {
			log.Error(err, "google maps disabled")
		} else {
			distance = c
		}
	}

	var ps services.PaystackGateway
	if cfg.PaystackSecretKey != "" {
		ps = paystack.NewClient(cfg.PaystackSecretKey, paystack.WithBaseURL(cfg.PaystackBaseURL))
	}

	var flw services.FlutterwaveGateway
	if cfg.FlutterwaveSecretKey != "" {
		flw = flutterwave.NewClient(cfg.FlutterwaveSecretKey, cfg.FlutterwaveEncryptionKey,
			flutterwave.WithBaseURL(cfg.FlutterwaveBaseURL))
	}

	var verifier services.IdentityVerifier
	if cfg.VerifyMeAPIKey != "" {
		verifier = verifyme.NewClient(cfg.VerifyMeAPIKey, verifyme.WithBaseURL(cfg.VerifyMeBaseURL))
	}

	var pub events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		rp, err := events.Dial(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Error(err, "rabbitmq unavailable, events are dropped")
		} else {
			pub = rp
		}
	}
	defer pub.Close()

	hub := ws.NewNotificationHub()
	go hub.Run()
	defer hub.Stop()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	kycRepo := repository.NewKYCRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	notifier := services.NewNotificationService(notificationRepo, userRepo, push, hub)
	authSvc := services.NewAuthService(userRepo, serviceRepo, services.AuthConfig{
		JWTSecret:       cfg.JWTSecret,
		JWTTTL:          cfg.JWTTTL,
		VerificationTTL: cfg.VerificationTTL,
		AppURL:          cfg.AppURL,
	})
	issueSvc := services.NewIssueService(issueRepo, userRepo, notifier, pub)
	catalogSvc := services.NewCatalogService(serviceRepo)
	kycSvc := services.NewKYCService(kycRepo, userRepo, verifier, notifier, pub)
	bookingSvc := services.NewBookingService(bookingRepo, userRepo, serviceRepo, distance, notifier, pub)
	artisanSvc := services.NewArtisanService(userRepo, distance)
	paymentSvc := services.NewPaymentService(paymentRepo, bookingRepo, userRepo, ps, flw, notifier, pub, cfg.AppURL+"/payments/callback")
	adminSvc := services.NewAdminService(userRepo, issueRepo, kycRepo, bookingRepo, paymentRepo)

	runner := workers.NewRunner(workers.NewIssueAutoCloser(issueSvc, cfg.IssueAutoCloseAge, workers.DefaultAutoCloseSchedule))
	runner.Start()
	defer runner.Stop()

	// HTTP
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(log), middlewares.CORSMiddleware())

	routes.RegisterRoutes(r, cfg, routes.Handlers{
		Auth:          controllers.NewAuthController(authSvc),
		Issues:        controllers.NewIssueController(issueSvc),
		Services:      controllers.NewServiceController(catalogSvc),
		KYC:           controllers.NewKYCController(kycSvc),
		Bookings:      controllers.NewBookingController(bookingSvc),
		Artisans:      controllers.NewArtisanController(artisanSvc),
		Payments:      controllers.NewPaymentController(paymentSvc),
		Notifications: controllers.NewNotificationController(notifier),
		Admin:         controllers.NewAdminController(adminSvc),
		Hub:           hub,
		Users:         userRepo,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("REST API is now listening on: %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "graceful shutdown failed")
	}
}
