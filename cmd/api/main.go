package main

import (
	"context"
	"net/http"

	_ "fleetadmin/api/swagger" // swagger docs
	"fleetadmin/internal/config"
	"fleetadmin/internal/database"
	"fleetadmin/internal/handler"
	"fleetadmin/internal/logger"
	"fleetadmin/internal/middleware"
	"fleetadmin/internal/repository"
	"fleetadmin/internal/service"
	"fleetadmin/internal/validate"
	"fleetadmin/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Fleet Admin API
// @version         1.0
// @description     Bookings, fleet, customers, invoicing and team management for a vehicle rental business.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	logger.Setup(cfg.LogFile, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	middleware.SetJWTSecret(cfg.JWTSecret)

	if err := validate.RegisterBindings(); err != nil {
		logrus.Fatalf("Failed to register validators: %v", err)
	}

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		logrus.Fatalf("Database connection failed: %v", err)
	}
	logrus.Info("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	auditRepo := repository.NewAuditRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	consumerRepo := repository.NewConsumerRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	rateRepo := repository.NewRateCardRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	reportRepo := repository.NewReportRepository(db)

	teamService := service.NewTeamService(teamRepo, auditRepo, txManager, cfg.JWTSecret, cfg.TokenTTL)
	if err := teamService.EnsureOwner(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logrus.WithError(err).Error("Failed to create initial owner account")
	}

	handlers := []interface {
		RegisterRoutes(*gin.RouterGroup)
	}{
		handler.NewTeamHandler(teamService),
		handler.NewBookingHandler(service.NewBookingService(bookingRepo, consumerRepo, auditRepo, txManager, wsHub)),
		handler.NewConsumerHandler(service.NewConsumerService(consumerRepo, bookingRepo, paymentRepo, auditRepo, txManager)),
		handler.NewVehicleHandler(service.NewVehicleService(vehicleRepo, auditRepo, txManager)),
		handler.NewPaymentHandler(service.NewPaymentService(paymentRepo, bookingRepo, auditRepo, txManager, wsHub)),
		handler.NewExpenseHandler(service.NewExpenseService(expenseRepo, auditRepo, txManager)),
		handler.NewVendorHandler(service.NewVendorService(vendorRepo, auditRepo, txManager)),
		handler.NewRateHandler(service.NewRateService(rateRepo, auditRepo, txManager)),
		handler.NewDocumentHandler(service.NewDocumentService(documentRepo, auditRepo, txManager, cfg.UploadDir)),
		handler.NewChatHandler(service.NewChatService(chatRepo, auditRepo, txManager, wsHub)),
		handler.NewDashboardHandler(service.NewDashboardService(statsRepo, vehicleRepo)),
		handler.NewReportHandler(service.NewReportService(reportRepo)),
		handler.NewAuditHandler(service.NewAuditService(auditRepo)),
	}

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Request-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	api := router.Group("/api")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}

	logrus.Infof("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Server failed: %v", err)
	}
}
