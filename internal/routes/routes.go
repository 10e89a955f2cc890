package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/salon-natuerelle/salon-api/internal/audit"
	"github.com/salon-natuerelle/salon-api/internal/config"
	"github.com/salon-natuerelle/salon-api/internal/handlers"
	"github.com/salon-natuerelle/salon-api/internal/httperr"
	infraRepo "github.com/salon-natuerelle/salon-api/internal/infra/repository"
	"github.com/salon-natuerelle/salon-api/internal/middleware"
	"github.com/salon-natuerelle/salon-api/internal/ratelimit"
	ucReservation "github.com/salon-natuerelle/salon-api/internal/usecase/reservation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, log zerolog.Logger) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger(log))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	reservationRepo := infraRepo.NewReservationGormRepository(db)

	auditRecorder := audit.NewRecorder(db)
	auditDispatcher := audit.NewDispatcher(auditRecorder, log)

	var limiter *ratelimit.LoginLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		limiter = ratelimit.NewLoginLimiter(redis.NewClient(opts))
	}

	// ======================================================
	// USE CASES - RESERVATIONS
	// ======================================================
	createReservationUC := ucReservation.NewCreateReservation(reservationRepo, auditDispatcher)
	getReservationUC := ucReservation.NewGetReservation(reservationRepo)
	listReservationsUC := ucReservation.NewListReservations(reservationRepo)
	updateReservationUC := ucReservation.NewUpdateReservation(reservationRepo, auditDispatcher)
	cancelReservationUC := ucReservation.NewCancelReservation(reservationRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, auditDispatcher, limiter)
	userHandler := handlers.NewUserHandler(db, cfg, auditDispatcher)
	serviceHandler := handlers.NewServiceHandler(db, cfg, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, cfg)

	reservationHandler := handlers.NewReservationHandler(
		cfg,
		createReservationUC,
		getReservationUC,
		listReservationsUC,
		updateReservationUC,
		cancelReservationUC,
	)

	authRequired := middleware.AuthRequired(cfg)

	// ======================================================
	// ROUTES
	// ======================================================

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", authRequired, authHandler.Me)
		auth.POST("/change-password", authRequired, authHandler.ChangePassword)
	}

	users := r.Group("/users", authRequired)
	{
		users.POST("/staff", middleware.RequireAdmin(), userHandler.RegisterStaff)
		users.GET("", middleware.RequireAdmin(), userHandler.ListUsers)
		users.GET("/customers", middleware.RequireManager(), userHandler.ListCustomers)
		users.PUT("/:id/role", middleware.RequireAdmin(), userHandler.ChangeRole)
		users.DELETE("/:id", middleware.RequireAdmin(), userHandler.Delete)
	}

	services := r.Group("/services")
	{
		services.GET("", serviceHandler.List)
		services.GET("/:id", serviceHandler.Get)

		managed := services.Group("", authRequired, middleware.RequireManager())
		{
			managed.POST("", serviceHandler.Create)
			managed.PUT("/:id", serviceHandler.Update)
			managed.DELETE("/:id", serviceHandler.Delete)
		}
	}

	reservations := r.Group("/reservations", authRequired)
	{
		reservations.POST("", reservationHandler.Create)
		reservations.GET("", reservationHandler.List)
		reservations.GET("/:id", reservationHandler.Get)
		reservations.PUT("/:id", reservationHandler.Update)
		reservations.DELETE("/:id", reservationHandler.Delete)
	}

	logs := r.Group("/logs", authRequired, middleware.RequireAdmin())
	{
		logs.GET("", auditLogsHandler.List)
		logs.GET("/stats", auditLogsHandler.Stats)
	}

	r.NoRoute(func(c *gin.Context) {
		httperr.NotFound(c, "Route not found")
	})
}
