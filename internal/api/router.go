package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/imusici/academy-system/docs"
	"github.com/imusici/academy-system/internal/api/handler"
	"github.com/imusici/academy-system/internal/api/middleware"
	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
	"github.com/imusici/academy-system/internal/core/service"
	"github.com/imusici/academy-system/internal/infrastructure/config"
	mongodb "github.com/imusici/academy-system/internal/infrastructure/db/mongo"
	redisdb "github.com/imusici/academy-system/internal/infrastructure/db/redis"
	"github.com/imusici/academy-system/internal/infrastructure/identity"
)

// NewRouter wires repositories, services and handlers onto an Echo
// instance. The payment service is returned as well so the background
// scheduler can share the exact automation ops the routes expose.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, ports.PaymentService) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("academy_http"))

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	details := mongodb.NewDetailRepository(db)
	permissions := mongodb.NewPermissionsRepository(db)
	sessions := mongodb.NewSessionRepository(db)
	admins := mongodb.NewAdminAccessRepository(db)
	attendance := mongodb.NewAttendanceRepository(db)
	courses := mongodb.NewCourseRepository(db)
	lessons := mongodb.NewLessonRepository(db)
	rates := mongodb.NewCompensationRepository(db)
	payments := mongodb.NewPaymentRepository(db)
	requests := mongodb.NewPaymentRequestRepository(db)
	notifications := mongodb.NewNotificationRepository(db)
	slots := mongodb.NewSlotRepository(db)
	assignments := mongodb.NewAssignmentRepository(db)
	settings := mongodb.NewSettingsRepository(db)

	challenges := redisdb.NewPINChallengeStore(rdb, cfg.PINChallengeTTL)
	verifier := identity.NewVerifier(cfg.IdentityProviderURL, log)

	// --- Services ---
	authService := service.NewAuthService(users, sessions, admins, details, challenges, verifier, cfg.JWTSecret, cfg.TokenTTL(), log)
	userService := service.NewUserService(users, details, sessions, admins, permissions, log)
	attendanceService := service.NewAttendanceService(attendance, log)
	courseService := service.NewCourseService(courses, users, log)
	lessonService := service.NewLessonService(lessons, courses, users, log)
	compensationService := service.NewCompensationService(rates, attendance, users, log)
	paymentService := service.NewPaymentService(payments, users, notifications, settings, log)
	requestService := service.NewPaymentRequestService(requests, users, payments, notifications, log)
	notificationService := service.NewNotificationService(notifications, log)
	slotService := service.NewSlotService(slots, users, notifications, log)
	assignmentService := service.NewAssignmentService(assignments, users, log)
	settingsService := service.NewSettingsService(settings, log)
	statsService := service.NewStatsService(users, payments, notifications, attendance)
	seedService := service.NewSeedService(users, details, admins, payments, notifications, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, cfg.TokenTTL())
	userHandler := handler.NewUserHandler(userService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	courseHandler := handler.NewCourseHandler(courseService)
	lessonHandler := handler.NewLessonHandler(lessonService)
	compensationHandler := handler.NewCompensationHandler(compensationService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	requestHandler := handler.NewPaymentRequestHandler(requestService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	slotHandler := handler.NewSlotHandler(slotService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	statsHandler := handler.NewStatsHandler(statsService)
	seedHandler := handler.NewSeedHandler(seedService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authed := middleware.Auth(authService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	teacherOrAdmin := middleware.RBAC(domain.RoleTeacher, domain.RoleAdmin)

	// --- Operational endpoints outside /api ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)
	e.GET("/health/live", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Public routes ---
	api := e.Group("/api")
	api.GET("/", healthHandler.Root)
	api.GET("/health", healthHandler.Health)
	api.POST("/seed", seedHandler.Seed)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/admin/pin", authHandler.VerifyAdminPIN)
	api.POST("/auth/admin/google", authHandler.CompleteAdminLogin)

	// --- Authenticated routes ---
	auth := api.Group("", authed)
	auth.GET("/auth/me", authHandler.Me)
	auth.POST("/auth/logout", authHandler.Logout)

	auth.GET("/utenti/:id", userHandler.Get)
	auth.GET("/presenze", attendanceHandler.List)
	auth.GET("/corsi", courseHandler.List)
	auth.GET("/lezioni", lessonHandler.List)
	auth.GET("/compensi", compensationHandler.List)
	auth.GET("/compensi/calcolo/:insegnante_id", compensationHandler.Calculate)
	auth.GET("/pagamenti", paymentHandler.List)
	auth.GET("/richieste-pagamento", requestHandler.List)
	auth.PUT("/richieste-pagamento/:id/conferma", requestHandler.Confirm)
	auth.GET("/notifiche", notificationHandler.List)
	auth.GET("/slot-lezioni", slotHandler.List)
	auth.POST("/slot-lezioni/:id/prenota", slotHandler.Book)
	auth.POST("/slot-lezioni/:id/annulla", slotHandler.CancelBooking)
	auth.GET("/compiti", assignmentHandler.List)
	auth.PUT("/compiti/:id", assignmentHandler.Update)

	// --- Teacher or admin ---
	teaching := api.Group("", authed, teacherOrAdmin)
	teaching.POST("/presenze", attendanceHandler.Create)
	teaching.POST("/compiti", assignmentHandler.Create)
	teaching.DELETE("/compiti/:id", assignmentHandler.Delete)
	teaching.POST("/slot-lezioni/:id/notifica", slotHandler.SendReminder)
	teaching.GET("/insegnante/allievi", userHandler.TeacherStudents)

	// --- Admin only ---
	admin := api.Group("", authed, adminOnly)
	admin.GET("/utenti", userHandler.List)
	admin.POST("/utenti", userHandler.Create)
	admin.PUT("/utenti/:id", userHandler.Update)
	admin.DELETE("/utenti/:id", userHandler.Delete)
	admin.GET("/utenti/check-duplicates", userHandler.CheckDuplicates)
	admin.POST("/utenti/:id/dettaglio-allievo", userHandler.SaveStudentDetail)
	admin.POST("/utenti/:id/dettaglio-insegnante", userHandler.SaveTeacherDetail)
	admin.PUT("/admin/pin/:user_id", userHandler.SetAdminPIN)
	admin.GET("/segretaria/permessi/:user_id", userHandler.SecretaryPermissions)
	admin.PUT("/segretaria/permessi/:user_id", userHandler.SaveSecretaryPermissions)

	admin.PUT("/presenze/:id", attendanceHandler.Update)
	admin.DELETE("/presenze/:id", attendanceHandler.Delete)

	admin.POST("/corsi", courseHandler.Create)
	admin.PUT("/corsi/:id", courseHandler.Update)
	admin.DELETE("/corsi/:id", courseHandler.Delete)
	admin.POST("/lezioni", lessonHandler.Create)
	admin.PUT("/lezioni/:id", lessonHandler.Update)
	admin.DELETE("/lezioni/:id", lessonHandler.Delete)

	admin.POST("/compensi", compensationHandler.Create)
	admin.PUT("/compensi/:id", compensationHandler.Update)
	admin.DELETE("/compensi/:id", compensationHandler.Delete)

	admin.POST("/pagamenti", paymentHandler.Create)
	admin.PUT("/pagamenti/:id", paymentHandler.Update)
	admin.PUT("/pagamenti/:id/stato", paymentHandler.UpdateStatus)
	admin.DELETE("/pagamenti/:id", paymentHandler.Delete)
	admin.POST("/pagamenti/contanti", paymentHandler.RegisterCash)

	admin.POST("/automazioni/aggiorna-pagamenti-scaduti", paymentHandler.MarkOverdue)
	admin.POST("/automazioni/crea-pagamenti-mensili", paymentHandler.GenerateMonthly)
	admin.POST("/automazioni/avvisi-pagamento", paymentHandler.CreateReminders)
	admin.GET("/automazioni/pagamenti-in-scadenza", paymentHandler.ListExpiringAnnual)
	// Legacy aliases kept for older frontends; same implementations.
	admin.POST("/admin/azioni/genera-pagamenti-mensili", paymentHandler.GenerateMonthly)
	admin.POST("/admin/azioni/invia-promemoria-pagamenti", paymentHandler.CreateReminders)

	admin.POST("/richieste-pagamento", requestHandler.Create)
	admin.PUT("/richieste-pagamento/:id/approva", requestHandler.Approve)
	admin.PUT("/richieste-pagamento/:id/rifiuta", requestHandler.Reject)

	admin.POST("/notifiche", notificationHandler.Create)
	admin.PUT("/notifiche/:id", notificationHandler.Update)
	admin.DELETE("/notifiche/:id", notificationHandler.Delete)

	admin.POST("/slot-lezioni", slotHandler.Create)
	admin.PUT("/slot-lezioni/:id", slotHandler.Update)
	admin.DELETE("/slot-lezioni/:id", slotHandler.Delete)

	admin.GET("/impostazioni", settingsHandler.Get)
	admin.PUT("/impostazioni", settingsHandler.Update)
	admin.GET("/stats/admin", statsHandler.AdminStats)

	return e, paymentService
}
