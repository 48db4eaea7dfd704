package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pms/backend/internal/domain/identity"
	"github.com/pms/backend/internal/infrastructure/auth"
	"github.com/pms/backend/internal/infrastructure/logger"
	"github.com/pms/backend/internal/interfaces/http/handler"
	"github.com/pms/backend/internal/interfaces/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers collects every endpoint handler the API mounts
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Owner        *handler.OwnerHandler
	Wallet       *handler.WalletHandler
	Property     *handler.PropertyHandler
	Booking      *handler.BookingHandler
	Expense      *handler.ExpenseHandler
	FX           *handler.FXHandler
	Statement    *handler.StatementHandler
	Payout       *handler.PayoutHandler
	Issue        *handler.IssueHandler
	Task         *handler.TaskHandler
	Notification *handler.NotificationHandler
	Setting      *handler.SettingHandler
	Metrics      *handler.MetricsHandler
	Insight      *handler.InsightHandler
	Backup       *handler.BackupHandler
	Cron         *handler.CronHandler
}

// Config holds everything Setup needs to assemble the engine
type Config struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	Registry       *prometheus.Registry
	CORS           middleware.CORSConfig
	BodyLimitBytes int64
	RateLimit      int
	RateWindow     time.Duration
	Handlers       Handlers
}

// Setup wires middleware and routes onto the engine
func Setup(engine *gin.Engine, cfg Config) {
	if cfg.BodyLimitBytes <= 0 {
		cfg.BodyLimitBytes = 32 << 20
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 300
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	engine.Use(middleware.BodyLimit(cfg.BodyLimitBytes))
	engine.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).Middleware())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	if cfg.Registry != nil {
		engine.Use(middleware.HTTPMetrics(cfg.Registry))
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	h := cfg.Handlers
	engine.GET("/health", h.System.Health)

	api := engine.Group("/api/v1")

	// public auth endpoints
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// everything else requires a valid access token
	authed := api.Group("")
	authed.Use(middleware.JWTAuth(cfg.JWTService, cfg.Logger))

	authed.GET("/auth/me", h.Auth.Me)
	authed.POST("/auth/change-password", h.Auth.ChangePassword)

	// owner records and wallets are mutated by staff only
	staff := middleware.RequireRoles(identity.RoleAdmin, identity.RoleManager)

	owners := authed.Group("/owners")
	{
		owners.POST("", staff, h.Owner.Create)
		owners.GET("", h.Owner.List)
		owners.GET("/:id", h.Owner.GetByID)
		owners.PUT("/:id", staff, h.Owner.Update)
		owners.DELETE("/:id", staff, h.Owner.Delete)
		owners.GET("/:id/wallet", h.Wallet.Get)
		owners.POST("/:id/wallet/adjustments", staff, h.Wallet.Adjust)
		owners.GET("/:id/wallet/transactions", h.Wallet.Transactions)
	}

	properties := authed.Group("/properties")
	{
		properties.POST("", h.Property.Create)
		properties.GET("", h.Property.List)
		properties.GET("/:id", h.Property.GetByID)
		properties.PUT("/:id", h.Property.Update)
		properties.POST("/:id/activate", h.Property.Activate)
		properties.POST("/:id/deactivate", h.Property.Deactivate)
		properties.DELETE("/:id", h.Property.Delete)
	}

	bookings := authed.Group("/bookings")
	{
		bookings.POST("", h.Booking.Create)
		bookings.GET("", h.Booking.List)
		bookings.GET("/status-counts", h.Booking.StatusCounts)
		bookings.GET("/:id", h.Booking.GetByID)
		bookings.PUT("/:id", h.Booking.Update)
		bookings.POST("/:id/confirm", h.Booking.Confirm)
		bookings.POST("/:id/check-in", h.Booking.CheckIn)
		bookings.POST("/:id/check-out", h.Booking.CheckOut)
		bookings.POST("/:id/cancel", h.Booking.Cancel)
		bookings.POST("/:id/mark-paid", h.Booking.MarkPaid)
		bookings.DELETE("/:id", h.Booking.Delete)
	}

	expenses := authed.Group("/expenses")
	{
		expenses.POST("", h.Expense.Create)
		expenses.GET("", h.Expense.List)
		expenses.GET("/summary", h.Expense.Summary)
		expenses.GET("/:id", h.Expense.GetByID)
		expenses.PUT("/:id", h.Expense.Update)
		expenses.DELETE("/:id", h.Expense.Delete)
	}

	fx := authed.Group("/fx")
	{
		fx.GET("/rates", h.FX.ListRates)
		fx.PUT("/rates", middleware.RequireAdmin(), h.FX.UpsertRate)
		fx.GET("/convert", h.FX.Convert)
	}

	statements := authed.Group("/statements")
	{
		statements.POST("", h.Statement.Generate)
		statements.GET("", h.Statement.List)
		statements.GET("/:id", h.Statement.GetByID)
		statements.POST("/:id/finalize", h.Statement.Finalize)
		statements.POST("/:id/send", h.Statement.Send)
		statements.DELETE("/:id", h.Statement.Delete)
	}

	payouts := authed.Group("/payouts")
	{
		payouts.POST("", h.Payout.Create)
		payouts.GET("", h.Payout.List)
		payouts.GET("/:id", h.Payout.GetByID)
		payouts.POST("/:id/mark-paid", h.Payout.MarkPaid)
		payouts.POST("/:id/mark-failed", h.Payout.MarkFailed)
	}

	issues := authed.Group("/issues")
	{
		issues.POST("", h.Issue.Report)
		issues.GET("", h.Issue.List)
		issues.GET("/:id", h.Issue.GetByID)
		issues.PUT("/:id", h.Issue.Update)
		issues.POST("/:id/assign", h.Issue.Assign)
		issues.POST("/:id/resolve", h.Issue.Resolve)
		issues.POST("/:id/close", h.Issue.Close)
		issues.POST("/:id/reopen", h.Issue.Reopen)
		issues.DELETE("/:id", h.Issue.Delete)
	}

	tasks := authed.Group("/tasks")
	{
		tasks.POST("", h.Task.Create)
		tasks.GET("", h.Task.List)
		tasks.GET("/overdue", h.Task.ListOverdue)
		tasks.GET("/:id", h.Task.GetByID)
		tasks.PUT("/:id", h.Task.Update)
		tasks.POST("/:id/assign", h.Task.Assign)
		tasks.POST("/:id/start", h.Task.Start)
		tasks.POST("/:id/complete", h.Task.Complete)
		tasks.DELETE("/:id", h.Task.Delete)
	}

	notifications := authed.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/:id", h.Notification.GetByID)
		notifications.POST("/test", middleware.RequireAdmin(), h.Notification.SendTest)
	}

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		// insights embed company-wide figures in the prompt
		admin.POST("/insights", h.Insight.Generate)

		admin.POST("/users", h.User.Create)
		admin.GET("/users", h.User.List)
		admin.GET("/users/:id", h.User.GetByID)
		admin.PUT("/users/:id", h.User.Update)
		admin.POST("/users/:id/reset-password", h.User.ResetPassword)
		admin.POST("/users/:id/activate", h.User.Activate)
		admin.POST("/users/:id/deactivate", h.User.Deactivate)
		admin.DELETE("/users/:id", h.User.Delete)

		admin.GET("/settings", h.Setting.List)
		admin.GET("/settings/keys/:key", h.Setting.GetByKey)
		admin.PUT("/settings", h.Setting.Upsert)
		admin.PUT("/settings/bulk", h.Setting.BulkUpsert)
		admin.DELETE("/settings/:id", h.Setting.Delete)
		admin.POST("/settings/templates/preview", h.Setting.PreviewTemplate)
		admin.GET("/settings/ai", h.Setting.GetAISettings)
		admin.PUT("/settings/ai", h.Setting.UpdateAISettings)

		admin.GET("/metrics/overview", h.Metrics.Overview)
		admin.GET("/metrics/daily", h.Metrics.Daily)
		admin.GET("/metrics/properties", h.Metrics.Properties)

		admin.POST("/backups/export", h.Backup.Export)
		admin.POST("/backups/restore", h.Backup.Restore)
		admin.GET("/backups", h.Backup.List)
		admin.GET("/backups/:name/download", h.Backup.Download)

		admin.GET("/cron", h.Cron.Status)
		admin.PUT("/cron/:job", h.Cron.Configure)
		admin.POST("/cron/:job/run", h.Cron.Run)
	}
}
