package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	backupapp "github.com/pms/backend/internal/application/backup"
	bookingapp "github.com/pms/backend/internal/application/booking"
	financeapp "github.com/pms/backend/internal/application/finance"
	identityapp "github.com/pms/backend/internal/application/identity"
	insightapp "github.com/pms/backend/internal/application/insight"
	metricsapp "github.com/pms/backend/internal/application/metrics"
	notificationapp "github.com/pms/backend/internal/application/notification"
	opsapp "github.com/pms/backend/internal/application/ops"
	portfolioapp "github.com/pms/backend/internal/application/portfolio"
	settingsapp "github.com/pms/backend/internal/application/settings"
	"github.com/pms/backend/internal/infrastructure/auth"
	"github.com/pms/backend/internal/infrastructure/backup"
	"github.com/pms/backend/internal/infrastructure/cache"
	"github.com/pms/backend/internal/infrastructure/channels/mail"
	"github.com/pms/backend/internal/infrastructure/channels/sms"
	"github.com/pms/backend/internal/infrastructure/channels/whatsapp"
	"github.com/pms/backend/internal/infrastructure/config"
	"github.com/pms/backend/internal/infrastructure/event"
	"github.com/pms/backend/internal/infrastructure/logger"
	"github.com/pms/backend/internal/infrastructure/migration"
	"github.com/pms/backend/internal/infrastructure/persistence"
	"github.com/pms/backend/internal/infrastructure/scheduler"
	"github.com/pms/backend/internal/infrastructure/storage"
	"github.com/pms/backend/internal/interfaces/http/handler"
	"github.com/pms/backend/internal/interfaces/http/middleware"
	"github.com/pms/backend/internal/interfaces/http/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version))

	if err := runMigrations(cfg, log); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	// repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	ownerRepo := persistence.NewGormOwnerRepository(db.DB)
	walletRepo := persistence.NewGormWalletRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	fxRateRepo := persistence.NewGormFXRateRepository(db.DB)
	statementRepo := persistence.NewGormStatementRepository(db.DB)
	payoutRepo := persistence.NewGormPayoutRepository(db.DB)
	issueRepo := persistence.NewGormIssueRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)

	// caches fall back to in-process memory when redis is unreachable
	var rateCache cache.RateCache
	var insightCache cache.InsightCache
	if redisClient, err := cache.NewRedisClient(cfg.Redis); err != nil {
		log.Warn("redis unavailable, using in-memory caches", zap.Error(err))
		rateCache = cache.NewMemoryRateCache(5 * time.Minute)
		insightCache = cache.NewMemoryInsightCache(6 * time.Hour)
	} else {
		rateCache = cache.NewRedisRateCache(redisClient, 5*time.Minute)
		insightCache = cache.NewRedisInsightCache(redisClient, 6*time.Hour)
		defer redisClient.Close()
	}

	// outbound channels
	mailSender := mail.NewSMTPMailer(cfg.Mail, log)
	smsSender := sms.NewDeywuroClient(cfg.SMS, log)
	whatsappSender := whatsapp.NewTwilioClient(cfg.WhatsApp, log)

	// domain events feed the notification dispatcher
	eventBus := event.NewInMemoryEventBus(log)
	dispatcher := notificationapp.NewDispatcher(
		notificationRepo, propertyRepo, ownerRepo, settingRepo,
		mailSender, smsSender, whatsappSender, log)
	eventBus.Subscribe(dispatcher, dispatcher.EventTypes()...)

	// application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService)
	userService := identityapp.NewUserService(userRepo, ownerRepo)

	// seed the first ADMIN on an empty database
	created, err := userService.EnsureInitialAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password)
	if err != nil {
		log.Fatal("initial admin bootstrap failed", zap.Error(err))
	}
	if created {
		log.Info("initial admin account created", zap.String("email", cfg.Admin.Email))
	}

	ownerService := portfolioapp.NewOwnerService(ownerRepo, walletRepo)
	walletService := portfolioapp.NewWalletService(walletRepo, ownerRepo)
	propertyService := portfolioapp.NewPropertyService(propertyRepo, ownerRepo)
	bookingService := bookingapp.NewBookingService(bookingRepo, propertyRepo, eventBus)
	expenseService := financeapp.NewExpenseService(expenseRepo, propertyRepo)
	fxService := financeapp.NewFXService(fxRateRepo, rateCache)
	statementService := financeapp.NewStatementService(
		statementRepo, ownerRepo, propertyRepo, bookingRepo, expenseRepo, fxService, eventBus)
	payoutService := financeapp.NewPayoutService(
		payoutRepo, statementRepo, ownerRepo, walletRepo, fxService, eventBus)
	issueService := opsapp.NewIssueService(issueRepo, propertyRepo, eventBus)
	taskService := opsapp.NewTaskService(taskRepo, propertyRepo)
	notificationService := notificationapp.NewNotificationService(
		notificationRepo, mailSender, smsSender, whatsappSender, log)
	settingsService := settingsapp.NewSettingsService(settingRepo)
	metricsService := metricsapp.NewMetricsService(
		bookingRepo, expenseRepo, propertyRepo, issueRepo, fxService)
	insightService := insightapp.NewInsightService(
		settingRepo, ownerRepo, propertyRepo, metricsService, insightCache,
		insightapp.DefaultProviderFactory(cfg.AI))

	// backup pipeline
	localStore, err := storage.NewLocalStorage(cfg.Backup.Dir)
	if err != nil {
		log.Fatal("backup directory unavailable", zap.Error(err))
	}
	var uploader backupapp.ArchiveUploader
	if cfg.Backup.S3Enabled {
		s3Store, err := storage.NewS3ArchiveStore(&cfg.Backup)
		if err != nil {
			log.Warn("s3 archive store unavailable, keeping backups local only", zap.Error(err))
		} else {
			uploader = s3Store
		}
	}
	backupService := backupapp.NewBackupService(
		backup.NewExporter(db.DB, log),
		backup.NewRestorer(db.DB, log),
		backup.NewPGTool(&cfg.Database, &cfg.Backup, log),
		localStore, uploader, &cfg.Backup, log)

	sched := buildScheduler(cfg, log, statementService, backupService)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	router.Setup(engine, router.Config{
		Logger:         log,
		JWTService:     jwtService,
		Registry:       registry,
		CORS:           corsConfig,
		BodyLimitBytes: cfg.HTTP.MaxBodySize,
		RateLimit:      cfg.HTTP.RateLimitRequests,
		RateWindow:     cfg.HTTP.RateLimitWindow,
		Handlers: router.Handlers{
			System:       handler.NewSystemHandler(db.DB, version),
			Auth:         handler.NewAuthHandler(authService),
			User:         handler.NewUserHandler(userService),
			Owner:        handler.NewOwnerHandler(ownerService),
			Wallet:       handler.NewWalletHandler(walletService),
			Property:     handler.NewPropertyHandler(propertyService),
			Booking:      handler.NewBookingHandler(bookingService),
			Expense:      handler.NewExpenseHandler(expenseService),
			FX:           handler.NewFXHandler(fxService),
			Statement:    handler.NewStatementHandler(statementService),
			Payout:       handler.NewPayoutHandler(payoutService),
			Issue:        handler.NewIssueHandler(issueService),
			Task:         handler.NewTaskHandler(taskService),
			Notification: handler.NewNotificationHandler(notificationService),
			Setting:      handler.NewSettingHandler(settingsService),
			Metrics:      handler.NewMetricsHandler(metricsService),
			Insight:      handler.NewInsightHandler(insightService),
			Backup:       handler.NewBackupHandler(backupService),
			Cron:         handler.NewCronHandler(sched),
		},
	})

	if cfg.Scheduler.Enabled {
		sched.Start()
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := sched.Stop(ctx); err != nil {
		log.Error("scheduler shutdown failed", zap.Error(err))
	}
	if err := mailSender.Close(); err != nil {
		log.Error("smtp connection close failed", zap.Error(err))
	}
	log.Info("stopped")
}

func runMigrations(cfg *config.Config, log *zap.Logger) error {
	migrator, err := migration.NewFromURL(cfg.Database.DSN(), "migrations", log)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up()
}

// buildScheduler registers the recurring jobs: monthly owner
// statements and the daily backup export.
func buildScheduler(
	cfg *config.Config,
	log *zap.Logger,
	statementService *financeapp.StatementService,
	backupService *backupapp.BackupService,
) *scheduler.Scheduler {
	sched := scheduler.New(log)

	sched.Register(scheduler.Job{
		Name:    "monthly-statements",
		Spec:    cfg.Scheduler.StatementSchedule,
		Timeout: cfg.Scheduler.JobTimeout,
		Enabled: cfg.Scheduler.Enabled,
		Run: func(ctx context.Context) error {
			start, end := previousMonth(time.Now().UTC())
			generated, failed, err := statementService.GenerateAll(ctx, start, end)
			if err != nil {
				return err
			}
			log.Info("statement run finished",
				zap.Int("generated", generated),
				zap.Int("failed", failed))
			return nil
		},
	})

	sched.Register(scheduler.Job{
		Name:    "daily-backup",
		Spec:    cfg.Scheduler.BackupSchedule,
		Timeout: cfg.Scheduler.JobTimeout,
		Enabled: cfg.Scheduler.Enabled,
		Run: func(ctx context.Context) error {
			resp, _, err := backupService.Export(ctx, backupapp.ExportRequest{Format: "archive"})
			if err != nil {
				return err
			}
			log.Info("backup finished",
				zap.String("file", resp.FileName),
				zap.Int64("bytes", resp.SizeBytes))
			return nil
		},
	})

	return sched
}

// previousMonth returns the closed calendar month before t.
func previousMonth(t time.Time) (time.Time, time.Time) {
	firstOfThis := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := firstOfThis.AddDate(0, -1, 0)
	end := firstOfThis.Add(-time.Nanosecond)
	return start, end
}
