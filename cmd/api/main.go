package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "github.com/UdayKiranDolu/trackyourloan/internal/adapter/http"
	"github.com/UdayKiranDolu/trackyourloan/internal/adapter/middleware"
	"github.com/UdayKiranDolu/trackyourloan/internal/adapter/repository/mysql"
	"github.com/UdayKiranDolu/trackyourloan/internal/config"
	"github.com/UdayKiranDolu/trackyourloan/internal/infrastructure/cache"
	"github.com/UdayKiranDolu/trackyourloan/internal/infrastructure/db"
	"github.com/UdayKiranDolu/trackyourloan/internal/infrastructure/logging"
	"github.com/UdayKiranDolu/trackyourloan/internal/infrastructure/mail"
	loanuc "github.com/UdayKiranDolu/trackyourloan/internal/usecase/loan"
	"github.com/UdayKiranDolu/trackyourloan/internal/usecase/notifier"
	"github.com/UdayKiranDolu/trackyourloan/pkg/clock"
)

func main() {
	_ = godotenv.Load()
	log := logging.New()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	loc, err := cfg.Location()
	if err != nil {
		log.WithError(err).Fatal("load business timezone")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.WithError(err).Fatal("open mysql")
	}
	if err := db.Migrate(gdb); err != nil {
		log.WithError(err).Fatal("migrate schema")
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("open redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer, err := mail.NewSESMailer(ctx, cfg.AWSRegion, cfg.EmailSender)
	if err != nil {
		log.WithError(err).Fatal("init ses mailer")
	}

	loanRepo := mysql.NewLoanRepository(gdb)
	ledgerRepo := mysql.NewLedgerRepository(gdb)
	notifRepo := mysql.NewNotificationRepository(gdb)
	userRepo := mysql.NewUserRepository(gdb)
	auditRepo := mysql.NewAuditRepository(gdb)
	unit := mysql.NewGormUoW(gdb)

	loanUC := loanuc.NewUsecase(loanRepo, ledgerRepo, unit, auditRepo, log)
	inbox := notifier.NewInbox(notifRepo)
	scheduler := notifier.NewScheduler(loanRepo, notifRepo, clock.System(), loc, cfg.ScheduleHour, log)
	worker := notifier.NewEmailWorker(notifRepo, userRepo, mailer, log)

	go scheduler.Start(ctx)
	go runEmailWorker(ctx, worker, log)
	if cfg.RunPassOnStart {
		go func() {
			if err := scheduler.RunDailyPass(ctx); err != nil {
				log.WithError(err).Error("startup pass failed")
			}
		}()
	}

	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(loanUC)
	nh := httpadp.NewNotificationHandler(inbox)
	ah := httpadp.NewAuditHandler(auditRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)

	loans := e.Group("/loans", idemp)
	loans.POST("", lh.CreateLoan)
	loans.GET("", lh.ListLoans)
	loans.GET("/dashboard", lh.Dashboard)
	loans.GET("/:loan_id", lh.GetLoan)
	loans.PATCH("/:loan_id", lh.UpdateLoan)
	loans.DELETE("/:loan_id", lh.DeleteLoan)
	loans.POST("/:loan_id/complete", lh.CompleteLoan)
	loans.GET("/:loan_id/audit", ah.ListForLoan)

	notifications := e.Group("/notifications")
	notifications.GET("", nh.List)
	notifications.GET("/unread-count", nh.UnreadCount)
	notifications.POST("/:notification_id/read", nh.MarkRead)
	notifications.POST("/read-all", nh.MarkAllRead)

	addr := ":" + cfg.AppPort
	log.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// runEmailWorker drains pending emails shortly after each scheduler
// pass would have produced them, and periodically in between.
func runEmailWorker(ctx context.Context, w *notifier.EmailWorker, log *logrus.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				log.WithError(err).Error("email worker pass failed")
			}
		}
	}
}
