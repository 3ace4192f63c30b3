package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	appHTTP "github.com/pontocerto/ponto-backend-go/internal/handler/http"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/cache"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/cron"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/database"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/jwt"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/punchapi"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/workcal"
	"github.com/pontocerto/ponto-backend-go/internal/repository/cached"
	"github.com/pontocerto/ponto-backend-go/internal/repository/postgresql"
	approvalService "github.com/pontocerto/ponto-backend-go/internal/service/approval"
	directoryService "github.com/pontocerto/ponto-backend-go/internal/service/directory"
	ingestService "github.com/pontocerto/ponto-backend-go/internal/service/ingest"
	notificationService "github.com/pontocerto/ponto-backend-go/internal/service/notification"
	reconcileService "github.com/pontocerto/ponto-backend-go/internal/service/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	cacheTTL := time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second
	redisCache, err := cache.New(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB, cacheTTL)
	if err != nil {
		fmt.Println("Error connecting to redis:", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaderRepo := postgresql.NewLeaderRepository(db)
	recordRepo := cached.NewRecordRepository(postgresql.NewRecordRepository(db), redisCache)
	justificationRepo := cached.NewJustificationRepository(postgresql.NewJustificationRepository(db), redisCache)
	adjustmentRepo := postgresql.NewAdjustmentRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	cal := workcal.New(cfg.Engine.UTCOffsetHours, cfg.Engine.ExtraHolidays)
	punchClient := punchapi.NewClient(cfg.PunchAPI)

	notifSvc := notificationService.NewNotificationService(notificationRepo, notificationService.Config{})
	ingestSvc := ingestService.NewService(punchClient, employeeRepo, recordRepo, auditRepo, notifSvc, cal, cfg.Engine)
	directorySvc := directoryService.NewService(punchClient, employeeRepo, auditRepo)
	reconcileSvc := reconcileService.NewService(employeeRepo, leaderRepo, recordRepo, auditRepo, notifSvc, cal, cfg.Engine)
	approvalSvc := approvalService.NewService(postgresql.NewTxRunner(db), justificationRepo, adjustmentRepo, recordRepo, employeeRepo, auditRepo, notifSvc, cal, cfg.Engine)

	scheduler := cron.NewScheduler()
	cron.NewPunchJobs(ingestSvc, reconcileSvc, directorySvc, cal, cfg.Engine).RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(cfg.App, jwtService, appHTTP.Handlers{
		Records:       appHTTP.NewRecordHandler(recordRepo, approvalSvc),
		Approvals:     appHTTP.NewApprovalHandler(approvalSvc),
		Notifications: appHTTP.NewNotificationHandler(notifSvc),
		Employees:     appHTTP.NewEmployeeHandler(employeeRepo),
		Audit:         appHTTP.NewAuditHandler(auditRepo),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server started", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	// Flush pending notification batches before the pool closes.
	notifSvc.Stop()
}
