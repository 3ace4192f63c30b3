package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/workcal"
)

// Ingestor pulls punches for one date from the time-clock provider.
type Ingestor interface {
	Run(ctx context.Context, date time.Time) error
}

// Reconciler finalizes one day's records and builds weekly summaries.
type Reconciler interface {
	Run(ctx context.Context, date time.Time) error
	RunWeekly(ctx context.Context, start, end time.Time) error
}

// DirectorySync refreshes external-id links from the provider's directory.
type DirectorySync interface {
	Run(ctx context.Context) error
}

// PunchJobs wires the engine's batch jobs into the scheduler.
type PunchJobs struct {
	ingestor   Ingestor
	reconciler Reconciler
	directory  DirectorySync
	cal        *workcal.Calendar
	cfg        config.EngineConfig
}

func NewPunchJobs(ingestor Ingestor, reconciler Reconciler, directory DirectorySync, cal *workcal.Calendar, cfg config.EngineConfig) *PunchJobs {
	return &PunchJobs{
		ingestor:   ingestor,
		reconciler: reconciler,
		directory:  directory,
		cal:        cal,
		cfg:        cfg,
	}
}

func (j *PunchJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("ingest_punches", time.Duration(j.cfg.IngestIntervalMinutes)*time.Minute, j.IngestPunches)
	scheduler.AddJob("reconcile_daily", 1*time.Hour, j.ReconcileDaily)
	scheduler.AddJob("weekly_summary", 1*time.Hour, j.WeeklySummary)
	scheduler.AddJob("sync_directory", 24*time.Hour, j.SyncDirectory)
}

// IngestPunches pulls today's punches. Only runs during business hours; a
// failed fetch is retried naturally at the next tick.
func (j *PunchJobs) IngestPunches(ctx context.Context) error {
	hour := time.Now().In(j.cal.Location()).Hour()
	if hour < 6 || hour >= 22 {
		return nil
	}

	today := j.cal.Today()
	if !j.cal.IsWorkingDay(today, true) {
		return nil
	}

	slog.Info("Cron: Starting punch ingestion", "date", today.Format("2006-01-02"))
	return j.ingestor.Run(ctx, today)
}

// ReconcileDaily finalizes today's records. Gated to the configured local
// hour, after the working day has ended.
func (j *PunchJobs) ReconcileDaily(ctx context.Context) error {
	now := time.Now().In(j.cal.Location())
	if now.Hour() != j.cfg.ReconcileHour {
		return nil
	}

	today := j.cal.Today()
	slog.Info("Cron: Starting daily reconciliation", "date", today.Format("2006-01-02"))
	return j.reconciler.Run(ctx, today)
}

// WeeklySummary sends each leader one digest of the week's deviations.
// Gated to the configured weekday and local hour.
func (j *PunchJobs) WeeklySummary(ctx context.Context) error {
	now := time.Now().In(j.cal.Location())
	if int(now.Weekday()) != j.cfg.WeeklySummaryWeekday || now.Hour() != j.cfg.WeeklySummaryHour {
		return nil
	}

	// Monday through Saturday of the current week.
	today := j.cal.Today()
	offset := int(today.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	start := today.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 5)

	slog.Info("Cron: Starting weekly summary", "start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))
	return j.reconciler.RunWeekly(ctx, start, end)
}

// SyncDirectory refreshes employee external-id links from the provider.
func (j *PunchJobs) SyncDirectory(ctx context.Context) error {
	slog.Info("Cron: Starting employee directory sync")
	return j.directory.Run(ctx)
}
