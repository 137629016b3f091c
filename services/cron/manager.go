package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/thats-my-college/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Job is one scheduled task. Run returns the number of rows it touched.
type Job struct {
	Name    string
	Spec    string // six fields, seconds first
	Timeout time.Duration
	Run     func(ctx context.Context) (int64, error)
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB // nil disables the cron_job_logs history
	log  *zap.Logger
	jobs []Job
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, log *zap.Logger, jobs ...Job) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron: c,
		db:   db,
		log:  log,
		jobs: jobs,
	}
}

// Start registers every job and starts the scheduler
func (m *CronManager) Start() error {
	m.log.Info("starting cron jobs", zap.Int("jobs", len(m.jobs)))

	for _, job := range m.jobs {
		job := job
		if _, err := m.cron.AddFunc(job.Spec, func() { m.RunJob(job) }); err != nil {
			return fmt.Errorf("register job %s: %w", job.Name, err)
		}
	}

	m.cron.Start()
	return nil
}

// Stop waits for running jobs to finish
func (m *CronManager) Stop() {
	m.log.Info("stopping cron jobs")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.log.Info("cron jobs stopped")
}

// RunJob executes a job once and records the run
func (m *CronManager) RunJob(job Job) (int64, error) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	entry := m.logJobStart(ctx, job.Name)
	started := time.Now()

	affected, err := job.Run(ctx)

	if err != nil {
		m.log.Error("cron job failed", zap.String("job", job.Name), zap.Error(err))
	} else {
		m.log.Info("cron job completed",
			zap.String("job", job.Name),
			zap.Int64("affected", affected),
			zap.Duration("took", time.Since(started)))
	}
	m.logJobFinish(ctx, entry, started, affected, err)

	return affected, err
}

func (m *CronManager) logJobStart(ctx context.Context, jobName string) *model.CronJobLog {
	if m.db == nil {
		return nil
	}

	entry := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronStatusRunning,
		StartedAt: time.Now(),
	}
	if err := m.db.WithContext(ctx).Create(entry).Error; err != nil {
		m.log.Warn("cron log insert failed", zap.String("job", jobName), zap.Error(err))
		return nil
	}
	return entry
}

func (m *CronManager) logJobFinish(ctx context.Context, entry *model.CronJobLog, started time.Time, affected int64, jobErr error) {
	if m.db == nil || entry == nil {
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       model.CronStatusCompleted,
		"completed_at": now,
		"duration_ms":  now.Sub(started).Milliseconds(),
		"affected":     affected,
	}
	if jobErr != nil {
		updates["status"] = model.CronStatusFailed
		updates["error_msg"] = jobErr.Error()
	}

	if err := m.db.WithContext(ctx).Model(entry).Updates(updates).Error; err != nil {
		m.log.Warn("cron log update failed", zap.String("job", entry.JobName), zap.Error(err))
	}
}
