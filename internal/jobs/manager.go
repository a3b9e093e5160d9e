package jobs

import (
	"fmt"
	"time"

	"crowdfund/internal/logger"

	"github.com/go-co-op/gocron/v2"
)

// Job is a periodic background task
type Job interface {
	Name() string
	Interval() time.Duration
	Execute()
}

// Manager schedules background jobs
type Manager struct {
	scheduler gocron.Scheduler
}

// NewManager creates a new job manager
func NewManager() (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Manager{scheduler: s}, nil
}

// Register schedules job. A run that is still going when the next one is
// due pushes the next one back instead of overlapping.
func (m *Manager) Register(job Job) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(job.Interval()),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.Name()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.Name(), err)
	}
	logger.Info("Registered job %s (every %v)", job.Name(), job.Interval())
	return nil
}

// Start starts the scheduler
func (m *Manager) Start() {
	m.scheduler.Start()
	logger.Info("Job manager started")
}

// Stop shuts the scheduler down, waiting for running jobs
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Job manager stopped")
}
