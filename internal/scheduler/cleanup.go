// Package scheduler triggers periodic maintenance work via cron.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/booktracker/internal/tasks"
)

// CleanupScheduler periodically enqueues orphan tag/author cleanup onto
// the task queue.
type CleanupScheduler struct {
	taskClient *tasks.Client
	schedule   string

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewCleanupScheduler creates a new scheduler instance.
func NewCleanupScheduler(taskClient *tasks.Client, schedule string) *CleanupScheduler {
	return &CleanupScheduler{
		taskClient: taskClient,
		schedule:   schedule,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *CleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.enqueueCleanup); err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Cleanup scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Cleanup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunNow enqueues a cleanup immediately.
func (s *CleanupScheduler) RunNow() {
	s.enqueueCleanup()
}

func (s *CleanupScheduler) enqueueCleanup() {
	if _, err := s.taskClient.Add(tasks.CleanupOrphanTagsTask{}).Save(); err != nil {
		log.Printf("Cleanup scheduler: failed to enqueue tag cleanup: %v", err)
	}
	if _, err := s.taskClient.Add(tasks.CleanupOrphanAuthorsTask{}).Save(); err != nil {
		log.Printf("Cleanup scheduler: failed to enqueue author cleanup: %v", err)
	}
}
