package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// OrphanTagsCleaner provides the ability to delete tags no book links to.
type OrphanTagsCleaner interface {
	DeleteOrphanTags() (int64, error)
}

// OrphanAuthorsCleaner provides the ability to delete authors no book
// references.
type OrphanAuthorsCleaner interface {
	DeleteOrphanAuthors() (int64, error)
}

// CleanupOrphanTagsTask removes tags that have no book links left, e.g.
// after their last book was deleted.
type CleanupOrphanTagsTask struct{}

// Config returns the queue configuration for tag cleanup tasks.
func (t CleanupOrphanTagsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_tags",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// NewCleanupOrphanTagsQueue creates a backlite queue for tag cleanup.
func NewCleanupOrphanTagsQueue(cleaner OrphanTagsCleaner) backlite.Queue {
	return backlite.NewQueue(func(ctx context.Context, task CleanupOrphanTagsTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan tags cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphanTags()
		if err != nil {
			return fmt.Errorf("cleanup orphan tags: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d orphan tags", deleted)
		return nil
	})
}

// CleanupOrphanAuthorsTask removes authors whose every book is gone.
type CleanupOrphanAuthorsTask struct{}

// Config returns the queue configuration for author cleanup tasks.
func (t CleanupOrphanAuthorsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_authors",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// NewCleanupOrphanAuthorsQueue creates a backlite queue for author cleanup.
func NewCleanupOrphanAuthorsQueue(cleaner OrphanAuthorsCleaner) backlite.Queue {
	return backlite.NewQueue(func(ctx context.Context, task CleanupOrphanAuthorsTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan authors cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphanAuthors()
		if err != nil {
			return fmt.Errorf("cleanup orphan authors: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d orphan authors", deleted)
		return nil
	})
}
