package CronJobs

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"Exchange/Engine"
	"Exchange/Models"
)

// PostingSweeper closes open postings whose task window has already ended, so
// stale calls for applicants do not keep collecting bids.
type PostingSweeper struct {
	cronScheduler  *cron.Cron
	engine         *Engine.Engine
	runImmediately bool
	jobID          cron.EntryID
}

// NewPostingSweeper creates a sweeper with the given configuration.
func NewPostingSweeper(engine *Engine.Engine, runImmediately bool) *PostingSweeper {
	return &PostingSweeper{
		cronScheduler:  cron.New(cron.WithSeconds()),
		engine:         engine,
		runImmediately: runImmediately,
	}
}

// Start schedules the nightly sweep.
func (s *PostingSweeper) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc("0 0 1 * * *", func() {
		log.Println("Running scheduled posting sweep")
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	fmt.Println("Posting sweeper started - will run daily at 1:00 AM")

	if s.runImmediately {
		log.Println("Running initial posting sweep")
		s.runSweep()
	}
	return nil
}

// Stop halts the scheduler.
func (s *PostingSweeper) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Posting sweeper stopped")
	}
}

func (s *PostingSweeper) runSweep() {
	var postings []Models.TaskPosting
	err := s.engine.DB.
		Joins("JOIN tasks ON tasks.id = task_postings.task").
		Where("task_postings.is_open = ? AND tasks.end_time < ?", true, s.engine.Now()).
		Find(&postings).Error
	if err != nil {
		log.Printf("Posting sweep query failed: %v", err)
		return
	}

	for _, posting := range postings {
		if err := s.engine.ClosePosting(Engine.SystemActor, posting.ID); err != nil {
			log.Printf("Failed to close posting %s: %v", posting.ID, err)
			continue
		}
		log.Printf("Closed expired posting %s", posting.ID)
	}
	if len(postings) > 0 {
		log.Printf("Posting sweep closed %d posting(s)", len(postings))
	}
}
