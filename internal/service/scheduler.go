package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the daily price history refresh on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	refresh *RefreshService
}

// NewScheduler creates a scheduler that runs the refresh on the given cron
// spec (standard five-field format, evaluated in UTC).
func NewScheduler(refresh *RefreshService, spec string) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	s := &Scheduler{cron: c, refresh: refresh}

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		count, err := s.refresh.RefreshAll(ctx)
		if err != nil {
			log.Printf("scheduled price refresh failed: %v", err)
			return
		}
		log.Printf("scheduled price refresh completed: %d symbols", count)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("price refresh scheduler started")
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("price refresh scheduler stopped")
}
