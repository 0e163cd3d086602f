// Package scheduler wraps the cron runner used for the periodic evaluation
// poll and insight generation.
package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// AddJob registers a function under a cron spec ("@every 10s", "0 * * * *").
func (s *Scheduler) AddJob(spec string, job func()) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return 0, err
	}
	log.Printf("SCHEDULER: registered job %d (%s)", id, spec)
	return id, nil
}

// Remove unregisters a job.
func (s *Scheduler) Remove(id cron.EntryID) {
	s.cron.Remove(id)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("SCHEDULER: started")
}

// Stop halts the runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("SCHEDULER: stopped")
}
