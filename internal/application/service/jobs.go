package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/order-analytics/internal/application/loader"
)

// JobStatus is the lifecycle state of an asynchronous refresh.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job is an asynchronous refresh. Callers receive copies.
type Job struct {
	ID          string        `json:"id"`
	Trigger     string        `json:"trigger"`
	Status      JobStatus     `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Origin      loader.Origin `json:"origin,omitempty"`
	OrderCount  int           `json:"order_count"`
	Error       string        `json:"error,omitempty"`
}

// Done reports whether the job reached a terminal status.
func (j Job) Done() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// StartRefresh runs a refresh in the background and returns its job ID.
// The job does not inherit any request context; it is bounded by the
// configured refresh timeout instead.
func (s *DashboardService) StartRefresh(trigger string) (string, error) {
	if !s.refreshMu.TryLock() {
		s.rejectRefresh(trigger)
		return "", ErrRefreshInProgress
	}

	job := &Job{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		Status:    JobPending,
		StartedAt: s.opts.Clock(),
	}
	s.jobsMu.Lock()
	s.jobs[job.ID] = job
	s.jobsMu.Unlock()

	go s.runJob(job.ID, trigger)

	s.logger.Info("refresh job started", "job_id", job.ID, "trigger", trigger)
	return job.ID, nil
}

func (s *DashboardService) runJob(jobID, trigger string) {
	defer s.refreshMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.RefreshTimeout)
	defer cancel()

	s.updateJob(jobID, func(j *Job) { j.Status = JobRunning })

	result := s.refreshLocked(ctx, trigger)

	s.updateJob(jobID, func(j *Job) {
		now := s.opts.Clock()
		j.CompletedAt = &now
		j.Origin = result.Origin
		j.OrderCount = len(result.Orders)
		if result.Err != nil {
			j.Error = result.Err.Error()
		}
		// a cache fallback still leaves usable data
		if result.Origin == loader.OriginNone {
			j.Status = JobFailed
		} else {
			j.Status = JobCompleted
		}
	})
}

func (s *DashboardService) updateJob(jobID string, fn func(*Job)) {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if job, ok := s.jobs[jobID]; ok {
		fn(job)
	}
}

// GetJob returns a copy of the job with the given ID.
func (s *DashboardService) GetJob(jobID string) (Job, error) {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return *job, nil
}

// ListJobs returns every tracked job, newest first.
func (s *DashboardService) ListJobs() []Job {
	s.jobsMu.RLock()
	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	s.jobsMu.RUnlock()

	sortJobs(jobs)
	return jobs
}

// CleanupOldJobs removes finished jobs that completed more than maxAge ago.
func (s *DashboardService) CleanupOldJobs(maxAge time.Duration) int {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	cutoff := s.opts.Clock().Add(-maxAge)
	removed := 0
	for id, job := range s.jobs {
		if job.Done() && job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("cleaned up old refresh jobs", "removed", removed)
	}
	return removed
}

// StartBackgroundCleanup periodically drops old jobs and expired notices
// until StopBackgroundCleanup is called.
func (s *DashboardService) StartBackgroundCleanup(interval time.Duration) {
	s.cleanupStop = make(chan struct{})
	s.cleanupDone = make(chan struct{})

	go func() {
		defer close(s.cleanupDone)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.logger.Info("background cleanup started", "interval", interval, "retention", s.opts.JobRetention)
		for {
			select {
			case <-s.cleanupStop:
				s.logger.Info("background cleanup stopped")
				return
			case <-ticker.C:
				s.CleanupOldJobs(s.opts.JobRetention)
				s.Notices()
			}
		}
	}()
}

// StopBackgroundCleanup stops the cleanup goroutine and waits for it.
func (s *DashboardService) StopBackgroundCleanup() {
	if s.cleanupStop == nil {
		return
	}
	close(s.cleanupStop)
	<-s.cleanupDone
	s.cleanupStop = nil
}

// sortJobs orders jobs newest first.
func sortJobs(jobs []Job) {
	slices.SortFunc(jobs, func(a, b Job) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
