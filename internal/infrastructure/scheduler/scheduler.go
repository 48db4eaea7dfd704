// Package scheduler runs recurring jobs (statement generation, backups)
// on cron schedules with per-job timeouts.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobFunc is the work a scheduled job performs
type JobFunc func(ctx context.Context) error

// Job is a named recurring task
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Enabled bool
	Run     JobFunc
}

// JobStatus is the introspection view of a registered job
type JobStatus struct {
	Name      string     `json:"name"`
	Spec      string     `json:"spec"`
	Enabled   bool       `json:"enabled"`
	Running   bool       `json:"running"`
	PrevRun   *time.Time `json:"prev_run,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

type jobState struct {
	job     Job
	entryID cron.EntryID
	running bool
	prevRun *time.Time
	lastErr string
}

// Scheduler owns the cron runner and its registered jobs
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger

	mu   sync.Mutex
	jobs map[string]*jobState
}

// New creates a stopped Scheduler. Schedules are evaluated in UTC.
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger,
		jobs:   map[string]*jobState{},
	}
}

// Register adds a job. Disabled jobs are tracked but not scheduled.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("scheduler: job needs a name and a run function")
	}
	if job.Timeout <= 0 {
		job.Timeout = 10 * time.Minute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("scheduler: job %q already registered", job.Name)
	}
	st := &jobState{job: job}
	if job.Enabled {
		id, err := s.cron.AddFunc(job.Spec, s.wrap(job.Name))
		if err != nil {
			return fmt.Errorf("scheduler: invalid spec %q for job %q: %w", job.Spec, job.Name, err)
		}
		st.entryID = id
	}
	s.jobs[job.Name] = st
	s.logger.Info("Job registered",
		zap.String("job", job.Name),
		zap.String("spec", job.Spec),
		zap.Bool("enabled", job.Enabled))
	return nil
}

// Configure reschedules a job with a new expression and enabled flag
func (s *Scheduler) Configure(name, spec string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("scheduler: unknown job %q", name)
	}
	if st.job.Enabled {
		s.cron.Remove(st.entryID)
		st.entryID = 0
	}
	if spec == "" {
		spec = st.job.Spec
	}
	if enabled {
		id, err := s.cron.AddFunc(spec, s.wrap(name))
		if err != nil {
			// restore the previous schedule
			if st.job.Enabled {
				st.entryID, _ = s.cron.AddFunc(st.job.Spec, s.wrap(name))
			}
			return fmt.Errorf("scheduler: invalid spec %q for job %q: %w", spec, name, err)
		}
		st.entryID = id
	}
	st.job.Spec = spec
	st.job.Enabled = enabled
	s.logger.Info("Job reconfigured",
		zap.String("job", name),
		zap.String("spec", spec),
		zap.Bool("enabled", enabled))
	return nil
}

// RunNow triggers a job immediately regardless of its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	st, ok := s.jobs[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("scheduler: unknown job %q", name)
	}
	if st.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler: job %q is already running", name)
	}
	job := st.job
	st.running = true
	s.mu.Unlock()

	err := s.execute(ctx, job)
	s.finish(name, err)
	return err
}

// Start begins schedule evaluation
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop halts scheduling and waits for running jobs to finish
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status reports every registered job with its prev/next run times
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for name, st := range s.jobs {
		js := JobStatus{
			Name:      name,
			Spec:      st.job.Spec,
			Enabled:   st.job.Enabled,
			Running:   st.running,
			PrevRun:   st.prevRun,
			LastError: st.lastErr,
		}
		if st.job.Enabled {
			entry := s.cron.Entry(st.entryID)
			if !entry.Next.IsZero() {
				next := entry.Next
				js.NextRun = &next
			}
		}
		out = append(out, js)
	}
	return out
}

func (s *Scheduler) wrap(name string) func() {
	return func() {
		s.mu.Lock()
		st, ok := s.jobs[name]
		if !ok || st.running {
			s.mu.Unlock()
			return
		}
		job := st.job
		st.running = true
		s.mu.Unlock()

		err := s.execute(context.Background(), job)
		s.finish(name, err)
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) (err error) {
	ctx, cancel := context.WithTimeout(ctx, job.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scheduler: job %q panicked: %v", job.Name, r)
			s.logger.Error("Job panicked", zap.String("job", job.Name), zap.Any("panic", r))
		}
	}()

	start := time.Now()
	s.logger.Info("Job starting", zap.String("job", job.Name))
	err = job.Run(ctx)
	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", job.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return err
	}
	s.logger.Info("Job finished",
		zap.String("job", job.Name),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *Scheduler) finish(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.jobs[name]
	if !ok {
		return
	}
	now := time.Now().UTC()
	st.running = false
	st.prevRun = &now
	if err != nil {
		st.lastErr = err.Error()
	} else {
		st.lastErr = ""
	}
}
