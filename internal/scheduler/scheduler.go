package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Runner executes one scheduled import.
type Runner interface {
	RunScheduled(ctx context.Context, filePath string, templateID uuid.UUID)
}

// Job binds a daily hour:minute trigger to import parameters.
type Job struct {
	ID         string
	Hour       int
	Minute     int
	FilePath   string
	TemplateID uuid.UUID
}

// Phase tracks where a job sits in its trigger lifecycle.
type Phase int

const (
	PhaseRegistered Phase = iota
	PhaseDue
	PhaseRunning
	PhaseIdle
)

func (p Phase) String() string {
	switch p {
	case PhaseRegistered:
		return "registered"
	case PhaseDue:
		return "due"
	case PhaseRunning:
		return "running"
	case PhaseIdle:
		return "idle"
	default:
		return "unknown"
	}
}

type jobState struct {
	job       Job
	phase     Phase
	lastFired time.Time // truncated to the minute
}

// JobStatus is a snapshot of one registered job.
type JobStatus struct {
	Job       Job
	Phase     Phase
	LastFired time.Time
}

// Scheduler is a process-wide registry of recurring daily import jobs,
// evaluated on a cooperative loop independent of any request.
//
// The registry is in-memory only: jobs do not survive a process restart and
// must be re-registered by callers at startup. That is a deliberate
// non-goal, not an oversight.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	jobs     map[string]*jobState
	started  bool
	loopStop context.CancelFunc
	runStop  context.CancelFunc
	runCtx   context.Context
	loopDone chan struct{}
	inFlight sync.WaitGroup
}

// New creates a scheduler that checks triggers every tickInterval.
func New(runner Runner, tickInterval time.Duration) *Scheduler {
	if tickInterval <= 0 {
		tickInterval = 20 * time.Second
	}
	return &Scheduler{
		runner:   runner,
		interval: tickInterval,
		now:      time.Now,
		jobs:     make(map[string]*jobState),
	}
}

// Schedule registers or replaces the job under job.ID. Replacing discards
// the previous trigger and parameters; a run already in flight for the old
// definition completes but is never fired again. Jobs may be registered
// before or after Start.
func (s *Scheduler) Schedule(job Job) error {
	if job.ID == "" {
		return errors.New("job id is required")
	}
	if job.Hour < 0 || job.Hour > 23 {
		return fmt.Errorf("hour %d out of range", job.Hour)
	}
	if job.Minute < 0 || job.Minute > 59 {
		return fmt.Errorf("minute %d out of range", job.Minute)
	}
	if job.FilePath == "" {
		return errors.New("file path is required")
	}
	if job.TemplateID == uuid.Nil {
		return errors.New("template id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = &jobState{job: job, phase: PhaseRegistered}
	return nil
}

// Jobs returns a snapshot of all registered jobs.
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]JobStatus, 0, len(s.jobs))
	for _, state := range s.jobs {
		statuses = append(statuses, JobStatus{
			Job:       state.job,
			Phase:     state.phase,
			LastFired: state.lastFired,
		})
	}
	return statuses
}

// Start activates the trigger-evaluation loop. Calling it again while
// running is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	loopCtx, loopStop := context.WithCancel(context.Background())
	runCtx, runStop := context.WithCancel(context.Background())
	s.loopStop = loopStop
	s.runStop = runStop
	s.runCtx = runCtx
	s.loopDone = make(chan struct{})

	go s.loop(loopCtx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.loopDone)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evaluate(s.now())
		}
	}
}

// evaluate fires every job whose trigger matches now and has not already
// fired this minute. Execution happens off the loop goroutine so one slow
// import cannot delay other jobs' trigger checks.
func (s *Scheduler) evaluate(now time.Time) {
	minute := now.Truncate(time.Minute)

	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx := s.runCtx
	if runCtx == nil {
		runCtx = context.Background()
	}

	for _, state := range s.jobs {
		if now.Hour() != state.job.Hour || now.Minute() != state.job.Minute {
			continue
		}
		if state.lastFired.Equal(minute) {
			continue
		}
		if state.phase == PhaseDue || state.phase == PhaseRunning {
			// Previous run still in flight at the next due time: skip this
			// firing rather than queue a second one.
			state.lastFired = minute
			log.Printf("[SCHED] job %s still running, skipping trigger at %s", state.job.ID, minute.Format("15:04"))
			continue
		}

		state.phase = PhaseDue
		state.lastFired = minute
		job := state.job
		log.Printf("[SCHED] firing job %s", job.ID)

		s.inFlight.Add(1)
		go func(state *jobState, job Job) {
			defer s.inFlight.Done()

			s.setPhase(job.ID, state, PhaseRunning)
			s.runner.RunScheduled(runCtx, job.FilePath, job.TemplateID)
			s.setPhase(job.ID, state, PhaseIdle)
		}(state, job)
	}
}

// setPhase records a transition for state, unless the job was replaced
// while the run was in flight.
func (s *Scheduler) setPhase(id string, state *jobState, phase Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.jobs[id]; ok && current == state {
		state.phase = phase
	}
}

// Stop cancels the trigger loop and waits for in-flight runs, bounded by
// ctx. If ctx expires first the remaining runs are cancelled and abandoned.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	loopStop := s.loopStop
	runStop := s.runStop
	loopDone := s.loopDone
	s.mu.Unlock()

	loopStop()
	<-loopDone

	finished := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		runStop()
		return nil
	case <-ctx.Done():
		runStop()
		return ctx.Err()
	}
}
