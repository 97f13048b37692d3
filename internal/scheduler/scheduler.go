// Package scheduler drives the message dispatcher: on every tick it asks a
// BatchProcessor to send the next batch of pending SMS through Skebby.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// BatchProcessor is the dependency that actually does the work.
// The scheduler will call ProcessBatch on a fixed interval.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context) error
}

// SchedulerService exposes a small control surface for the dispatcher.
// Start/Stop are synchronous controls, and IsRunning reports
// whether the scheduler is currently accepting ticks.
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// DefaultInterval is used when no custom interval is provided.
const DefaultInterval = 2 * time.Minute

// DefaultBatchTimeout bounds a single batch. A batch may log in to Skebby
// and then send, so it gets more than one provider timeout.
const DefaultBatchTimeout = 90 * time.Second

// controlTimeout is how long we wait for the control loop to
// accept a command and acknowledge it.
const controlTimeout = 2 * time.Second

var (
	// ErrNotResponding is returned when the control loop did not accept a command.
	ErrNotResponding = errors.New("scheduler: control loop not responding")
	// ErrAckTimeout is returned when the command was accepted but not acknowledged in time.
	ErrAckTimeout = errors.New("scheduler: acknowledgement timeout")
	// ErrClosed is returned once the scheduler's context is done.
	ErrClosed = errors.New("scheduler: closed")
)

type controlOp int

const (
	opStart controlOp = iota
	opStop
	opStatus
)

func (op controlOp) String() string {
	switch op {
	case opStart:
		return "start"
	case opStop:
		return "stop"
	default:
		return "status"
	}
}

type controlMsg struct {
	op   controlOp
	resp chan bool
}

// Options configures the scheduler. Zero values fall back to defaults.
type Options struct {
	Interval     time.Duration
	BatchTimeout time.Duration
	Logger       *logrus.Entry
}

// schedulerService owns the internal state and runs the control loop.
// All mutable state lives in the loop goroutine.
type schedulerService struct {
	processor    BatchProcessor
	interval     time.Duration
	batchTimeout time.Duration
	ctrl         chan controlMsg
	done         <-chan struct{}
	log          *logrus.Entry
}

// NewSchedulerService creates a stopped scheduler. The control loop runs
// until ctx is done; afterwards every control call returns ErrClosed.
func NewSchedulerService(ctx context.Context, processor BatchProcessor, opts Options) SchedulerService {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = DefaultBatchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &schedulerService{
		processor:    processor,
		interval:     opts.Interval,
		batchTimeout: opts.BatchTimeout,
		ctrl:         make(chan controlMsg),
		done:         ctx.Done(),
		log:          opts.Logger.WithField("component", "scheduler"),
	}

	go s.loop()

	return s
}

// Start tells the scheduler to begin processing ticks.
func (s *schedulerService) Start() error {
	_, err := s.send(opStart)
	return err
}

// Stop tells the scheduler to stop accepting new ticks.
// If a batch is currently running, Stop waits until that batch
// finishes (or times out) before returning.
func (s *schedulerService) Stop() error {
	_, err := s.send(opStop)
	return err
}

// IsRunning reports whether new ticks will be processed. It does not mean
// that a batch is executing right now.
func (s *schedulerService) IsRunning() bool {
	running, err := s.send(opStatus)
	return err == nil && running
}

// send delivers a command to the loop and waits for its answer.
func (s *schedulerService) send(op controlOp) (bool, error) {
	resp := make(chan bool, 1)

	select {
	case s.ctrl <- controlMsg{op: op, resp: resp}:
	case <-s.done:
		return false, ErrClosed
	case <-time.After(controlTimeout):
		return false, fmt.Errorf("%s: %w", op, ErrNotResponding)
	}

	// Stop may legitimately wait for a running batch.
	wait := controlTimeout
	if op == opStop {
		wait += s.batchTimeout
	}

	select {
	case v := <-resp:
		return v, nil
	case <-s.done:
		return false, ErrClosed
	case <-time.After(wait):
		return false, fmt.Errorf("%s: %w", op, ErrAckTimeout)
	}
}

// batchResult is posted back to the loop when a batch goroutine ends.
type batchResult struct {
	err      error
	duration time.Duration
}

func (s *schedulerService) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	running := false
	inBatch := false
	finished := make(chan batchResult, 1)

	// Stop requests received mid-batch; answered once the batch ends.
	var pendingStops []chan bool

	for {
		select {
		case <-s.done:
			s.log.Info("scheduler closed")
			for _, resp := range pendingStops {
				resp <- true
			}
			return

		case msg := <-s.ctrl:
			switch msg.op {
			case opStart:
				if !running {
					s.log.WithFields(logrus.Fields{
						"interval":      s.interval.String(),
						"batch_timeout": s.batchTimeout.String(),
					}).Info("scheduler started")
				}
				running = true
				msg.resp <- true

			case opStop:
				running = false
				if inBatch {
					s.log.Info("stop requested, waiting for current batch")
					pendingStops = append(pendingStops, msg.resp)
					continue
				}
				s.log.Info("scheduler stopped")
				msg.resp <- true

			case opStatus:
				msg.resp <- running
			}

		case <-ticker.C:
			if !running || inBatch {
				continue
			}

			inBatch = true
			s.log.Debug("triggering batch")
			go s.runBatch(finished)

		case res := <-finished:
			inBatch = false

			entry := s.log.WithField("duration", res.duration.String())
			if res.err != nil {
				entry.WithError(res.err).Error("batch failed")
			} else {
				entry.Debug("batch completed")
			}

			if len(pendingStops) > 0 {
				for _, resp := range pendingStops {
					resp <- true
				}
				pendingStops = nil
				s.log.Info("scheduler stopped")
			}
		}
	}
}

// runBatch executes one time-bounded batch outside the control loop so
// status queries stay responsive while Skebby calls are in flight.
func (s *schedulerService) runBatch(finished chan<- batchResult) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), s.batchTimeout)
	defer cancel()

	err := s.processor.ProcessBatch(ctx)
	finished <- batchResult{err: err, duration: time.Since(start)}
}
