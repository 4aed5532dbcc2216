package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tonhe/fireline/internal/diag"
	"github.com/tonhe/fireline/internal/history"
	"github.com/tonhe/fireline/internal/logging"
	"github.com/tonhe/fireline/internal/probe"
)

const (
	DefaultInterval   = 10 * time.Second
	DefaultTimeout    = 5 * time.Second
	DefaultMaxHistory = 360
)

// Recorder persists completed runs. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (int64, error)
}

// Options configures a Poller. Zero durations and sizes take the defaults
// above; Evaluator is required.
type Options struct {
	Name       string
	Interval   time.Duration
	Timeout    time.Duration
	MaxHistory int
	Evaluator  *diag.Evaluator
	Recorder   Recorder
	Logger     *zap.Logger
}

// Poller runs the diagnostics loop for a single controller, collecting a
// snapshot set at the configured interval and evaluating it.
type Poller struct {
	mu          sync.RWMutex
	pollMu      sync.Mutex
	opts        Options
	collector   probe.Collector
	log         *zap.Logger
	history     *RingBuffer[Report]
	subscribers []chan EngineEvent
	ctx         context.Context
	cancel      context.CancelFunc
	stopOnce    sync.Once
	stopCh      chan struct{}
	pollCount   int
	errorCount  int
	lastPoll    time.Time
	stopped     bool
}

// NewPoller creates a Poller for the given collector.
func NewPoller(collector probe.Collector, opts Options) (*Poller, error) {
	if collector == nil {
		return nil, errors.New("engine: nil collector")
	}
	if opts.Evaluator == nil {
		return nil, errors.New("engine: nil evaluator")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = DefaultMaxHistory
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		opts:      opts,
		collector: collector,
		log:       opts.Logger.With(zap.String("controller", opts.Name)),
		history:   NewRingBuffer[Report](opts.MaxHistory),
		ctx:       ctx,
		cancel:    cancel,
		stopCh:    make(chan struct{}),
	}
	return p, nil
}

// Run starts the polling loop. It blocks until Stop is called.
// Subscribers get an empty snapshot immediately so the UI can render,
// and the first poll is kicked off asynchronously.
func (p *Poller) Run() {
	p.mu.Lock()
	p.notify()
	p.mu.Unlock()

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	go p.Poll()

	for {
		select {
		case <-ticker.C:
			p.Poll()
		case <-p.stopCh:
			p.cleanup()
			return
		}
	}
}

// Poll executes a single collect, evaluate and aggregate cycle and returns
// its report. Concurrent calls are serialised.
func (p *Poller) Poll() Report {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()

	start := time.Now()
	rep := p.cycle()
	rep.Controller = p.opts.Name
	rep.Time = start
	rep.Duration = time.Since(start)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return rep
	}
	p.history.Add(rep)
	p.pollCount++
	p.lastPoll = start
	if rep.Err != nil {
		p.errorCount++
	}
	p.notify()
	return rep
}

// cycle does the work of Poll without touching poller state.
func (p *Poller) cycle() Report {
	ctx, cancel := context.WithTimeout(p.ctx, p.opts.Timeout)
	defer cancel()

	set, err := p.collector.Collect(ctx)
	if err != nil {
		p.log.Warn("collect failed", zap.Error(err))
		return Report{Err: err}
	}
	if set == nil {
		err := errors.New("collector returned no snapshot")
		p.log.Warn("collect failed", zap.Error(err))
		return Report{Err: err}
	}

	verdicts, err := p.opts.Evaluator.EvaluateAll(set)
	if err != nil {
		p.log.Error("evaluate failed", zap.Error(err))
		return Report{Snapshot: set, Err: err}
	}
	sum, err := diag.Aggregate(verdicts)
	if err != nil {
		p.log.Error("aggregate failed", zap.Error(err))
		return Report{Snapshot: set, Err: err}
	}

	for _, v := range verdicts {
		if v.Status != diag.StatusSuccess {
			p.log.Debug("subsystem needs attention",
				zap.String("subsystem", string(v.Subsystem)),
				zap.String("status", string(v.Status)),
				zap.String("summary", v.SummaryPrimary))
		}
	}
	p.log.Info("diagnostics complete",
		zap.String("label", string(sum.Label)),
		zap.Int("errors", sum.Errors),
		zap.Int("warnings", sum.Warnings))

	p.record(ctx, set, verdicts, sum)
	return Report{Snapshot: set, Verdicts: verdicts, Summary: sum}
}

// record persists a successful run. Failures are logged, never fatal.
func (p *Poller) record(ctx context.Context, set *diag.SnapshotSet, verdicts []diag.Verdict, sum diag.Summary) {
	if p.opts.Recorder == nil {
		return
	}
	run, err := history.NewRun(set, verdicts, sum)
	if err != nil {
		p.log.Warn("fingerprint snapshot failed", zap.Error(err))
	}
	if run.Controller == "" {
		run.Controller = p.opts.Name
	}
	if _, err := p.opts.Recorder.Record(ctx, run); err != nil {
		p.log.Warn("record history failed", zap.Error(err))
	}
}

// Snapshot returns a point-in-time copy of the controller's reports.
// This method acquires a read lock and is safe to call from any goroutine.
func (p *Poller) Snapshot() *ControllerSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

// snapshotLocked builds a ControllerSnapshot without acquiring any lock.
// The caller must hold at least a read lock on p.mu.
func (p *Poller) snapshotLocked() *ControllerSnapshot {
	snap := &ControllerSnapshot{
		Name:      p.opts.Name,
		History:   p.history.All(),
		LastPoll:  p.lastPoll,
		PollCount: p.pollCount,
	}
	if last, ok := p.history.Last(); ok {
		snap.Latest = &last
	}
	return snap
}

// Subscribe returns a channel that receives an event after each poll cycle.
func (p *Poller) Subscribe() <-chan EngineEvent {
	ch := make(chan EngineEvent, 1)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, ch)
	return ch
}

// notify sends the current snapshot to all subscribers (non-blocking).
// Must be called while holding the write lock on p.mu.
func (p *Poller) notify() {
	snap := p.snapshotLocked()
	event := EngineEvent{Controller: p.opts.Name, Snapshot: snap}
	for _, ch := range p.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Info returns summary information about this engine.
func (p *Poller) Info() EngineInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	info := EngineInfo{
		Name:       p.opts.Name,
		State:      EngineRunning,
		LastPoll:   p.lastPoll,
		PollCount:  p.pollCount,
		ErrorCount: p.errorCount,
	}
	if p.stopped {
		info.State = EngineStopped
	}
	if last, ok := p.history.Last(); ok {
		if last.Err != nil && !p.stopped {
			info.State = EngineError
		} else if last.Err == nil {
			info.Label = last.Summary.Label
		}
	}
	return info
}

// Stop signals the polling loop to exit and cancels any in-flight
// collection. It is safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		close(p.stopCh)
	})
}

// cleanup marks the poller stopped and closes subscriber channels.
func (p *Poller) cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	for _, ch := range p.subscribers {
		close(ch)
	}
	p.subscribers = nil
}
