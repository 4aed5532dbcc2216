package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tonhe/fireline/internal/diag"
	"github.com/tonhe/fireline/internal/history"
	"github.com/tonhe/fireline/internal/probe"
)

type memRecorder struct {
	mu   sync.Mutex
	runs []history.Run
	err  error
}

func (r *memRecorder) Record(_ context.Context, run history.Run) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.runs = append(r.runs, run)
	return int64(len(r.runs)), nil
}

func (r *memRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

func testEvaluator(t *testing.T) *diag.Evaluator {
	t.Helper()
	e, err := diag.NewEvaluator(diag.DefaultThresholds())
	require.NoError(t, err)
	return e
}

func TestPollerPoll(t *testing.T) {
	rec := &memRecorder{}
	p, err := NewPoller(probe.StaticCollector{Set: probe.Sample("ctl-1")}, Options{
		Name:       "ctl-1",
		Evaluator:  testEvaluator(t),
		Recorder:   rec,
		MaxHistory: 2,
	})
	require.NoError(t, err)

	rep := p.Poll()
	require.NoError(t, rep.Err)
	require.True(t, rep.OK())
	assert.Equal(t, "ctl-1", rep.Controller)
	assert.Len(t, rep.Verdicts, 9)
	assert.Equal(t, diag.LabelGood, rep.Summary.Label, "sample leaves Wi-Fi disabled")
	assert.Equal(t, 1, rec.count())

	p.Poll()
	p.Poll()
	snap := p.Snapshot()
	assert.Equal(t, 3, snap.PollCount)
	assert.Len(t, snap.History, 2)
	require.NotNil(t, snap.Latest)
	assert.Len(t, snap.Scores(), 2)
	assert.InDelta(t, 100*(8+0.5)/9, snap.Scores()[1], 1e-9)

	info := p.Info()
	assert.Equal(t, EngineRunning, info.State)
	assert.Equal(t, diag.LabelGood, info.Label)
	assert.Equal(t, 0, info.ErrorCount)
}

func TestPollerCollectError(t *testing.T) {
	boom := errors.New("sensor bus timeout")
	rec := &memRecorder{}
	core, logs := observer.New(zapcore.DebugLevel)
	p, err := NewPoller(probe.CollectorFunc(func(context.Context) (*diag.SnapshotSet, error) {
		return nil, boom
	}), Options{Name: "ctl-err", Evaluator: testEvaluator(t), Recorder: rec, Logger: zap.New(core)})
	require.NoError(t, err)

	rep := p.Poll()
	assert.ErrorIs(t, rep.Err, boom)
	assert.False(t, rep.OK())
	assert.Zero(t, rep.HealthScore())
	assert.Zero(t, rec.count())

	info := p.Info()
	assert.Equal(t, EngineError, info.State)
	assert.Equal(t, 1, info.ErrorCount)

	entries := logs.FilterMessage("collect failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ctl-err", entries[0].ContextMap()["controller"])
}

func TestPollerInvalidSnapshot(t *testing.T) {
	bad := &diag.SnapshotSet{Ethernet: &diag.EthernetSnapshot{RXErrors: diag.Int(-3)}}
	p, err := NewPoller(probe.StaticCollector{Set: bad}, Options{Name: "ctl", Evaluator: testEvaluator(t)})
	require.NoError(t, err)

	rep := p.Poll()
	assert.ErrorIs(t, rep.Err, diag.ErrInvalidSnapshot)
	assert.Empty(t, rep.Verdicts)
}

func TestPollerTimeout(t *testing.T) {
	p, err := NewPoller(probe.CollectorFunc(func(ctx context.Context) (*diag.SnapshotSet, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), Options{Name: "slow", Evaluator: testEvaluator(t), Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	rep := p.Poll()
	assert.ErrorIs(t, rep.Err, context.DeadlineExceeded)
}

func TestPollerRecorderFailureIsNotFatal(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	p, err := NewPoller(probe.StaticCollector{Set: probe.Sample("ctl")}, Options{Name: "ctl", Evaluator: testEvaluator(t), Recorder: rec})
	require.NoError(t, err)

	rep := p.Poll()
	assert.NoError(t, rep.Err)
	assert.True(t, rep.OK())
}

func TestPollerRecordsNonFiniteReadings(t *testing.T) {
	set := probe.Sample("ctl-nan")
	set.Power = &diag.PowerSnapshot{Volts: diag.Float(math.NaN())}
	rec := &memRecorder{}
	p, err := NewPoller(probe.StaticCollector{Set: set}, Options{Name: "ctl-nan", Evaluator: testEvaluator(t), Recorder: rec})
	require.NoError(t, err)

	rep := p.Poll()
	require.NoError(t, rep.Err)
	assert.Equal(t, diag.LabelNeedsAttention, rep.Summary.Label)
	require.Equal(t, 1, rec.count())
	assert.Equal(t, diag.StatusError, rec.runs[0].Statuses[diag.Power])
	assert.NotEmpty(t, rec.runs[0].Fingerprint)
}

func TestPollerRunAndStop(t *testing.T) {
	p, err := NewPoller(probe.StaticCollector{Set: probe.Sample("ctl")}, Options{
		Name:      "ctl",
		Evaluator: testEvaluator(t),
		Interval:  10 * time.Millisecond,
	})
	require.NoError(t, err)
	events := p.Subscribe()

	done := make(chan struct{})
	go func() {
		p.Run()
		close(done)
	}()

	require.Eventually(t, func() bool {
		return p.Snapshot().PollCount >= 2
	}, 2*time.Second, 5*time.Millisecond)

	select {
	case ev := <-events:
		assert.Equal(t, "ctl", ev.Controller)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	p.Stop()
	p.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}

	count := p.Snapshot().PollCount
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, count, p.Snapshot().PollCount, "no polls after stop")
	assert.Equal(t, EngineStopped, p.Info().State)

	// subscriber channel is closed once drained
	for range events {
	}
}

func TestNewPollerValidation(t *testing.T) {
	_, err := NewPoller(nil, Options{Evaluator: testEvaluator(t)})
	assert.Error(t, err)
	_, err = NewPoller(probe.StaticCollector{Set: probe.Sample("x")}, Options{})
	assert.Error(t, err)

	p, err := NewPoller(probe.StaticCollector{Set: probe.Sample("x")}, Options{Evaluator: testEvaluator(t)})
	require.NoError(t, err)
	assert.Equal(t, DefaultInterval, p.opts.Interval)
	assert.Equal(t, DefaultTimeout, p.opts.Timeout)
	assert.Equal(t, DefaultMaxHistory, p.opts.MaxHistory)
}
