// Package scan drives classification over the rendered page. Mutation
// bursts are debounced into a single pass; a scan already in flight is
// never cancelled, a trigger arriving meanwhile queues exactly one rerun.
package scan

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/domain"
	"github.com/eliteGoblin/edutubed/internal/extract"
)

// DefaultQuiescence is the debounce window: a pass starts only after this
// long with no further triggers.
const DefaultQuiescence = 1200 * time.Millisecond

// Classifier is the decision maker a pass consults per record.
type Classifier interface {
	Enabled() bool
	Classify(ctx context.Context, rec domain.Record) domain.Decision
}

// BatchRecorder receives one shown/hidden total per completed pass.
type BatchRecorder interface {
	RecordBatch(shown, hidden int)
}

// Loop owns the debounce timer and runs passes over a Page.
type Loop struct {
	page       domain.Page
	engine     Classifier
	stats      BatchRecorder
	logger     *zap.Logger
	quiescence time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	inFlight bool
	rerun    bool
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a loop. quiescence <= 0 uses DefaultQuiescence.
func New(page domain.Page, engine Classifier, stats BatchRecorder, logger *zap.Logger, quiescence time.Duration) *Loop {
	if quiescence <= 0 {
		quiescence = DefaultQuiescence
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		page:       page,
		engine:     engine,
		stats:      stats,
		logger:     logger,
		quiescence: quiescence,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Trigger requests a pass. Repeated triggers within the quiescence window
// collapse into one; a trigger during a pass queues a single follow-up.
func (l *Loop) Trigger() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if l.inFlight {
		l.rerun = true
		return
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.quiescence, l.fire)
}

func (l *Loop) fire() {
	l.mu.Lock()
	if l.closed || l.inFlight {
		l.rerun = l.rerun || l.inFlight
		l.mu.Unlock()
		return
	}
	l.inFlight = true
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.ScanOnce(l.ctx)
		l.mu.Lock()
		l.inFlight = false
		rerun := l.rerun && !l.closed
		l.rerun = false
		if rerun {
			if l.timer != nil {
				l.timer.Stop()
			}
			l.timer = time.AfterFunc(l.quiescence, l.fire)
		}
		l.mu.Unlock()
	}()
}

// ScanOnce runs a single full pass synchronously. Slots whose processed id
// matches the current item are counted but not re-classified; slots whose id
// changed have stale markers cleared first.
func (l *Loop) ScanOnce(ctx context.Context) {
	if !l.engine.Enabled() {
		return
	}
	start := time.Now()
	var shown, hidden, skipped int
	for _, slot := range l.page.Slots() {
		rec := extract.Record(slot.Raw())
		if rec.ItemID == "" {
			continue
		}
		if prev := slot.ProcessedID(); prev != "" && prev != rec.ItemID {
			slot.ClearMarks()
		}
		if slot.ProcessedID() == rec.ItemID {
			if slot.Hidden() {
				hidden++
			} else {
				shown++
			}
			skipped++
			continue
		}
		d := l.engine.Classify(ctx, rec)
		slot.Mark(rec.ItemID, d.Hidden)
		if d.Hidden {
			hidden++
		} else {
			shown++
		}
	}
	if l.stats != nil {
		l.stats.RecordBatch(shown, hidden)
	}
	l.logger.Debug("scan pass complete",
		zap.Int("shown", shown),
		zap.Int("hidden", hidden),
		zap.Int("skipped", skipped),
		zap.Duration("took", time.Since(start)))
}

// InvalidateAll clears every slot's markers so the next pass re-classifies
// the full page. Called after list mutations and sensitivity changes.
func (l *Loop) InvalidateAll() {
	for _, slot := range l.page.Slots() {
		slot.ClearMarks()
	}
	l.Trigger()
}

// RestoreAll clears markers without scheduling a pass, restoring original
// visibility. Called when filtering is toggled off.
func (l *Loop) RestoreAll() {
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
	}
	l.rerun = false
	l.mu.Unlock()
	for _, slot := range l.page.Slots() {
		slot.ClearMarks()
	}
}

// Close stops the timer and waits for any in-flight pass.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
	}
	l.mu.Unlock()
	l.cancel()
	l.wg.Wait()
}
