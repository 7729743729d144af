package mqtt

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/envmon/internal/control"
	"github.com/sweeney/envmon/internal/logic"
)

// Mirror is a control.DisplaySink that forwards the status to a Publisher.
// A change of mode or relay is sent at once; otherwise at most one status is
// sent per interval. Render never blocks: publishing happens in Run.
type Mirror struct {
	pub      Publisher
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger
	out      chan control.Snapshot

	mu      sync.Mutex
	sent    bool
	lastAt  time.Time
	lastKey outputs
	dropped int
}

type outputs struct {
	mode  logic.Mode
	fan   bool
	light bool
}

// NewMirror creates a Mirror publishing through pub.
func NewMirror(pub Publisher, interval time.Duration, now func() time.Time, log *zap.Logger) *Mirror {
	return &Mirror{
		pub:      pub,
		interval: interval,
		now:      now,
		log:      log,
		out:      make(chan control.Snapshot, 8),
	}
}

// Render implements control.DisplaySink.
func (m *Mirror) Render(snap control.Snapshot) {
	key := outputs{mode: snap.Mode, fan: snap.FanOn, light: snap.LightOn}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sent && key == m.lastKey && now.Sub(m.lastAt) < m.interval {
		return
	}

	select {
	case m.out <- snap:
		m.sent = true
		m.lastAt = now
		m.lastKey = key
	default:
		m.dropped++
	}
}

// Dropped returns how many statuses were discarded because Run fell behind.
func (m *Mirror) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// Run publishes queued statuses until ctx is done.
func (m *Mirror) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-m.out:
			if err := m.pub.PublishStatus(m.now(), snap); err != nil {
				m.log.Warn("status publish failed", zap.Error(err))
			}
		}
	}
}
