package simulator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/metrics"
	"github.com/corrupted-brain/Valley-Yatra/internal/realtime"
)

type Broadcaster interface {
	Broadcast(deltas []domain.TrackingDelta)
}

// Simulator drives the mocked real-time feed: on every tick it jitters the
// tracking store and broadcasts the resulting deltas. It stands in for a GPS
// ingestion pipeline and is explicitly not part of the planning core.
type Simulator struct {
	tracking    *realtime.Store
	broadcaster Broadcaster
	interval    time.Duration
	collector   *metrics.Collector
	logger      *slog.Logger

	ready   bool
	readyMu sync.RWMutex
}

func New(tracking *realtime.Store, broadcaster Broadcaster, interval time.Duration, collector *metrics.Collector, logger *slog.Logger) *Simulator {
	return &Simulator{
		tracking:    tracking,
		broadcaster: broadcaster,
		interval:    interval,
		collector:   collector,
		logger:      logger.With("component", "simulator"),
	}
}

func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick()
	s.setReady(true)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Simulator) tick() {
	deltas := s.tracking.Jitter(time.Now())

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(deltas)
	}
	if s.collector != nil {
		s.collector.SimulatorTicks.Inc()
	}

	s.logger.Debug("simulation tick", "deltas", len(deltas))
}

func (s *Simulator) IsReady() bool {
	s.readyMu.RLock()
	defer s.readyMu.RUnlock()
	return s.ready
}

func (s *Simulator) setReady(ready bool) {
	s.readyMu.Lock()
	defer s.readyMu.Unlock()
	s.ready = ready
}
