package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/Seeds/internal/hermes"
	"github.com/MikeSquared-Agency/Seeds/internal/metrics"
	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

// Destination is a place exports are written to.
type Destination interface {
	Write(ctx context.Context, name string, data []byte) error
}

// ObjectName is the name an export taken at t is written under.
func ObjectName(t time.Time) string {
	return "seeds-" + t.UTC().Format("20060102T150405Z") + ".jsonl"
}

// Scheduler runs periodic exports to one or more destinations.
type Scheduler struct {
	store        store.Store
	engine       *scoring.Engine
	destinations []Destination
	interval     time.Duration
	hermes       hermes.Client
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(s store.Store, e *scoring.Engine, destinations []Destination, interval time.Duration, h hermes.Client, m *metrics.Metrics, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:        s,
		engine:       e,
		destinations: destinations,
		interval:     interval,
		hermes:       h,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// Start runs an export immediately, then on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for a running export to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	if err := s.ExportOnce(ctx); err != nil {
		s.logger.Error("export failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ExportOnce(ctx); err != nil {
				s.logger.Error("export failed", "error", err)
			}
		}
	}
}

// ExportOnce builds one export and writes it to every destination. A
// failing destination does not stop the others; their errors are joined.
func (s *Scheduler) ExportOnce(ctx context.Context) error {
	var buf bytes.Buffer
	counts, err := ExportJSONL(ctx, s.store, s.engine, &buf)
	if err != nil {
		s.metrics.ObserveExport(0, err)
		return fmt.Errorf("build export: %w", err)
	}
	data := buf.Bytes()
	name := ObjectName(s.now())

	var errs []error
	for i, dest := range s.destinations {
		if err := dest.Write(ctx, name, data); err != nil {
			errs = append(errs, fmt.Errorf("destination %d: %w", i, err))
		}
	}
	err = errors.Join(errs...)
	s.metrics.ObserveExport(len(data), err)
	if err != nil {
		return err
	}

	s.logger.Info("export completed", "name", name, "boards", counts.Boards, "seeds", counts.Seeds, "bytes", len(data))
	if s.hermes != nil {
		_ = s.hermes.Publish(hermes.SubjectExportCompleted, hermes.ExportEvent{
			Key:       name,
			Boards:    counts.Boards,
			Seeds:     counts.Seeds,
			Bytes:     len(data),
			Timestamp: s.now().UTC(),
		})
	}
	return nil
}
