package rescore

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Seeds/internal/config"
	"github.com/MikeSquared-Agency/Seeds/internal/hermes"
	"github.com/MikeSquared-Agency/Seeds/internal/metrics"
	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

const (
	defaultQueueSize = 64
	boardPageSize    = 100
	scoreEpsilon     = 1e-9
)

// Worker keeps the cached seed scores in step with board weights and
// ratings. Boards are rescored when queued and again on every sweep.
type Worker struct {
	store    store.Store
	hermes   hermes.Client
	engine   *scoring.Engine
	metrics  *metrics.Metrics
	interval time.Duration
	logger   *slog.Logger

	queue     chan uuid.UUID
	pendingMu sync.Mutex
	pending   map[uuid.UUID]bool

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, h hermes.Client, e *scoring.Engine, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *Worker {
	size := cfg.Rescore.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Worker{
		store:    s,
		hermes:   h,
		engine:   e,
		metrics:  m,
		interval: cfg.RescoreInterval(),
		logger:   logger,
		queue:    make(chan uuid.UUID, size),
		pending:  make(map[uuid.UUID]bool),
		stopCh:   make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(2)
	go w.queueLoop(ctx)
	go w.sweepLoop(ctx)
}

func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

// Enqueue schedules a board for rescoring. A board already waiting in the
// queue is not added twice. When the queue is full the request is dropped
// and the next sweep picks the board up.
func (w *Worker) Enqueue(boardID uuid.UUID) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if w.pending[boardID] {
		return
	}
	select {
	case w.queue <- boardID:
		w.pending[boardID] = true
	default:
		w.logger.Warn("rescore queue full, deferring to sweep", "board_id", boardID)
	}
}

func (w *Worker) queueLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case id := <-w.queue:
			w.pendingMu.Lock()
			delete(w.pending, id)
			w.pendingMu.Unlock()

			if _, err := w.RescoreBoard(ctx, id); err != nil {
				w.logger.Warn("rescore failed", "board_id", id, "error", err)
			}
		}
	}
}

func (w *Worker) sweepLoop(ctx context.Context) {
	defer w.wg.Done()
	if w.interval <= 0 {
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep rescores every board.
func (w *Worker) Sweep(ctx context.Context) {
	offset := 0
	total := 0
	for {
		boards, err := w.store.ListBoards(ctx, store.BoardFilter{Limit: boardPageSize, Offset: offset})
		if err != nil {
			w.logger.Error("failed to list boards", "error", err)
			return
		}
		for _, b := range boards {
			n, err := w.RescoreBoard(ctx, b.ID)
			if err != nil {
				w.logger.Warn("rescore failed", "board_id", b.ID, "error", err)
				continue
			}
			total += n
		}
		if len(boards) < boardPageSize {
			break
		}
		offset += boardPageSize
	}
	w.logger.Debug("rescore sweep finished", "changed", total)
}

// RescoreBoard recomputes every seed of the board under its current
// weights and persists the scores that changed. It returns how many did.
// A board that no longer exists is not an error.
func (w *Worker) RescoreBoard(ctx context.Context, boardID uuid.UUID) (int, error) {
	start := time.Now()

	board, err := w.store.GetBoard(ctx, boardID)
	if err != nil {
		return 0, err
	}
	if board == nil {
		return 0, nil
	}

	seeds, err := store.AllSeeds(ctx, w.store, store.SeedFilter{BoardID: &board.ID})
	if err != nil {
		return 0, err
	}

	var updates []store.ScoreUpdate
	for _, s := range scoring.ScoreAll(seeds, w.engine, board.Weights) {
		if cached := s.Idea.Score; cached != nil && math.Abs(*cached-s.Score) < scoreEpsilon {
			continue
		}
		updates = append(updates, store.ScoreUpdate{SeedID: s.Idea.ID, Score: s.Score})
	}

	if len(updates) > 0 {
		if err := w.store.UpdateSeedScores(ctx, updates); err != nil {
			return 0, err
		}
	}
	w.metrics.ObserveRescore(time.Since(start), len(updates))

	if len(updates) > 0 && w.hermes != nil {
		if err := w.hermes.Publish(hermes.SubjectRescoreCompleted, hermes.RescoreEvent{
			BoardID:   board.ID.String(),
			Seeds:     len(seeds),
			Changed:   len(updates),
			Timestamp: time.Now().UTC(),
		}); err != nil {
			w.logger.Warn("failed to publish rescore event", "board_id", board.ID, "error", err)
		}
	}
	return len(updates), nil
}

// SetupSubscriptions queues boards whose weights or seeds change elsewhere.
func (w *Worker) SetupSubscriptions() {
	if w.hermes == nil {
		return
	}

	_ = w.hermes.Subscribe(hermes.SubjectBoardWeightsAny, func(subject string, _ []byte) {
		raw, ok := hermes.SubjectID(subject)
		if !ok {
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			w.logger.Warn("invalid board id in subject", "subject", subject)
			return
		}
		w.Enqueue(id)
	})

	onSeed := func(subject string, data []byte) {
		w.handleSeedEvent(subject, data)
	}
	_ = w.hermes.Subscribe(hermes.SubjectSeedCreatedAny, onSeed)
	_ = w.hermes.Subscribe(hermes.SubjectSeedUpdatedAny, onSeed)
}

// handleSeedEvent resolves the seed's board from the payload, falling back
// to a lookup when the payload does not carry it.
func (w *Worker) handleSeedEvent(subject string, data []byte) {
	var evt hermes.SeedEvent
	if err := json.Unmarshal(data, &evt); err == nil {
		if id, err := uuid.Parse(evt.BoardID); err == nil {
			w.Enqueue(id)
			return
		}
	}

	raw, ok := hermes.SubjectID(subject)
	if !ok {
		return
	}
	seedID, err := uuid.Parse(raw)
	if err != nil {
		return
	}
	seed, err := w.store.GetSeed(context.Background(), seedID)
	if err != nil || seed == nil {
		w.logger.Warn("cannot resolve board for seed event", "subject", subject, "error", err)
		return
	}
	w.Enqueue(seed.BoardID)
}
