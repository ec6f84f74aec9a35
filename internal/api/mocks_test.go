package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

// mockStore is an in-memory store.Store.
type mockStore struct {
	mu       sync.Mutex
	boards   map[uuid.UUID]*store.Board
	seeds    map[uuid.UUID]*store.Seed
	comments map[uuid.UUID]*store.Comment
	order    map[uuid.UUID]int
	seq      int
}

func newMockStore() *mockStore {
	return &mockStore{
		boards:   make(map[uuid.UUID]*store.Board),
		seeds:    make(map[uuid.UUID]*store.Seed),
		comments: make(map[uuid.UUID]*store.Comment),
		order:    make(map[uuid.UUID]int),
	}
}

func (m *mockStore) next(id uuid.UUID) {
	m.seq++
	m.order[id] = m.seq
}

func (m *mockStore) CreateBoard(_ context.Context, b *store.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	m.boards[b.ID] = &cp
	m.next(b.ID)
	return nil
}

func (m *mockStore) GetBoard(_ context.Context, id uuid.UUID) (*store.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *mockStore) ListBoards(_ context.Context, f store.BoardFilter) ([]*store.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Board
	for _, b := range m.boards {
		if f.CreatedBy != "" && b.CreatedBy != f.CreatedBy {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return m.order[out[i].ID] < m.order[out[j].ID] })
	return out, nil
}

func (m *mockStore) UpdateBoard(_ context.Context, b *store.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.boards[b.ID]
	if !ok {
		return nil
	}
	cur.Name = b.Name
	cur.Description = b.Description
	cur.UpdatedAt = time.Now()
	b.UpdatedAt = cur.UpdatedAt
	return nil
}

func (m *mockStore) DeleteBoard(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.boards, id)
	for sid, s := range m.seeds {
		if s.BoardID == id {
			delete(m.seeds, sid)
		}
	}
	return nil
}

func (m *mockStore) AdjustBoardWeights(_ context.Context, id uuid.UUID, fn store.WeightsFn) (*store.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	if !ok {
		return nil, nil
	}
	next, err := fn(b.Weights)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	b.Weights = next
	cp := *b
	return &cp, nil
}

func (m *mockStore) CreateSeed(_ context.Context, s *store.Seed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	if s.Priority == "" {
		s.Priority = store.PriorityLow
	}
	if s.Status == "" {
		s.Status = store.StatusPending
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.seeds[s.ID] = &cp
	m.next(s.ID)
	return nil
}

func (m *mockStore) GetSeed(_ context.Context, id uuid.UUID) (*store.Seed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seeds[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *mockStore) ListSeeds(_ context.Context, f store.SeedFilter) ([]*store.Seed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Seed
	for _, s := range m.seeds {
		if f.BoardID != nil && s.BoardID != *f.BoardID {
			continue
		}
		if f.Status != nil && s.Status != *f.Status {
			continue
		}
		if f.Author != "" && s.Author != f.Author {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return m.order[out[i].ID] < m.order[out[j].ID] })

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *mockStore) UpdateSeed(_ context.Context, s *store.Seed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Score = nil
	s.ScoredAt = nil
	s.UpdatedAt = time.Now()
	cp := *s
	m.seeds[s.ID] = &cp
	return nil
}

func (m *mockStore) DeleteSeed(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seeds, id)
	return nil
}

func (m *mockStore) SetSeedStatus(_ context.Context, id uuid.UUID, status store.SeedStatus) (*store.Seed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seeds[id]
	if !ok {
		return nil, nil
	}
	s.Status = status
	cp := *s
	return &cp, nil
}

func (m *mockStore) UpdateSeedScores(_ context.Context, updates []store.ScoreUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, u := range updates {
		if s, ok := m.seeds[u.SeedID]; ok {
			score := u.Score
			s.Score = &score
			s.ScoredAt = &now
		}
	}
	return nil
}

func (m *mockStore) CreateComment(_ context.Context, c *store.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	cp := *c
	m.comments[c.ID] = &cp
	m.next(c.ID)
	return nil
}

func (m *mockStore) ListComments(_ context.Context, seedID uuid.UUID) ([]*store.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Comment
	for _, c := range m.comments {
		if c.SeedID == seedID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.order[out[i].ID] < m.order[out[j].ID] })
	return out, nil
}

func (m *mockStore) DeleteComment(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.comments, id)
	return nil
}

func (m *mockStore) GetStats(_ context.Context) (*store.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &store.Stats{Boards: len(m.boards), Seeds: len(m.seeds), Comments: len(m.comments)}
	for _, s := range m.seeds {
		switch s.Status {
		case store.StatusPending:
			st.Pending++
		case store.StatusApproved:
			st.Approved++
		case store.StatusRejected:
			st.Rejected++
		}
		if s.Score == nil {
			st.Unscored++
		}
	}
	return st, nil
}

func (m *mockStore) Close() error { return nil }

// failingStore returns whatever the test programs through testify's mock.
type failingStore struct {
	store.Store
	mock.Mock
}

func (f *failingStore) GetBoard(ctx context.Context, id uuid.UUID) (*store.Board, error) {
	args := f.Called(ctx, id)
	b, _ := args.Get(0).(*store.Board)
	return b, args.Error(1)
}

func (f *failingStore) ListSeeds(ctx context.Context, filter store.SeedFilter) ([]*store.Seed, error) {
	args := f.Called(ctx, filter)
	s, _ := args.Get(0).([]*store.Seed)
	return s, args.Error(1)
}

type published struct {
	subject string
	data    interface{}
}

type mockHermes struct {
	mu   sync.Mutex
	sent []published
}

func (m *mockHermes) Publish(subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, published{subject: subject, data: data})
	return nil
}
func (m *mockHermes) Subscribe(_ string, _ func(string, []byte)) error { return nil }
func (m *mockHermes) Close()                                           {}

func (m *mockHermes) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, p := range m.sent {
		out[i] = p.subject
	}
	return out
}

func (m *mockHermes) last() published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type mockRescorer struct {
	mu     sync.Mutex
	queued []uuid.UUID
}

func (m *mockRescorer) Enqueue(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, id)
}
