package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Seeds/internal/hermes"
	"github.com/MikeSquared-Agency/Seeds/internal/metrics"
	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

type mockStore struct {
	store.Store
	boards  []*store.Board
	seeds   []*store.Seed
	listErr error
}

func (m *mockStore) ListBoards(_ context.Context, f store.BoardFilter) ([]*store.Board, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if f.Offset >= len(m.boards) {
		return nil, nil
	}
	out := m.boards[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *mockStore) ListSeeds(_ context.Context, f store.SeedFilter) ([]*store.Seed, error) {
	var out []*store.Seed
	for _, s := range m.seeds {
		if f.BoardID == nil || s.BoardID == *f.BoardID {
			out = append(out, s)
		}
	}
	if f.Offset >= len(out) {
		return nil, nil
	}
	return out[f.Offset:], nil
}

func newTestStore() *mockStore {
	b := &store.Board{ID: uuid.New(), Name: "Operations", Weights: scoring.DefaultWeights()}
	return &mockStore{
		boards: []*store.Board{b},
		seeds: []*store.Seed{
			{ID: uuid.New(), BoardID: b.ID, Title: "Low", Ratings: scoring.Ratings{"roi": scoring.RatingLow}},
			{ID: uuid.New(), BoardID: b.ID, Title: "High", Ratings: scoring.Ratings{"roi": scoring.RatingVeryHigh}},
		},
	}
}

type mockDestination struct {
	mu     sync.Mutex
	writes atomic.Int64
	name   string
	last   []byte
	err    error
}

func (d *mockDestination) Write(_ context.Context, name string, data []byte) error {
	d.writes.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.name = name
	d.last = append([]byte(nil), data...)
	return d.err
}

func (d *mockDestination) data() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

type recordingHermes struct {
	subjects []string
}

func (h *recordingHermes) Publish(subject string, _ interface{}) error {
	h.subjects = append(h.subjects, subject)
	return nil
}
func (h *recordingHermes) Subscribe(string, func(string, []byte)) error { return nil }
func (h *recordingHermes) Close()                                       {}

func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExportJSONL(t *testing.T) {
	ms := newTestStore()
	var buf bytes.Buffer

	counts, err := ExportJSONL(context.Background(), ms, scoring.NewEngine(scoring.DefaultRatingScale()), &buf)
	require.NoError(t, err)
	assert.Equal(t, Counts{Boards: 1, Seeds: 2}, counts)

	lines := nonEmptyLines(buf.String())
	require.Len(t, lines, 4)

	var h header
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &h))
	assert.Equal(t, "header", h.Type)
	assert.Equal(t, formatVersion, h.Version)
	assert.Equal(t, 2, h.SeedCount)

	var board struct {
		Type string      `json:"type"`
		Data store.Board `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &board))
	assert.Equal(t, "board", board.Type)
	assert.Equal(t, scoring.DefaultWeights(), board.Data.Weights)

	var seeds [2]struct {
		Type string `json:"type"`
		Data struct {
			Seed  store.Seed `json:"seed"`
			Score float64    `json:"score"`
			Rank  int        `json:"rank"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &seeds[0]))
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &seeds[1]))
	assert.Equal(t, "High", seeds[0].Data.Seed.Title)
	assert.Equal(t, 75.0, seeds[0].Data.Score)
	assert.Equal(t, 1, seeds[0].Data.Rank)
	assert.Equal(t, "Low", seeds[1].Data.Seed.Title)
	assert.Equal(t, 2, seeds[1].Data.Rank)
}

func TestExportJSONLStoreError(t *testing.T) {
	ms := &mockStore{listErr: errors.New("db down")}
	_, err := ExportJSONL(context.Background(), ms, scoring.NewEngine(scoring.DefaultRatingScale()), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestObjectName(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "seeds-20260304T050607Z.jsonl", ObjectName(ts))
}

func TestExportOnceWritesAllDestinations(t *testing.T) {
	ms := newTestStore()
	failing := &mockDestination{err: errors.New("bucket gone")}
	ok := &mockDestination{}
	m := metrics.New(prometheus.NewRegistry())
	h := &recordingHermes{}

	sched := NewScheduler(ms, scoring.NewEngine(scoring.DefaultRatingScale()), []Destination{failing, ok}, time.Minute, h, m, discardLogger())
	sched.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

	err := sched.ExportOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
	assert.Equal(t, int64(1), ok.writes.Load())
	assert.Equal(t, "seeds-20260304T050607Z.jsonl", ok.name)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportFailures))
	assert.Empty(t, h.subjects)

	failing.err = nil
	require.NoError(t, sched.ExportOnce(context.Background()))
	assert.Equal(t, float64(len(ok.data())), testutil.ToFloat64(m.ExportBytes))
	assert.Equal(t, []string{hermes.SubjectExportCompleted}, h.subjects)
}

func TestSchedulerStartStop(t *testing.T) {
	dest := &mockDestination{}
	sched := NewScheduler(newTestStore(), scoring.NewEngine(scoring.DefaultRatingScale()), []Destination{dest}, 50*time.Millisecond, nil, nil, discardLogger())
	sched.Start()

	require.Eventually(t, func() bool { return dest.writes.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	sched.Stop()

	assert.Len(t, nonEmptyLines(string(dest.data())), 4)
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	sched := NewScheduler(newTestStore(), nil, nil, time.Minute, nil, nil, discardLogger())
	sched.Stop()
}

func TestS3DestinationKey(t *testing.T) {
	d, err := NewS3Destination(context.Background(), "exports", "seeds/", "eu-west-1", "http://localhost:9000")
	require.NoError(t, err)
	assert.Equal(t, "seeds/seeds-20260304T050607Z.jsonl", d.Key("seeds-20260304T050607Z.jsonl"))
}
