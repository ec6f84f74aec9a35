package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

const formatVersion = "1"

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	BoardCount int       `json:"board_count"`
	SeedCount  int       `json:"seed_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// rankedSeed is a seed with its position in the board's metric ranking.
type rankedSeed struct {
	Seed  *store.Seed `json:"seed"`
	Score float64     `json:"score"`
	Rank  int         `json:"rank"`
}

// Counts summarises what an export contained.
type Counts struct {
	Boards int
	Seeds  int
}

// ExportJSONL writes every board followed by its seeds, ranked by score
// under the board's weights, as JSONL to w.
func ExportJSONL(ctx context.Context, s store.Store, e *scoring.Engine, w io.Writer) (Counts, error) {
	boards, err := allBoards(ctx, s)
	if err != nil {
		return Counts{}, fmt.Errorf("list boards: %w", err)
	}

	ranked := make([][]scoring.Scored[*store.Seed], len(boards))
	var counts Counts
	counts.Boards = len(boards)
	for i, b := range boards {
		seeds, err := store.AllSeeds(ctx, s, store.SeedFilter{BoardID: &b.ID})
		if err != nil {
			return Counts{}, fmt.Errorf("list seeds for %s: %w", b.ID, err)
		}
		ranked[i] = scoring.SortByMetric(seeds, scoring.Descending, e, b.Weights)
		counts.Seeds += len(seeds)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    formatVersion,
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		BoardCount: counts.Boards,
		SeedCount:  counts.Seeds,
	}); err != nil {
		return Counts{}, fmt.Errorf("encode header: %w", err)
	}

	for i, b := range boards {
		if err := enc.Encode(record{Type: "board", Data: b}); err != nil {
			return Counts{}, fmt.Errorf("encode board %s: %w", b.ID, err)
		}
		for rank, sc := range ranked[i] {
			if err := enc.Encode(record{Type: "seed", Data: rankedSeed{Seed: sc.Idea, Score: sc.Score, Rank: rank + 1}}); err != nil {
				return Counts{}, fmt.Errorf("encode seed %s: %w", sc.Idea.ID, err)
			}
		}
	}

	return counts, nil
}

func allBoards(ctx context.Context, s store.Store) ([]*store.Board, error) {
	const pageSize = 100
	var all []*store.Board
	for offset := 0; ; offset += pageSize {
		page, err := s.ListBoards(ctx, store.BoardFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}
