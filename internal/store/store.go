package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
)

// UntitledSeed is shown for seeds created without a title.
const UntitledSeed = "Untitled seed"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type SeedStatus string

const (
	StatusPending  SeedStatus = "pending"
	StatusApproved SeedStatus = "approved"
	StatusRejected SeedStatus = "rejected"
)

func (s SeedStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Board struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Weights     scoring.WeightConfig `json:"weights"`
	CreatedBy   string               `json:"created_by"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type BoardFilter struct {
	CreatedBy string
	Limit     int
	Offset    int
}

type Seed struct {
	ID          uuid.UUID       `json:"id"`
	BoardID     uuid.UUID       `json:"board_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Ratings     scoring.Ratings `json:"ratings"`
	Priority    Priority        `json:"priority"`
	Status      SeedStatus      `json:"status"`

	// ROI inputs
	AmountGained *float64 `json:"amount_gained,omitempty"`
	AmountSpent  *float64 `json:"amount_spent,omitempty"`

	Author string `json:"author"`

	// Last persisted score under the board's weights. Maintained by the
	// rescore worker; rankings always recompute.
	Score    *float64   `json:"score,omitempty"`
	ScoredAt *time.Time `json:"scored_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayTitle returns the title, or a placeholder when it is blank.
func (s *Seed) DisplayTitle() string {
	if s.Title == "" {
		return UntitledSeed
	}
	return s.Title
}

// RankTitle is the raw title; an untitled seed sorts as the empty string.
func (s *Seed) RankTitle() string { return s.Title }

func (s *Seed) RankRatings() scoring.Ratings { return s.Ratings }

func (s *Seed) ROIAmounts() (gained, spent *float64) {
	return s.AmountGained, s.AmountSpent
}

type SeedFilter struct {
	BoardID *uuid.UUID
	Status  *SeedStatus
	Author  string
	Limit   int
	Offset  int
}

// ScoreUpdate is one entry of a batched score cache write.
type ScoreUpdate struct {
	SeedID uuid.UUID
	Score  float64
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	SeedID    uuid.UUID `json:"seed_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Stats struct {
	Boards   int `json:"boards"`
	Seeds    int `json:"seeds"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Unscored int `json:"unscored"`
	Comments int `json:"comments"`
}

// WeightsFn transforms a board's weights inside the locking transaction of
// AdjustBoardWeights. Returning an error aborts the update.
type WeightsFn func(current scoring.WeightConfig) (scoring.WeightConfig, error)

type Store interface {
	// Boards
	CreateBoard(ctx context.Context, board *Board) error
	GetBoard(ctx context.Context, id uuid.UUID) (*Board, error)
	ListBoards(ctx context.Context, filter BoardFilter) ([]*Board, error)
	UpdateBoard(ctx context.Context, board *Board) error
	DeleteBoard(ctx context.Context, id uuid.UUID) error

	// AdjustBoardWeights serialises concurrent weight edits on one board.
	// It returns (nil, nil) when the board does not exist.
	AdjustBoardWeights(ctx context.Context, id uuid.UUID, fn WeightsFn) (*Board, error)

	// Seeds
	CreateSeed(ctx context.Context, seed *Seed) error
	GetSeed(ctx context.Context, id uuid.UUID) (*Seed, error)
	ListSeeds(ctx context.Context, filter SeedFilter) ([]*Seed, error)
	UpdateSeed(ctx context.Context, seed *Seed) error
	DeleteSeed(ctx context.Context, id uuid.UUID) error
	SetSeedStatus(ctx context.Context, id uuid.UUID, status SeedStatus) (*Seed, error)
	UpdateSeedScores(ctx context.Context, updates []ScoreUpdate) error

	// Comments
	CreateComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, seedID uuid.UUID) ([]*Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error

	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}

// AllSeeds pages through ListSeeds until the filter is exhausted. Limit and
// Offset on the filter are ignored.
func AllSeeds(ctx context.Context, s Store, filter SeedFilter) ([]*Seed, error) {
	const pageSize = 500
	all := []*Seed{}
	filter.Limit = pageSize
	filter.Offset = 0
	for {
		page, err := s.ListSeeds(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
		filter.Offset += pageSize
	}
}
