//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.Migrate(ctx, nil); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		// Truncate in dependency order
		_, _ = s.pool.Exec(ctx, "TRUNCATE seed_comments CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE seeds CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE boards CASCADE")
		s.Close()
	})

	return s
}

func createTestBoard(t *testing.T, s *PostgresStore) *Board {
	t.Helper()
	b := &Board{Name: "Operations", Description: "Ideas for ops", Weights: scoring.DefaultWeights(), CreatedBy: "test-user"}
	if err := s.CreateBoard(context.Background(), b); err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}
	return b
}

func TestCreateAndGetBoard(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	b := createTestBoard(t, s)
	if b.ID == uuid.Nil {
		t.Fatal("expected non-nil board ID after create")
	}
	if b.Weights != scoring.DefaultWeights() {
		t.Errorf("expected default weights, got %v", b.Weights)
	}

	got, err := s.GetBoard(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBoard failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected board, got nil")
	}
	if got.Name != "Operations" || got.Description != "Ideas for ops" {
		t.Errorf("unexpected board %+v", got)
	}
	if got.Weights != scoring.DefaultWeights() {
		t.Errorf("expected default weights, got %v", got.Weights)
	}
}

func TestCreateBoardKeepsZeroWeights(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	b := &Board{Name: "Unweighted", CreatedBy: "test-user"}
	if err := s.CreateBoard(ctx, b); err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}
	if b.Weights != (scoring.WeightConfig{}) {
		t.Errorf("expected zero weights after create, got %v", b.Weights)
	}

	got, err := s.GetBoard(ctx, b.ID)
	if err != nil || got == nil {
		t.Fatalf("GetBoard failed: %v", err)
	}
	if got.Weights != (scoring.WeightConfig{}) {
		t.Errorf("expected persisted zero weights, got %v", got.Weights)
	}
	if got.Weights.Sum() != 0 {
		t.Errorf("expected sum 0, got %d", got.Weights.Sum())
	}
}

func TestGetBoardNotFound(t *testing.T) {
	s := setupTestDB(t)
	got, err := s.GetBoard(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for missing board")
	}
}

func TestAdjustBoardWeights(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	b := createTestBoard(t, s)

	updated, err := s.AdjustBoardWeights(ctx, b.ID, func(w scoring.WeightConfig) (scoring.WeightConfig, error) {
		return w.SetWeight(int(scoring.ROI), 50)
	})
	if err != nil {
		t.Fatalf("AdjustBoardWeights failed: %v", err)
	}
	want := scoring.WeightConfig{50, 0, 0, 8, 14, 14, 14}
	if updated.Weights != want {
		t.Errorf("expected %v, got %v", want, updated.Weights)
	}

	got, _ := s.GetBoard(ctx, b.ID)
	if got.Weights != want {
		t.Errorf("expected persisted %v, got %v", want, got.Weights)
	}

	// An error from fn leaves the row untouched.
	boom := errors.New("boom")
	if _, err := s.AdjustBoardWeights(ctx, b.ID, func(w scoring.WeightConfig) (scoring.WeightConfig, error) {
		return w, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	missing, err := s.AdjustBoardWeights(ctx, uuid.New(), func(w scoring.WeightConfig) (scoring.WeightConfig, error) {
		return w, nil
	})
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for missing board, got (%v, %v)", missing, err)
	}
}

func TestAdjustBoardWeightsConcurrent(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	b := createTestBoard(t, s)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.AdjustBoardWeights(ctx, b.ID, func(w scoring.WeightConfig) (scoring.WeightConfig, error) {
				return w.SetWeight(i%scoring.NumDimensions, float64(10+i*3))
			})
			if err != nil {
				t.Errorf("adjust %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := s.GetBoard(ctx, b.ID)
	if err := got.Weights.Validate(); err != nil {
		t.Fatalf("weights invalid after concurrent edits: %v (%v)", err, got.Weights)
	}
}

func TestSeedLifecycle(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	b := createTestBoard(t, s)

	gained, spent := 120.0, 40.0
	seed := &Seed{
		BoardID:      b.ID,
		Title:        "Automate month-end close",
		Ratings:      scoring.Ratings{"roi": scoring.RatingHigh, "compliance": scoring.RatingMedium},
		AmountGained: &gained,
		AmountSpent:  &spent,
		Author:       "test-user",
	}
	if err := s.CreateSeed(ctx, seed); err != nil {
		t.Fatalf("CreateSeed failed: %v", err)
	}
	if seed.Priority != PriorityLow || seed.Status != StatusPending {
		t.Errorf("expected defaults, got priority=%s status=%s", seed.Priority, seed.Status)
	}

	got, err := s.GetSeed(ctx, seed.ID)
	if err != nil || got == nil {
		t.Fatalf("GetSeed failed: %v", err)
	}
	if got.Ratings.Get(scoring.ROI) != scoring.RatingHigh {
		t.Errorf("expected roi rating high, got %q", got.Ratings.Get(scoring.ROI))
	}
	if got.AmountSpent == nil || *got.AmountSpent != 40 {
		t.Errorf("expected amount_spent 40, got %v", got.AmountSpent)
	}

	if err := s.UpdateSeedScores(ctx, []ScoreUpdate{{SeedID: seed.ID, Score: 102}}); err != nil {
		t.Fatalf("UpdateSeedScores failed: %v", err)
	}
	got, _ = s.GetSeed(ctx, seed.ID)
	if got.Score == nil || *got.Score != 102 || got.ScoredAt == nil {
		t.Errorf("expected cached score 102, got %v", got.Score)
	}

	got.Title = "Automate close"
	got.Priority = PriorityHigh
	if err := s.UpdateSeed(ctx, got); err != nil {
		t.Fatalf("UpdateSeed failed: %v", err)
	}
	got, _ = s.GetSeed(ctx, seed.ID)
	if got.Title != "Automate close" || got.Priority != PriorityHigh {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.Score != nil {
		t.Error("expected score cache cleared after update")
	}

	approved, err := s.SetSeedStatus(ctx, seed.ID, StatusApproved)
	if err != nil || approved == nil || approved.Status != StatusApproved {
		t.Fatalf("SetSeedStatus failed: %v %+v", err, approved)
	}

	pending := StatusPending
	list, err := s.ListSeeds(ctx, SeedFilter{BoardID: &b.ID, Status: &pending})
	if err != nil {
		t.Fatalf("ListSeeds failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no pending seeds, got %d", len(list))
	}

	if err := s.DeleteSeed(ctx, seed.ID); err != nil {
		t.Fatalf("DeleteSeed failed: %v", err)
	}
	got, _ = s.GetSeed(ctx, seed.ID)
	if got != nil {
		t.Error("expected seed to be deleted")
	}
}

func TestComments(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	b := createTestBoard(t, s)

	seed := &Seed{BoardID: b.ID, Author: "test-user"}
	if err := s.CreateSeed(ctx, seed); err != nil {
		t.Fatalf("CreateSeed failed: %v", err)
	}

	for _, body := range []string{"first", "second"} {
		c := &Comment{SeedID: seed.ID, Author: "reviewer", Body: body}
		if err := s.CreateComment(ctx, c); err != nil {
			t.Fatalf("CreateComment failed: %v", err)
		}
	}

	comments, err := s.ListComments(ctx, seed.ID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 2 || comments[0].Body != "first" {
		t.Fatalf("unexpected comments %+v", comments)
	}

	// Deleting the board cascades to seeds and comments.
	if err := s.DeleteBoard(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBoard failed: %v", err)
	}
	comments, _ = s.ListComments(ctx, seed.ID)
	if len(comments) != 0 {
		t.Errorf("expected comments removed with board, got %d", len(comments))
	}
}
