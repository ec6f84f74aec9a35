package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const seedColumns = `id, board_id, title, description, ratings, priority, status,
	amount_gained, amount_spent, author, score, scored_at, created_at, updated_at`

func scanSeed(row pgx.Row) (*Seed, error) {
	seed := &Seed{}
	var description sql.NullString
	var amountGained, amountSpent, score sql.NullFloat64
	var ratingsJSON []byte

	if err := row.Scan(
		&seed.ID, &seed.BoardID, &seed.Title, &description, &ratingsJSON,
		&seed.Priority, &seed.Status,
		&amountGained, &amountSpent, &seed.Author,
		&score, &seed.ScoredAt, &seed.CreatedAt, &seed.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		seed.Description = description.String
	}
	if amountGained.Valid {
		seed.AmountGained = &amountGained.Float64
	}
	if amountSpent.Valid {
		seed.AmountSpent = &amountSpent.Float64
	}
	if score.Valid {
		seed.Score = &score.Float64
	}
	if ratingsJSON != nil {
		if err := json.Unmarshal(ratingsJSON, &seed.Ratings); err != nil {
			return nil, fmt.Errorf("decode ratings of seed %s: %w", seed.ID, err)
		}
	}
	return seed, nil
}

func scanSeeds(rows pgx.Rows) ([]*Seed, error) {
	var seeds []*Seed
	for rows.Next() {
		seed, err := scanSeed(rows)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	return seeds, rows.Err()
}

func applySeedDefaults(seed *Seed) {
	if seed.Priority == "" {
		seed.Priority = PriorityLow
	}
	if seed.Status == "" {
		seed.Status = StatusPending
	}
}

func (s *PostgresStore) CreateSeed(ctx context.Context, seed *Seed) error {
	applySeedDefaults(seed)
	ratingsJSON, err := json.Marshal(seed.Ratings)
	if err != nil {
		return fmt.Errorf("encode ratings: %w", err)
	}

	return s.pool.QueryRow(ctx, `
		INSERT INTO seeds (board_id, title, description, ratings, priority, status,
			amount_gained, amount_spent, author)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		seed.BoardID, seed.Title, nullString(seed.Description), ratingsJSON,
		seed.Priority, seed.Status,
		seed.AmountGained, seed.AmountSpent, seed.Author,
	).Scan(&seed.ID, &seed.CreatedAt, &seed.UpdatedAt)
}

func (s *PostgresStore) GetSeed(ctx context.Context, id uuid.UUID) (*Seed, error) {
	seed, err := scanSeed(s.pool.QueryRow(ctx, `SELECT `+seedColumns+` FROM seeds WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return seed, err
}

func (s *PostgresStore) ListSeeds(ctx context.Context, filter SeedFilter) ([]*Seed, error) {
	query := `SELECT ` + seedColumns + ` FROM seeds WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.BoardID != nil {
		n++
		query += fmt.Sprintf(" AND board_id = $%d", n)
		args = append(args, *filter.BoardID)
	}
	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, string(*filter.Status))
	}
	if filter.Author != "" {
		n++
		query += fmt.Sprintf(" AND author = $%d", n)
		args = append(args, filter.Author)
	}

	query += " ORDER BY created_at ASC, id ASC"
	query, args = paginate(query, args, n, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeeds(rows)
}

// UpdateSeed writes the editable fields. The score cache is cleared so the
// rescore worker picks the seed up again.
func (s *PostgresStore) UpdateSeed(ctx context.Context, seed *Seed) error {
	applySeedDefaults(seed)
	ratingsJSON, err := json.Marshal(seed.Ratings)
	if err != nil {
		return fmt.Errorf("encode ratings: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		UPDATE seeds SET
			title = $2, description = $3, ratings = $4, priority = $5, status = $6,
			amount_gained = $7, amount_spent = $8,
			score = NULL, scored_at = NULL, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		seed.ID, seed.Title, nullString(seed.Description), ratingsJSON, seed.Priority, seed.Status,
		seed.AmountGained, seed.AmountSpent,
	).Scan(&seed.UpdatedAt)
	if err != nil {
		return err
	}
	seed.Score = nil
	seed.ScoredAt = nil
	return nil
}

func (s *PostgresStore) DeleteSeed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM seeds WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) SetSeedStatus(ctx context.Context, id uuid.UUID, status SeedStatus) (*Seed, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid seed status %q", status)
	}
	seed, err := scanSeed(s.pool.QueryRow(ctx, `
		UPDATE seeds SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+seedColumns, id, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return seed, err
}

// UpdateSeedScores persists a batch of cached scores in one round trip.
func (s *PostgresStore) UpdateSeedScores(ctx context.Context, updates []ScoreUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(`UPDATE seeds SET score = $2, scored_at = now() WHERE id = $1`, u.SeedID, u.Score)
	}
	br := s.pool.SendBatch(ctx, batch)
	for range updates {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("update seed score: %w", err)
		}
	}
	return br.Close()
}

// --- Comments ---

func (s *PostgresStore) CreateComment(ctx context.Context, c *Comment) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO seed_comments (seed_id, author, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		c.SeedID, c.Author, c.Body,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *PostgresStore) ListComments(ctx context.Context, seedID uuid.UUID) ([]*Comment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, seed_id, author, body, created_at
		FROM seed_comments WHERE seed_id = $1
		ORDER BY created_at ASC`, seedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.SeedID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *PostgresStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM seed_comments WHERE id = $1`, id)
	return err
}
