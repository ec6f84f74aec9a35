package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
)

type PostgresStore struct {
	pool *pgxpool.Pool
	url  string
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool, url: databaseURL}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const boardColumns = `id, name, description, weights, created_by, created_at, updated_at`

func scanBoard(row pgx.Row) (*Board, error) {
	b := &Board{}
	var description sql.NullString
	var weights []int32
	if err := row.Scan(&b.ID, &b.Name, &description, &weights, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		b.Description = description.String
	}
	b.Weights = weightsFromColumn(weights)
	return b, nil
}

func weightsFromColumn(col []int32) scoring.WeightConfig {
	var w scoring.WeightConfig
	for i := 0; i < len(col) && i < scoring.NumDimensions; i++ {
		w[i] = int(col[i])
	}
	return w
}

func weightsToColumn(w scoring.WeightConfig) []int32 {
	col := make([]int32, scoring.NumDimensions)
	for i, v := range w {
		col[i] = int32(v)
	}
	return col
}

// CreateBoard stores board.Weights as given; an all-zero config is valid.
func (s *PostgresStore) CreateBoard(ctx context.Context, board *Board) error {
	if err := board.Weights.Validate(); err != nil {
		return err
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO boards (name, description, weights, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		board.Name, nullString(board.Description), weightsToColumn(board.Weights), board.CreatedBy,
	).Scan(&board.ID, &board.CreatedAt, &board.UpdatedAt)
}

func (s *PostgresStore) GetBoard(ctx context.Context, id uuid.UUID) (*Board, error) {
	b, err := scanBoard(s.pool.QueryRow(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (s *PostgresStore) ListBoards(ctx context.Context, filter BoardFilter) ([]*Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.CreatedBy != "" {
		n++
		query += fmt.Sprintf(" AND created_by = $%d", n)
		args = append(args, filter.CreatedBy)
	}

	query += " ORDER BY created_at ASC"
	query, args = paginate(query, args, n, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// UpdateBoard writes name and description. Weights only change through
// AdjustBoardWeights.
func (s *PostgresStore) UpdateBoard(ctx context.Context, board *Board) error {
	return s.pool.QueryRow(ctx, `
		UPDATE boards SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		board.ID, board.Name, nullString(board.Description),
	).Scan(&board.UpdatedAt)
}

func (s *PostgresStore) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) AdjustBoardWeights(ctx context.Context, id uuid.UUID, fn WeightsFn) (*Board, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	b, err := scanBoard(tx.QueryRow(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock board: %w", err)
	}

	next, err := fn(b.Weights)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	if err := tx.QueryRow(ctx, `
		UPDATE boards SET weights = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		id, weightsToColumn(next),
	).Scan(&b.UpdatedAt); err != nil {
		return nil, fmt.Errorf("update weights: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	b.Weights = next
	return b, nil
}

// paginate appends LIMIT/OFFSET placeholders after the n already in use.
func paginate(query string, args []interface{}, n, limit, offset int) (string, []interface{}) {
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, offset)
	}
	return query, args
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM boards),
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN score IS NULL THEN 1 ELSE 0 END), 0),
			(SELECT COUNT(*) FROM seed_comments)
		FROM seeds`,
	).Scan(&stats.Boards, &stats.Seeds, &stats.Pending, &stats.Approved, &stats.Rejected, &stats.Unscored, &stats.Comments)
	return stats, err
}
