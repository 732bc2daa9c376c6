package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/repositories/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	files, err := readMigrations(migrations)
	if err != nil {
		db.Close()
		return nil, err
	}
	for _, m := range files {
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %s: %v", m.path, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveMatch(ctx context.Context, summary *types.MatchSummary) error {
	m := models.MatchFromSummary(summary)
	q := `
	INSERT OR REPLACE INTO matches (
		match_id, tank_id, enemy_tank_id, map_width, map_height,
		turns, shots_fired, path_requests, skipped_turns, outcome, started_at, ended_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q,
		m.MatchID, m.TankID, m.EnemyTankID, m.MapWidth, m.MapHeight,
		m.Turns, m.ShotsFired, m.PathRequests, m.SkippedTurns, m.Outcome, m.StartedAt, m.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) LoadMatch(ctx context.Context, id uuid.UUID) (*types.MatchSummary, error) {
	q := `
	SELECT match_id, tank_id, enemy_tank_id, map_width, map_height,
		turns, shots_fired, path_requests, skipped_turns, outcome, started_at, ended_at
	FROM matches WHERE match_id = ?;
	`
	m := &models.Match{}
	if err := scanMatch(r.db.QueryRowContext(ctx, q, id.String()), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan match: %v", err)
	}

	return m.Summary()
}

func (r *SQLiteRepository) ListMatches(ctx context.Context, limit int) ([]*types.MatchSummary, error) {
	q := `
	SELECT match_id, tank_id, enemy_tank_id, map_width, map_height,
		turns, shots_fired, path_requests, skipped_turns, outcome, started_at, ended_at
	FROM matches ORDER BY started_at DESC LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %v", err)
	}
	defer rows.Close()

	summaries := make([]*types.MatchSummary, 0)
	for rows.Next() {
		m := &models.Match{}
		if err := scanMatch(rows, m); err != nil {
			return nil, fmt.Errorf("failed to scan match: %v", err)
		}
		summary, err := m.Summary()
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %v", err)
	}

	return summaries, nil
}

// scanner is satisfied by *sql.Row, *sql.Rows and pgx.Row.
type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner, m *models.Match) error {
	return row.Scan(
		&m.MatchID, &m.TankID, &m.EnemyTankID, &m.MapWidth, &m.MapHeight,
		&m.Turns, &m.ShotsFired, &m.PathRequests, &m.SkippedTurns, &m.Outcome, &m.StartedAt, &m.EndedAt,
	)
}
