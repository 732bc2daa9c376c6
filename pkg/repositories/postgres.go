package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/log"
	"github.com/cbodonnell/tankbot/pkg/repositories/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository connects to the database and applies the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (*PostgresRepository, error) {
	conn, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	files, err := readMigrations(migrations)
	if err != nil {
		conn.Close(ctx)
		return nil, err
	}
	for _, m := range files {
		if _, err := conn.Exec(ctx, m.sql); err != nil {
			conn.Close(ctx)
			return nil, fmt.Errorf("failed to execute migration %s: %v", m.path, err)
		}
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return conn, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveMatch(ctx context.Context, summary *types.MatchSummary) error {
	m := models.MatchFromSummary(summary)
	q := `
	INSERT INTO matches (
		match_id, tank_id, enemy_tank_id, map_width, map_height,
		turns, shots_fired, path_requests, skipped_turns, outcome, started_at, ended_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (match_id) DO UPDATE SET
		turns = $6, shots_fired = $7, path_requests = $8, skipped_turns = $9, outcome = $10, ended_at = $12;
	`
	_, err := r.conn.Exec(ctx, q,
		m.MatchID, m.TankID, m.EnemyTankID, m.MapWidth, m.MapHeight,
		m.Turns, m.ShotsFired, m.PathRequests, m.SkippedTurns, m.Outcome, m.StartedAt, m.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %v", err)
	}

	return nil
}

func (r *PostgresRepository) LoadMatch(ctx context.Context, id uuid.UUID) (*types.MatchSummary, error) {
	q := `
	SELECT match_id::text, tank_id, enemy_tank_id, map_width, map_height,
		turns, shots_fired, path_requests, skipped_turns, outcome, started_at, ended_at
	FROM matches WHERE match_id = $1;
	`
	m := &models.Match{}
	if err := scanMatch(r.conn.QueryRow(ctx, q, id.String()), m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan match: %v", err)
	}

	return m.Summary()
}

func (r *PostgresRepository) ListMatches(ctx context.Context, limit int) ([]*types.MatchSummary, error) {
	q := `
	SELECT match_id::text, tank_id, enemy_tank_id, map_width, map_height,
		turns, shots_fired, path_requests, skipped_turns, outcome, started_at, ended_at
	FROM matches ORDER BY started_at DESC LIMIT $1;
	`
	rows, err := r.conn.Query(ctx, q, limit)
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
