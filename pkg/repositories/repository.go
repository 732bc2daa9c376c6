package repositories

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/google/uuid"
)

// Repository stores the history of played matches.
type Repository interface {
	Close(ctx context.Context) error
	// SaveMatch inserts the summary or replaces a previous save of the same match.
	SaveMatch(ctx context.Context, summary *types.MatchSummary) error
	LoadMatch(ctx context.Context, id uuid.UUID) (*types.MatchSummary, error)
	// ListMatches returns up to limit matches, most recently started first.
	ListMatches(ctx context.Context, limit int) ([]*types.MatchSummary, error)
}

// NewRepository picks the implementation from the scheme of connStr, either
// sqlite://<path> or postgresql://... The migrations for the chosen driver
// are read from the matching subdirectory of migrations.
func NewRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %v", err)
	}

	switch u.Scheme {
	case "sqlite":
		return NewSQLiteRepository(ctx, u.Host+u.Path, filepath.Join(migrations, "sqlite"))
	case "postgres", "postgresql":
		return NewPostgresRepository(ctx, u.String(), filepath.Join(migrations, "postgres"))
	default:
		return nil, fmt.Errorf("unknown database type %q", u.Scheme)
	}
}

type migration struct {
	path string
	sql  string
}

// readMigrations returns the files of dir in name order.
func readMigrations(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	var migrations []migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", path, err)
		}
		migrations = append(migrations, migration{path: path, sql: string(b)})
	}
	return migrations, nil
}
