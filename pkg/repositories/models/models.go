package models

import (
	"fmt"
	"time"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/google/uuid"
)

// Match is a row of the matches table. Timestamps are unix milliseconds.
type Match struct {
	MatchID      string  `json:"match_id"`
	TankID       string  `json:"tank_id"`
	EnemyTankID  string  `json:"enemy_tank_id"`
	MapWidth     float64 `json:"map_width"`
	MapHeight    float64 `json:"map_height"`
	Turns        int     `json:"turns"`
	ShotsFired   int     `json:"shots_fired"`
	PathRequests int     `json:"path_requests"`
	SkippedTurns int     `json:"skipped_turns"`
	Outcome      string  `json:"outcome"`
	StartedAt    int64   `json:"started_at"`
	EndedAt      int64   `json:"ended_at"`
}

func MatchFromSummary(summary *types.MatchSummary) *Match {
	return &Match{
		MatchID:      summary.ID.String(),
		TankID:       string(summary.TankID),
		EnemyTankID:  string(summary.EnemyTankID),
		MapWidth:     summary.Map.Width,
		MapHeight:    summary.Map.Height,
		Turns:        summary.Turns,
		ShotsFired:   summary.ShotsFired,
		PathRequests: summary.PathRequests,
		SkippedTurns: summary.SkippedTurns,
		Outcome:      string(summary.Outcome),
		StartedAt:    summary.StartedAt.UnixMilli(),
		EndedAt:      summary.EndedAt.UnixMilli(),
	}
}

func (m *Match) Summary() (*types.MatchSummary, error) {
	id, err := uuid.Parse(m.MatchID)
	if err != nil {
		return nil, fmt.Errorf("invalid match id %q: %v", m.MatchID, err)
	}
	return &types.MatchSummary{
		ID:          id,
		TankID:      types.ObjectID(m.TankID),
		EnemyTankID: types.ObjectID(m.EnemyTankID),
		Map: types.MapDimensions{
			Width:  m.MapWidth,
			Height: m.MapHeight,
		},
		Turns:        m.Turns,
		ShotsFired:   m.ShotsFired,
		PathRequests: m.PathRequests,
		SkippedTurns: m.SkippedTurns,
		Outcome:      types.MatchOutcome(m.Outcome),
		StartedAt:    time.UnixMilli(m.StartedAt).UTC(),
		EndedAt:      time.UnixMilli(m.EndedAt).UTC(),
	}, nil
}
