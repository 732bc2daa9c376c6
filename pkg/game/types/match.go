package types

import (
	"time"

	"github.com/google/uuid"
)

// MatchOutcome describes how a match ended for the bot.
type MatchOutcome string

const (
	MatchOutcomeCompleted    MatchOutcome = "completed"
	MatchOutcomeDisconnected MatchOutcome = "disconnected"
	MatchOutcomeCanceled     MatchOutcome = "canceled"
	MatchOutcomeFailed       MatchOutcome = "failed"
)

// MatchSummary is what the bot remembers about a finished match.
type MatchSummary struct {
	ID           uuid.UUID     `json:"id"`
	TankID       ObjectID      `json:"tankID"`
	EnemyTankID  ObjectID      `json:"enemyTankID"`
	Map          MapDimensions `json:"map"`
	Turns        int           `json:"turns"`
	ShotsFired   int           `json:"shotsFired"`
	PathRequests int           `json:"pathRequests"`
	SkippedTurns int           `json:"skippedTurns"`
	Outcome      MatchOutcome  `json:"outcome"`
	StartedAt    time.Time     `json:"startedAt"`
	EndedAt      time.Time     `json:"endedAt"`
}

// NewMatchSummary starts a summary for a match beginning now.
func NewMatchSummary() *MatchSummary {
	return &MatchSummary{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
	}
}
