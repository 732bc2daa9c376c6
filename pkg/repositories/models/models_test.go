package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch_SummaryInvalidID(t *testing.T) {
	m := &Match{MatchID: "not-a-uuid"}
	_, err := m.Summary()
	assert.ErrorContains(t, err, "invalid match id")
}
