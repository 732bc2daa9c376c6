package state

import (
	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/messages"
)

// ObjectReader provides read access to the live game objects.
// Implementations must be thread-safe.
type ObjectReader interface {
	// Get returns the object with the given id.
	Get(id types.ObjectID) (types.GameObject, bool)
	// Snapshot returns a copy of every live object.
	Snapshot() map[types.ObjectID]types.GameObject
	// Len returns the number of live objects.
	Len() int
}

// ObjectStore is an ObjectReader that accepts server deltas.
type ObjectStore interface {
	ObjectReader
	// Upsert adds or fully replaces the given objects.
	Upsert(objects map[types.ObjectID]types.GameObject)
	// Delete removes the given ids. Absent ids are ignored.
	Delete(ids []types.ObjectID)
	// Apply merges a turn delta: deletions first, then upserts.
	Apply(delta *messages.TurnMessage)
}
