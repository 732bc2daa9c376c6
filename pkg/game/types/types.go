package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/cbodonnell/tankbot/pkg/kinematic"
)

var (
	// ErrMissingField is returned when an object lacks a field the bot inspects.
	ErrMissingField = errors.New("missing field")
)

// ObjectType is the kind of a game object, as numbered by the game server.
type ObjectType int

const (
	ObjectTypeTank             ObjectType = 1
	ObjectTypeBullet           ObjectType = 2
	ObjectTypeWall             ObjectType = 3
	ObjectTypeDestructibleWall ObjectType = 4
	ObjectTypeBoundary         ObjectType = 5
	ObjectTypeClosingBoundary  ObjectType = 6
	ObjectTypePowerup          ObjectType = 7
)

func (t ObjectType) String() string {
	switch t {
	case ObjectTypeTank:
		return "tank"
	case ObjectTypeBullet:
		return "bullet"
	case ObjectTypeWall:
		return "wall"
	case ObjectTypeDestructibleWall:
		return "destructible_wall"
	case ObjectTypeBoundary:
		return "boundary"
	case ObjectTypeClosingBoundary:
		return "closing_boundary"
	case ObjectTypePowerup:
		return "powerup"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ObjectID identifies a game object. The server sends ids as strings in
// object maps but may send them as numbers in the handshake.
type ObjectID string

func (id *ObjectID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("object id is null")
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ObjectID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("object id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(string(n), 64); err != nil {
		return fmt.Errorf("object id must be a string or number: %w", err)
	}
	*id = ObjectID(n)
	return nil
}

// GameObject is a server-defined record. Only "type" and "position" are
// interpreted; every other field is carried through untouched.
type GameObject map[string]json.RawMessage

// Type decodes the object's kind.
func (o GameObject) Type() (ObjectType, error) {
	raw, ok := o["type"]
	if !ok {
		return 0, fmt.Errorf("type: %w", ErrMissingField)
	}
	var t ObjectType
	if err := json.Unmarshal(raw, &t); err != nil {
		return 0, fmt.Errorf("failed to decode type: %w", err)
	}
	return t, nil
}

// Point decodes a single [x, y] position.
func (o GameObject) Point() (kinematic.Vector, error) {
	raw, ok := o["position"]
	if !ok {
		return kinematic.Vector{}, fmt.Errorf("position: %w", ErrMissingField)
	}
	var v kinematic.Vector
	if err := json.Unmarshal(raw, &v); err != nil {
		return kinematic.Vector{}, fmt.Errorf("failed to decode position: %w", err)
	}
	return v, nil
}

// Polygon decodes a position given as a sequence of [x, y] vertices, as sent
// for boundaries and walls.
func (o GameObject) Polygon() ([]kinematic.Vector, error) {
	raw, ok := o["position"]
	if !ok {
		return nil, fmt.Errorf("position: %w", ErrMissingField)
	}
	var vertices []kinematic.Vector
	if err := json.Unmarshal(raw, &vertices); err != nil {
		return nil, fmt.Errorf("failed to decode polygon: %w", err)
	}
	return vertices, nil
}

// Clone returns a shallow copy; raw field values are never mutated in place.
func (o GameObject) Clone() GameObject {
	c := make(GameObject, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// MapDimensions is the playable area, derived once from the boundaries.
type MapDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BotIdentity is assigned by the handshake and never changes.
type BotIdentity struct {
	TankID      ObjectID `json:"your-tank-id"`
	EnemyTankID ObjectID `json:"enemy-tank-id"`
}
