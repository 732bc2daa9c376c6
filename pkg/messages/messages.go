package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/kinematic"
)

const (
	// MaxFrameSize is the longest line accepted from the server.
	MaxFrameSize = 1024 * 1024
)

// Phase sentinels sent by the game server as bare lines.
const (
	EndInitSignal = "END_INIT"
	EndSignal     = "END"
)

var (
	// ErrProtocol marks a message that does not have the expected shape.
	ErrProtocol = errors.New("protocol violation")
	// ErrEmptyFrame is returned for a blank line.
	ErrEmptyFrame = fmt.Errorf("%w: empty frame", ErrProtocol)
)

// FrameKind tells a data frame apart from the phase sentinels.
type FrameKind int

const (
	FrameKindData FrameKind = iota
	FrameKindEndInit
	FrameKindEnd
)

func (k FrameKind) String() string {
	switch k {
	case FrameKindData:
		return "data"
	case FrameKindEndInit:
		return "end_init"
	case FrameKindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Frame is one unit read from the server.
type Frame struct {
	Kind FrameKind
	// Raw holds the JSON document of a data frame.
	Raw json.RawMessage
}

// Envelope wraps every data frame the server sends.
type Envelope struct {
	Message json.RawMessage `json:"message"`
}

// ParseFrame classifies a single line. Sentinels may be bare or JSON quoted.
func ParseFrame(line []byte) (*Frame, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, ErrEmptyFrame
	}

	text := string(line)
	if len(line) > 1 && line[0] == '"' {
		var s string
		if err := json.Unmarshal(line, &s); err == nil {
			text = s
		}
	}
	switch text {
	case EndInitSignal:
		return &Frame{Kind: FrameKindEndInit}, nil
	case EndSignal:
		return &Frame{Kind: FrameKindEnd}, nil
	}

	if line[0] != '{' || !json.Valid(line) {
		return nil, fmt.Errorf("%w: frame is not a JSON object", ErrProtocol)
	}
	raw := make(json.RawMessage, len(line))
	copy(raw, line)
	return &Frame{Kind: FrameKindData, Raw: raw}, nil
}

// Decode unmarshals the frame's "message" field into v.
func (f *Frame) Decode(v interface{}) error {
	if f.Kind != FrameKindData {
		return fmt.Errorf("%w: expected data frame, got %s", ErrProtocol, f.Kind)
	}
	envelope := &Envelope{}
	if err := json.Unmarshal(f.Raw, envelope); err != nil {
		return fmt.Errorf("%w: failed to decode envelope: %v", ErrProtocol, err)
	}
	if len(envelope.Message) == 0 || bytes.Equal(envelope.Message, []byte("null")) {
		return fmt.Errorf("%w: missing message field", ErrProtocol)
	}
	if err := json.Unmarshal(envelope.Message, v); err != nil {
		return fmt.Errorf("%w: failed to decode message: %v", ErrProtocol, err)
	}
	return nil
}

// Handshake is the first message of a game.
type Handshake struct {
	YourTankID  *types.ObjectID `json:"your-tank-id"`
	EnemyTankID *types.ObjectID `json:"enemy-tank-id"`
}

// TurnMessage is both the init batch and the per-turn delta. During init only
// UpdatedObjects is sent.
type TurnMessage struct {
	UpdatedObjects map[types.ObjectID]types.GameObject `json:"updated_objects"`
	DeletedObjects []types.ObjectID                    `json:"deleted_objects"`
}

// Action is the bot's response to a turn. Empty fields are omitted.
type Action struct {
	Shoot *float64          `json:"shoot,omitempty"`
	Path  *kinematic.Vector `json:"path,omitempty"`
}

// IsEmpty reports whether the action carries no command.
func (a *Action) IsEmpty() bool {
	return a.Shoot == nil && a.Path == nil
}
