// Package recording captures the frames exchanged with the game server in a
// zstd-compressed JSON lines transcript, and plays such a transcript back as a
// transport.
package recording

import (
	"encoding/json"
	"time"

	"github.com/cbodonnell/tankbot/pkg/messages"
)

// Direction of a recorded entry relative to the bot.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Entry is one line of a transcript.
type Entry struct {
	Timestamp int64           `json:"ts"`
	Direction Direction       `json:"dir"`
	Data      json.RawMessage `json:"data"`
}

// frameData renders a frame the way it appeared on the wire: sentinels as
// JSON strings, data frames as their JSON object.
func frameData(frame *messages.Frame) json.RawMessage {
	switch frame.Kind {
	case messages.FrameKindEndInit:
		return json.RawMessage(`"` + messages.EndInitSignal + `"`)
	case messages.FrameKindEnd:
		return json.RawMessage(`"` + messages.EndSignal + `"`)
	default:
		return frame.Raw
	}
}

func now() int64 {
	return time.Now().UnixMilli()
}
