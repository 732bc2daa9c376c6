package messages

import (
	"encoding/json"
	"testing"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/kinematic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantKind FrameKind
		wantErr  error
	}{
		{name: "end init", line: "END_INIT\n", wantKind: FrameKindEndInit},
		{name: "end", line: "END", wantKind: FrameKindEnd},
		{name: "quoted end", line: `"END"`, wantKind: FrameKindEnd},
		{name: "data", line: `{"message": {}}`, wantKind: FrameKindData},
		{name: "blank", line: "  \r\n", wantErr: ErrEmptyFrame},
		{name: "array", line: `[1, 2]`, wantErr: ErrProtocol},
		{name: "truncated", line: `{"message": `, wantErr: ErrProtocol},
		{name: "other string", line: `"HELLO"`, wantErr: ErrProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := ParseFrame([]byte(tt.line))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, frame.Kind)
		})
	}
}

func TestFrame_DecodeHandshake(t *testing.T) {
	frame, err := ParseFrame([]byte(`{"message": {"your-tank-id": "tank-a", "enemy-tank-id": 7}}`))
	require.NoError(t, err)

	handshake := &Handshake{}
	require.NoError(t, frame.Decode(handshake))
	require.NotNil(t, handshake.YourTankID)
	require.NotNil(t, handshake.EnemyTankID)
	assert.Equal(t, types.ObjectID("tank-a"), *handshake.YourTankID)
	assert.Equal(t, types.ObjectID("7"), *handshake.EnemyTankID)
}

func TestFrame_DecodeTurn(t *testing.T) {
	frame, err := ParseFrame([]byte(`{"message": {"updated_objects": {"b1": {"type": 2, "position": [1, 2]}}, "deleted_objects": ["w3"]}}`))
	require.NoError(t, err)

	turn := &TurnMessage{}
	require.NoError(t, frame.Decode(turn))
	assert.Len(t, turn.UpdatedObjects, 1)
	assert.Contains(t, turn.UpdatedObjects, types.ObjectID("b1"))
	assert.Equal(t, []types.ObjectID{"w3"}, turn.DeletedObjects)
}

func TestFrame_DecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame *Frame
	}{
		{name: "sentinel", frame: &Frame{Kind: FrameKindEnd}},
		{name: "no message", frame: &Frame{Kind: FrameKindData, Raw: json.RawMessage(`{"other": 1}`)}},
		{name: "null message", frame: &Frame{Kind: FrameKindData, Raw: json.RawMessage(`{"message": null}`)}},
		{name: "wrong shape", frame: &Frame{Kind: FrameKindData, Raw: json.RawMessage(`{"message": {"updated_objects": []}}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Decode(&TurnMessage{})
			assert.ErrorIs(t, err, ErrProtocol)
		})
	}
}

func TestAction_JSON(t *testing.T) {
	angle := 45.0
	b, err := json.Marshal(&Action{Shoot: &angle, Path: &kinematic.Vector{X: 3, Y: 4}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shoot": 45, "path": [3, 4]}`, string(b))

	zero := 0.0
	b, err = json.Marshal(&Action{Shoot: &zero})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shoot": 0}`, string(b))

	empty := &Action{}
	assert.True(t, empty.IsEmpty())
	b, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}
