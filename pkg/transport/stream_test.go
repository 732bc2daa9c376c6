package transport

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/cbodonnell/tankbot/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamTransport_ReadFrame(t *testing.T) {
	input := strings.Join([]string{
		`{"message": {"your-tank-id": "a", "enemy-tank-id": "b"}}`,
		``,
		`{"message": {"updated_objects": {}}}`,
		`END_INIT`,
		`{"message": {"updated_objects": {}, "deleted_objects": []}}`,
		`END`,
	}, "\n")
	tr := NewStreamTransport(strings.NewReader(input), io.Discard, nil)
	ctx := context.Background()

	want := []messages.FrameKind{
		messages.FrameKindData,
		messages.FrameKindData,
		messages.FrameKindEndInit,
		messages.FrameKindData,
		messages.FrameKindEnd,
	}
	for i, kind := range want {
		frame, err := tr.ReadFrame(ctx)
		require.NoError(t, err, "frame %d", i)
		assert.Equal(t, kind, frame.Kind, "frame %d", i)
	}

	_, err := tr.ReadFrame(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStreamTransport_ReadFrame_Malformed(t *testing.T) {
	tr := NewStreamTransport(strings.NewReader("not json\n"), io.Discard, nil)

	_, err := tr.ReadFrame(context.Background())
	assert.ErrorIs(t, err, messages.ErrProtocol)
}

func TestStreamTransport_ReadFrame_Canceled(t *testing.T) {
	tr := NewStreamTransport(strings.NewReader("END\n"), io.Discard, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.ReadFrame(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStreamTransport_PostMessage(t *testing.T) {
	out := &bytes.Buffer{}
	tr := NewStreamTransport(strings.NewReader(""), out, nil)
	ctx := context.Background()

	angle := 90.0
	require.NoError(t, tr.PostMessage(ctx, &messages.Action{Shoot: &angle}))
	require.NoError(t, tr.PostMessage(ctx, &messages.Action{}))

	lines := strings.Split(out.String(), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"shoot": 90}`, lines[0])
	assert.JSONEq(t, `{}`, lines[1])
	assert.Equal(t, "", lines[2])
}

type closeRecorder struct {
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestStreamTransport_Close(t *testing.T) {
	closer := &closeRecorder{}
	tr := NewStreamTransport(strings.NewReader(""), io.Discard, closer)
	require.NoError(t, tr.Close())
	assert.True(t, closer.closed)

	assert.NoError(t, NewStreamTransport(strings.NewReader(""), io.Discard, nil).Close())
}
