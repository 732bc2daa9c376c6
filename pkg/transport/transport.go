package transport

import (
	"context"
	"errors"

	"github.com/cbodonnell/tankbot/pkg/messages"
)

// ErrClosed is returned by ReadFrame when the server closes the stream
// without sending the end-of-game sentinel.
var ErrClosed = errors.New("transport closed")

// Transport moves frames between the bot and the game server.
// Reads block until a full frame is available.
type Transport interface {
	// ReadFrame returns the next frame from the server.
	ReadFrame(ctx context.Context) (*messages.Frame, error)
	// PostMessage serializes msg as JSON and sends it. No acknowledgement is expected.
	PostMessage(ctx context.Context, msg interface{}) error
	// Close releases the underlying connection.
	Close() error
}
