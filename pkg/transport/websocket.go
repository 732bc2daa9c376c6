package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cbodonnell/tankbot/pkg/log"
	"github.com/cbodonnell/tankbot/pkg/messages"
	"nhooyr.io/websocket"
)

// WSTransport carries one frame per WebSocket text message.
type WSTransport struct {
	conn *websocket.Conn
}

// DialWebSocket connects to a game server at a ws:// or wss:// url.
func DialWebSocket(ctx context.Context, url string) (*WSTransport, error) {
	log.Info("Connecting to WebSocket server at %s", url)
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	return NewWSTransport(conn), nil
}

// NewWSTransport wraps an established connection.
func NewWSTransport(conn *websocket.Conn) *WSTransport {
	conn.SetReadLimit(messages.MaxFrameSize)
	return &WSTransport{
		conn: conn,
	}
}

func (t *WSTransport) ReadFrame(ctx context.Context) (*messages.Frame, error) {
	for {
		typ, data, err := t.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil, ErrClosed
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to read frame: %w", err)
		}
		if typ != websocket.MessageText {
			log.Warn("Ignoring binary WebSocket message of %d bytes", len(data))
			continue
		}
		return messages.ParseFrame(data)
	}
}

func (t *WSTransport) PostMessage(ctx context.Context, msg interface{}) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}
	if err := t.conn.Write(ctx, websocket.MessageText, b); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

func (t *WSTransport) Close() error {
	return t.conn.Close(websocket.StatusNormalClosure, "game over")
}
