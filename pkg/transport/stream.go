package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/cbodonnell/tankbot/pkg/log"
	"github.com/cbodonnell/tankbot/pkg/messages"
)

// StreamTransport speaks newline-delimited JSON over a byte stream.
type StreamTransport struct {
	scanner *bufio.Scanner
	writer  *bufio.Writer
	closer  io.Closer
	lock    sync.Mutex
}

// NewStreamTransport creates a transport over r and w. closer may be nil.
func NewStreamTransport(r io.Reader, w io.Writer, closer io.Closer) *StreamTransport {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), messages.MaxFrameSize)
	return &StreamTransport{
		scanner: scanner,
		writer:  bufio.NewWriter(w),
		closer:  closer,
	}
}

// NewStdioTransport is the transport used when the game server launches the
// bot as a child process.
func NewStdioTransport() *StreamTransport {
	return NewStreamTransport(os.Stdin, os.Stdout, nil)
}

// DialTCP connects to a game server listening on addr.
func DialTCP(ctx context.Context, addr string) (*StreamTransport, error) {
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	log.Info("Connected to TCP server at %s", conn.RemoteAddr().String())
	return NewStreamTransport(conn, conn, conn), nil
}

func (t *StreamTransport) ReadFrame(ctx context.Context) (*messages.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read frame: %w", err)
			}
			return nil, ErrClosed
		}
		line := t.scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			log.Trace("Skipping blank line")
			continue
		}
		frame, err := messages.ParseFrame(line)
		if err != nil {
			return nil, err
		}
		return frame, nil
	}
}

func (t *StreamTransport) PostMessage(ctx context.Context, msg interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	if _, err := t.writer.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := t.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush message: %w", err)
	}
	return nil
}

func (t *StreamTransport) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}
