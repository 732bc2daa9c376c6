package recording

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cbodonnell/tankbot/pkg/messages"
	"github.com/cbodonnell/tankbot/pkg/transport"
	"github.com/klauspost/compress/zstd"
)

// Recorder is a transport.Transport that tees every frame to a transcript.
type Recorder struct {
	inner   transport.Transport
	encoder *zstd.Encoder
	writer  *bufio.Writer
	sink    io.Closer
	lock    sync.Mutex
}

// NewRecorder writes the transcript of inner to w. If w is an io.Closer it is
// closed by Close.
func NewRecorder(inner transport.Transport, w io.Writer) (*Recorder, error) {
	encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	r := &Recorder{
		inner:   inner,
		encoder: encoder,
		writer:  bufio.NewWriter(encoder),
	}
	if closer, ok := w.(io.Closer); ok {
		r.sink = closer
	}
	return r, nil
}

// CreateRecorder records inner to a new file at path.
func CreateRecorder(inner transport.Transport, path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create recording file: %w", err)
	}
	r, err := NewRecorder(inner, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Recorder) ReadFrame(ctx context.Context) (*messages.Frame, error) {
	frame, err := r.inner.ReadFrame(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.write(DirectionIn, frameData(frame)); err != nil {
		return nil, err
	}
	return frame, nil
}

func (r *Recorder) PostMessage(ctx context.Context, msg interface{}) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}
	if err := r.inner.PostMessage(ctx, json.RawMessage(b)); err != nil {
		return err
	}
	return r.write(DirectionOut, b)
}

func (r *Recorder) write(dir Direction, data json.RawMessage) error {
	b, err := json.Marshal(&Entry{
		Timestamp: now(),
		Direction: dir,
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize recording entry: %w", err)
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if _, err := r.writer.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write recording entry: %w", err)
	}
	return nil
}

// Close flushes the transcript and closes both the transcript and the inner
// transport.
func (r *Recorder) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	var firstErr error
	if err := r.writer.Flush(); err != nil {
		firstErr = fmt.Errorf("failed to flush recording: %w", err)
	}
	if err := r.encoder.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close zstd writer: %w", err)
	}
	if r.sink != nil {
		if err := r.sink.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close recording file: %w", err)
		}
	}
	if err := r.inner.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
