package recording

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cbodonnell/tankbot/pkg/log"
	"github.com/cbodonnell/tankbot/pkg/messages"
	"github.com/cbodonnell/tankbot/pkg/transport"
	"github.com/klauspost/compress/zstd"
)

// Player replays a transcript as a transport. Inbound entries are served by
// ReadFrame in order. Posted messages are compared with the recorded replies
// and mismatches are counted.
type Player struct {
	decoder     *zstd.Decoder
	scanner     *bufio.Scanner
	source      io.Closer
	peeked      *Entry
	pendingOut  []json.RawMessage
	divergences int
	posted      int
}

// NewPlayer reads a transcript from r.
func NewPlayer(r io.Reader) (*Player, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	scanner := bufio.NewScanner(decoder)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*messages.MaxFrameSize)
	p := &Player{
		decoder: decoder,
		scanner: scanner,
	}
	if closer, ok := r.(io.Closer); ok {
		p.source = closer
	}
	return p, nil
}

// OpenPlayer replays the transcript stored at path.
func OpenPlayer(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording file: %w", err)
	}
	p, err := NewPlayer(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return p, nil
}

func (p *Player) ReadFrame(ctx context.Context) (*messages.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := p.next()
		if err != nil {
			return nil, err
		}
		switch entry.Direction {
		case DirectionIn:
			return messages.ParseFrame(entryLine(entry.Data))
		case DirectionOut:
			p.pendingOut = append(p.pendingOut, entry.Data)
		default:
			return nil, fmt.Errorf("unknown recording direction %q", entry.Direction)
		}
	}
}

func (p *Player) next() (*Entry, error) {
	if p.peeked != nil {
		entry := p.peeked
		p.peeked = nil
		return entry, nil
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read recording: %w", err)
		}
		return nil, transport.ErrClosed
	}
	entry := &Entry{}
	if err := json.Unmarshal(p.scanner.Bytes(), entry); err != nil {
		return nil, fmt.Errorf("failed to decode recording entry: %w", err)
	}
	return entry, nil
}

// entryLine turns recorded data back into a wire line. Sentinels were stored
// as JSON strings and ParseFrame accepts them quoted.
func entryLine(data json.RawMessage) []byte {
	return bytes.TrimSpace(data)
}

func (p *Player) PostMessage(ctx context.Context, msg interface{}) error {
	got, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}
	p.posted++

	// recorded replies for a turn appear after its inbound frame, so pull the
	// next reply from the transcript if it has not been buffered yet.
	if len(p.pendingOut) == 0 {
		p.bufferNextReply()
	}
	if len(p.pendingOut) == 0 {
		log.Warn("Replay reply %d has no recorded counterpart: %s", p.posted, got)
		p.divergences++
		return nil
	}
	want := p.pendingOut[0]
	p.pendingOut = p.pendingOut[1:]
	if !jsonEqual(want, got) {
		log.Warn("Replay reply %d diverged: recorded %s, got %s", p.posted, want, got)
		p.divergences++
	}
	return nil
}

// bufferNextReply peeks at the next entry; an inbound entry is kept for the
// following ReadFrame.
func (p *Player) bufferNextReply() {
	entry, err := p.next()
	if err != nil {
		return
	}
	switch entry.Direction {
	case DirectionOut:
		p.pendingOut = append(p.pendingOut, entry.Data)
	default:
		p.peeked = entry
	}
}

// Divergences is the number of posted messages that did not match the
// transcript.
func (p *Player) Divergences() int {
	return p.divergences
}

func (p *Player) Close() error {
	p.decoder.Close()
	if p.source != nil {
		return p.source.Close()
	}
	return nil
}

func jsonEqual(a, b []byte) bool {
	var va, vb interface{}
	if err := json.Unmarshal(a, &va); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		return false
	}
	ca, _ := json.Marshal(va)
	cb, _ := json.Marshal(vb)
	return bytes.Equal(ca, cb)
}
