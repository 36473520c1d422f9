// Package replay provides the append-only match history. Every frame a
// match produces is written here exactly once, in turn order, by a single
// writer; readers only ever see completed, immutable frames.
package replay

import (
	"context"
	"errors"
	"sync"

	"github.com/snakearena/arena/board"
)

var (
	// ErrNotFound is returned when a match is not in the store.
	ErrNotFound = errors.New("replay: match not found")
	// ErrInvalidSequence is returned when a frame is pushed out of turn
	// order. The log is append-only; gaps and rewrites are refused.
	ErrInvalidSequence = errors.New("replay: frame out of sequence")
)

// Store is the interface to the backing match archive.
type Store interface {
	// CreateMatch inserts a match and its initial frames.
	CreateMatch(ctx context.Context, game *board.Game, frames []*board.Frame) error
	// SetMatchStatus updates the lifecycle status of a match.
	SetMatchStatus(ctx context.Context, id string, status board.GameStatus) error
	// PushFrame appends the next frame; the frame's turn must follow the
	// last stored turn exactly.
	PushFrame(ctx context.Context, id string, frame *board.Frame) error
	// ListFrames returns up to limit frames starting at offset. A
	// negative offset counts back from the end of the log.
	ListFrames(ctx context.Context, id string, limit, offset int) ([]*board.Frame, error)
	// GetMatch fetches the match configuration and status.
	GetMatch(ctx context.Context, id string) (*board.Game, error)
}

// InMemStore returns an in memory implementation of the Store interface.
func InMemStore() Store {
	return &inmem{
		games:  map[string]*board.Game{},
		frames: map[string][]*board.Frame{},
	}
}

type inmem struct {
	games  map[string]*board.Game
	frames map[string][]*board.Frame
	lock   sync.Mutex
}

func (in *inmem) CreateMatch(ctx context.Context, g *board.Game, frames []*board.Frame) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	in.games[g.ID] = g
	in.frames[g.ID] = []*board.Frame{}
	for _, f := range frames {
		if err := in.appendFrame(g.ID, f); err != nil {
			return err
		}
	}
	return nil
}

func (in *inmem) SetMatchStatus(ctx context.Context, id string, status board.GameStatus) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = status
	return nil
}

func (in *inmem) appendFrame(id string, f *board.Frame) error {
	frames := in.frames[id]
	if int(f.Turn) != len(frames) {
		return ErrInvalidSequence
	}
	in.frames[id] = append(frames, f)
	return nil
}

func (in *inmem) PushFrame(ctx context.Context, id string, f *board.Frame) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return ErrNotFound
	}
	return in.appendFrame(id, f)
}

func (in *inmem) ListFrames(ctx context.Context, id string, limit, offset int) ([]*board.Frame, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return nil, ErrNotFound
	}
	return SliceFrames(in.frames[id], limit, offset), nil
}

// GetMatch returns a copy so that readers can marshal it while the
// match is still being driven.
func (in *inmem) GetMatch(ctx context.Context, id string) (*board.Game, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if g, ok := in.games[id]; ok {
		clone := *g
		return &clone, nil
	}
	return nil, ErrNotFound
}

// SliceFrames applies the limit/offset semantics shared by every store
// implementation, supporting negative offsets from the end.
func SliceFrames(frames []*board.Frame, limit, offset int) []*board.Frame {
	if offset < 0 {
		offset = len(frames) + offset
		if offset < 0 {
			offset = 0
		}
	}
	if len(frames) == 0 || offset >= len(frames) {
		return nil
	}
	if limit < 0 {
		limit = 0
	}
	if offset+limit >= len(frames) {
		limit = len(frames) - offset
	}
	return frames[offset : offset+limit]
}
