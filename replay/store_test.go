package replay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snakearena/arena/board"
)

func testMatch(id string) (*board.Game, []*board.Frame) {
	game := &board.Game{
		ID:     id,
		Grid:   board.Grid{Width: 11, Height: 11},
		Status: board.GameStatusCreated,
	}
	frame := &board.Frame{
		Turn: 0,
		Snakes: []*board.Snake{
			{ID: "s1", Health: 100, Body: []*board.Point{{X: 1, Y: 1}}},
		},
		Food: []*board.Point{{X: 5, Y: 5}},
	}
	return game, []*board.Frame{frame}
}

func TestInMemCreateAndGet(t *testing.T) {
	s := InMemStore()
	game, frames := testMatch("m1")
	require.NoError(t, s.CreateMatch(context.Background(), game, frames))

	got, err := s.GetMatch(context.Background(), "m1")
	require.NoError(t, err)
	require.Equal(t, "m1", got.ID)

	_, err = s.GetMatch(context.Background(), "missing")
	require.Equal(t, ErrNotFound, err)
}

func TestInMemGetMatchReturnsCopy(t *testing.T) {
	s := InMemStore()
	game, frames := testMatch("m1")
	require.NoError(t, s.CreateMatch(context.Background(), game, frames))

	got, err := s.GetMatch(context.Background(), "m1")
	require.NoError(t, err)
	got.Status = board.GameStatusAborted

	again, err := s.GetMatch(context.Background(), "m1")
	require.NoError(t, err)
	require.Equal(t, board.GameStatusCreated, again.Status)
}

func TestInMemPushFrameSequence(t *testing.T) {
	s := InMemStore()
	game, frames := testMatch("m1")
	require.NoError(t, s.CreateMatch(context.Background(), game, frames))

	require.NoError(t, s.PushFrame(context.Background(), "m1", &board.Frame{Turn: 1}))
	require.Equal(t, ErrInvalidSequence, s.PushFrame(context.Background(), "m1", &board.Frame{Turn: 3}))
	require.Equal(t, ErrInvalidSequence, s.PushFrame(context.Background(), "m1", &board.Frame{Turn: 1}))
	require.Equal(t, ErrNotFound, s.PushFrame(context.Background(), "missing", &board.Frame{}))
}

func TestInMemListFrames(t *testing.T) {
	s := InMemStore()
	game, frames := testMatch("m1")
	require.NoError(t, s.CreateMatch(context.Background(), game, frames))
	for turn := int32(1); turn <= 9; turn++ {
		require.NoError(t, s.PushFrame(context.Background(), "m1", &board.Frame{Turn: turn}))
	}

	list, err := s.ListFrames(context.Background(), "m1", 5, 0)
	require.NoError(t, err)
	require.Len(t, list, 5)
	require.Equal(t, int32(0), list[0].Turn)

	list, err = s.ListFrames(context.Background(), "m1", 100, 8)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, int32(8), list[0].Turn)

	// Negative offset counts from the end.
	list, err = s.ListFrames(context.Background(), "m1", 100, -1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int32(9), list[0].Turn)

	list, err = s.ListFrames(context.Background(), "m1", 5, 50)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestInMemSetMatchStatus(t *testing.T) {
	s := InMemStore()
	game, frames := testMatch("m1")
	require.NoError(t, s.CreateMatch(context.Background(), game, frames))
	require.NoError(t, s.SetMatchStatus(context.Background(), "m1", board.GameStatusRunning))

	got, err := s.GetMatch(context.Background(), "m1")
	require.NoError(t, err)
	require.Equal(t, board.GameStatusRunning, got.Status)

	require.Equal(t, ErrNotFound, s.SetMatchStatus(context.Background(), "missing", board.GameStatusRunning))
}
