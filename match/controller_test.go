package match

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/snakearena/arena/board"
	"github.com/snakearena/arena/replay"
	"github.com/snakearena/arena/rules"
)

// providerFunc adapts a function to the MoveProvider interface.
type providerFunc func(ctx context.Context, game *board.Game, frame *board.Frame, snakeID string) (board.Direction, error)

func (f providerFunc) ProvideMove(ctx context.Context, game *board.Game, frame *board.Frame, snakeID string) (board.Direction, error) {
	return f(ctx, game, frame, snakeID)
}

func twoSnakeGame() *board.Game {
	return &board.Game{
		ID:   "match-test",
		Grid: board.Grid{Width: 11, Height: 11},
		Snakes: []board.SnakeSpec{
			{ID: "a", Name: "a", Start: &board.Point{X: 5, Y: 5}},
			{ID: "b", Name: "b", Start: &board.Point{X: 9, Y: 5}},
		},
		SnakeTimeoutMS: 50,
	}
}

func TestControllerLifecycle(t *testing.T) {
	store := replay.InMemStore()
	provider := NewScriptProvider(map[string][]board.Direction{
		"a": {board.DirectionUp},
		// b walks off the right edge and keeps going per policy.
		"b": {board.DirectionRight},
	})
	c, err := NewController(twoSnakeGame(), provider, store)
	require.NoError(t, err)
	require.Equal(t, StateNotStarted, c.State())
	require.Equal(t, int32(0), c.CurrentFrame().Turn)
	require.Nil(t, c.Result())

	result, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateFinished, c.State())
	require.Equal(t, board.OutcomeWinner, result.Outcome)
	require.Equal(t, "a", result.WinnerID)
	require.Equal(t, board.GameStatusComplete, c.Game().Status)

	// b died to the wall two turns in: (10,5) then off the board.
	final := c.CurrentFrame()
	require.Equal(t, int32(2), final.Turn)
	b := final.FindSnake("b")
	require.NotNil(t, b.Death)
	require.Equal(t, rules.DeathCauseWallCollision, b.Death.Cause)

	// One-way: a finished controller refuses to run again.
	_, err = c.Run(context.Background())
	require.Error(t, err)
}

func TestControllerRecordsEveryFrame(t *testing.T) {
	store := replay.InMemStore()
	provider := NewScriptProvider(map[string][]board.Direction{
		"a": {board.DirectionUp},
		"b": {board.DirectionRight},
	})
	c, err := NewController(twoSnakeGame(), provider, store)
	require.NoError(t, err)
	_, err = c.Run(context.Background())
	require.NoError(t, err)

	frames, err := store.ListFrames(context.Background(), "match-test", 100, 0)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	for i, f := range frames {
		require.Equal(t, int32(i), f.Turn)
	}
}

func TestControllerConfigurationErrorSurfacesEarly(t *testing.T) {
	game := &board.Game{Grid: board.Grid{Width: 0, Height: 0}}
	_, err := NewController(game, NewScriptProvider(nil), replay.InMemStore())
	require.Error(t, err)
	require.IsType(t, rules.ConfigurationError{}, err)
}

func TestControllerAbortBeforeRun(t *testing.T) {
	c, err := NewController(twoSnakeGame(), NewScriptProvider(nil), replay.InMemStore())
	require.NoError(t, err)
	c.Abort()

	result, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, board.OutcomeAborted, result.Outcome)
	require.Equal(t, int32(0), result.Turns)
	require.Equal(t, board.GameStatusAborted, c.Game().Status)
}

func TestControllerAbortBetweenTurns(t *testing.T) {
	store := replay.InMemStore()
	var c *Controller
	provider := providerFunc(func(ctx context.Context, game *board.Game, frame *board.Frame, snakeID string) (board.Direction, error) {
		if frame.Turn == 2 {
			c.Abort()
		}
		return board.DirectionUp, nil
	})

	game := &board.Game{
		ID:   "abort-test",
		Grid: board.Grid{Width: 50, Height: 50},
		Snakes: []board.SnakeSpec{
			{ID: "a", Name: "a", Start: &board.Point{X: 25, Y: 40}},
			{ID: "b", Name: "b", Start: &board.Point{X: 40, Y: 40}},
		},
		SnakeTimeoutMS: 50,
	}
	var err error
	c, err = NewController(game, provider, store)
	require.NoError(t, err)

	result, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, board.OutcomeAborted, result.Outcome)
	// The turn in flight completed before the abort took effect.
	require.Equal(t, int32(3), result.Turns)

	frames, err := store.ListFrames(context.Background(), "abort-test", 100, 0)
	require.NoError(t, err)
	require.Len(t, frames, 4)
}

func TestControllerContextCancellation(t *testing.T) {
	c, err := NewController(twoSnakeGame(), NewScriptProvider(nil), replay.InMemStore())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := c.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, board.OutcomeAborted, result.Outcome)
}

func TestControllerProviderTimeoutFallsBackToPolicy(t *testing.T) {
	game := &board.Game{
		ID:             "timeout-test",
		Grid:           board.Grid{Width: 11, Height: 11},
		Snakes:         []board.SnakeSpec{{ID: "a", Name: "a", Start: &board.Point{X: 5, Y: 5}}},
		SnakeTimeoutMS: 10,
		OnMissingMove:  board.PolicyEliminate,
	}
	provider := providerFunc(func(ctx context.Context, g *board.Game, f *board.Frame, id string) (board.Direction, error) {
		select {
		case <-time.After(time.Second):
			return board.DirectionUp, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	c, err := NewController(game, provider, replay.InMemStore())
	require.NoError(t, err)

	result, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, board.OutcomeAllEliminated, result.Outcome)
	require.Equal(t, rules.DeathCauseMissingMove, c.CurrentFrame().FindSnake("a").Death.Cause)
}

func TestMatchReplayIsDeterministic(t *testing.T) {
	run := func() []byte {
		store := replay.InMemStore()
		game := &board.Game{
			ID:   "det-test",
			Grid: board.Grid{Width: 11, Height: 11},
			Snakes: []board.SnakeSpec{
				{ID: "a", Name: "a"},
				{ID: "b", Name: "b"},
			},
			Food:            3,
			FoodSpawnChance: 50,
			MinFood:         3,
			Seed:            1234,
			SnakeTimeoutMS:  50,
			MaxTurns:        6,
		}
		provider := NewScriptProvider(map[string][]board.Direction{
			"a": {board.DirectionUp, board.DirectionRight, board.DirectionUp, board.DirectionRight, board.DirectionUp, board.DirectionRight},
			"b": {board.DirectionDown, board.DirectionLeft, board.DirectionDown, board.DirectionLeft, board.DirectionDown, board.DirectionLeft},
		})
		c, err := NewController(game, provider, store)
		require.NoError(t, err)
		_, err = c.Run(context.Background())
		require.NoError(t, err)

		frames, err := store.ListFrames(context.Background(), "det-test", 1000, 0)
		require.NoError(t, err)
		data, err := json.Marshal(frames)
		require.NoError(t, err)
		return data
	}
	require.Equal(t, run(), run())
}

func TestGatherMovesSkipsFailingProviders(t *testing.T) {
	game := twoSnakeGame()
	frame := &board.Frame{
		Snakes: []*board.Snake{
			{ID: "a", Health: 100, Body: []*board.Point{{X: 1, Y: 1}}},
			{ID: "b", Health: 100, Body: []*board.Point{{X: 2, Y: 2}}},
		},
	}
	provider := providerFunc(func(ctx context.Context, g *board.Game, f *board.Frame, id string) (board.Direction, error) {
		if id == "b" {
			return "", ErrNoMove
		}
		return board.DirectionDown, nil
	})
	moves := gatherMoves(context.Background(), provider, game, frame, time.Second)
	require.Equal(t, map[string]board.Direction{"a": board.DirectionDown}, moves)
}
