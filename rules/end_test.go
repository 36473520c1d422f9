package rules

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snakearena/arena/board"
)

func aliveSnake(id string) *board.Snake {
	return &board.Snake{ID: id, Health: 50, Body: []*board.Point{{X: 1, Y: 1}}}
}

func deadSnake(id string) *board.Snake {
	s := aliveSnake(id)
	s.Death = &board.Death{Cause: DeathCauseStarvation, Turn: 1}
	return s
}

func TestCheckForGameOverMultiPlayer(t *testing.T) {
	game := &board.Game{Mode: board.GameModeMultiPlayer}

	over := CheckForGameOver(game, &board.Frame{Snakes: []*board.Snake{aliveSnake("a"), aliveSnake("b")}})
	require.False(t, over)

	over = CheckForGameOver(game, &board.Frame{Snakes: []*board.Snake{aliveSnake("a"), deadSnake("b")}})
	require.True(t, over)

	over = CheckForGameOver(game, &board.Frame{Snakes: []*board.Snake{deadSnake("a"), deadSnake("b")}})
	require.True(t, over)
}

func TestCheckForGameOverSinglePlayer(t *testing.T) {
	game := &board.Game{Mode: board.GameModeSinglePlayer}

	over := CheckForGameOver(game, &board.Frame{Snakes: []*board.Snake{aliveSnake("a")}})
	require.False(t, over)

	over = CheckForGameOver(game, &board.Frame{Snakes: []*board.Snake{deadSnake("a")}})
	require.True(t, over)
}

func TestCheckForGameOverTurnLimit(t *testing.T) {
	game := &board.Game{Mode: board.GameModeMultiPlayer, MaxTurns: 50}
	frame := &board.Frame{Turn: 50, Snakes: []*board.Snake{aliveSnake("a"), aliveSnake("b"), aliveSnake("c")}}
	require.True(t, CheckForGameOver(game, frame))

	frame.Turn = 49
	require.False(t, CheckForGameOver(game, frame))
}

func TestResultOf(t *testing.T) {
	r := ResultOf(&board.Frame{Turn: 12, Snakes: []*board.Snake{aliveSnake("a"), deadSnake("b")}})
	require.Equal(t, board.OutcomeWinner, r.Outcome)
	require.Equal(t, "a", r.WinnerID)
	require.Equal(t, int32(12), r.Turns)

	r = ResultOf(&board.Frame{Turn: 12, Snakes: []*board.Snake{deadSnake("a"), deadSnake("b")}})
	require.Equal(t, board.OutcomeAllEliminated, r.Outcome)
	require.Empty(t, r.WinnerID)

	r = ResultOf(&board.Frame{Turn: 50, Snakes: []*board.Snake{aliveSnake("a"), aliveSnake("b")}})
	require.Equal(t, board.OutcomeDraw, r.Outcome)
}

// Two snakes of length 4 and 5 collide head first. The shorter dies, the
// longer remains as the only snake alive and wins the match.
func TestHeadToHeadWinnerScenario(t *testing.T) {
	game := &board.Game{ID: "h2h", Grid: board.Grid{Width: 11, Height: 11}}
	ApplyDefaults(game)
	prev := &board.Frame{
		Turn: 20,
		Snakes: []*board.Snake{
			{ID: "long", Health: 80, Body: []*board.Point{
				{X: 4, Y: 5}, {X: 3, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}, {X: 0, Y: 5}}},
			{ID: "short", Health: 80, Body: []*board.Point{
				{X: 6, Y: 5}, {X: 7, Y: 5}, {X: 8, Y: 5}, {X: 9, Y: 5}}},
		},
	}
	next, err := Next(game, prev, map[string]board.Direction{
		"long":  board.DirectionRight,
		"short": board.DirectionLeft,
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.Nil(t, next.FindSnake("long").Death)
	require.NotNil(t, next.FindSnake("short").Death)
	require.True(t, CheckForGameOver(game, next))

	r := ResultOf(next)
	require.Equal(t, board.OutcomeWinner, r.Outcome)
	require.Equal(t, "long", r.WinnerID)
}

// A lone snake with one point of health and no food in reach starves and
// the match ends with nobody left.
func TestLastSnakeStarvesScenario(t *testing.T) {
	game := &board.Game{ID: "starve", Grid: board.Grid{Width: 11, Height: 11}, Mode: board.GameModeSinglePlayer}
	ApplyDefaults(game)
	prev := &board.Frame{
		Turn: 30,
		Snakes: []*board.Snake{
			{ID: "solo", Health: 1, Body: []*board.Point{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 5, Y: 7}}},
		},
	}
	next, err := Next(game, prev, map[string]board.Direction{"solo": board.DirectionUp}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.NotNil(t, next.FindSnake("solo").Death)
	require.Equal(t, DeathCauseStarvation, next.FindSnake("solo").Death.Cause)
	require.True(t, CheckForGameOver(game, next))
	require.Equal(t, board.OutcomeAllEliminated, ResultOf(next).Outcome)
}
