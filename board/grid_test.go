package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGridInBounds(t *testing.T) {
	g := Grid{Width: 11, Height: 11}
	require.True(t, g.InBounds(&Point{X: 0, Y: 0}))
	require.True(t, g.InBounds(&Point{X: 10, Y: 10}))
	require.False(t, g.InBounds(&Point{X: -1, Y: 0}))
	require.False(t, g.InBounds(&Point{X: 0, Y: 11}))
}

func TestGridStep(t *testing.T) {
	g := Grid{Width: 11, Height: 11}
	p := g.Step(&Point{X: 5, Y: 5}, DirectionUp)
	require.Equal(t, &Point{X: 5, Y: 4}, p)
	p = g.Step(&Point{X: 5, Y: 5}, DirectionRight)
	require.Equal(t, &Point{X: 6, Y: 5}, p)
}

func TestGridStepOffBoard(t *testing.T) {
	g := Grid{Width: 11, Height: 11}
	require.Nil(t, g.Step(&Point{X: 0, Y: 0}, DirectionUp))
	require.Nil(t, g.Step(&Point{X: 0, Y: 0}, DirectionLeft))
	require.Nil(t, g.Step(&Point{X: 10, Y: 10}, DirectionDown))
	require.Nil(t, g.Step(&Point{X: 10, Y: 10}, DirectionRight))
}

func TestGridStepWrap(t *testing.T) {
	g := Grid{Width: 11, Height: 11, Wrap: true}
	require.Equal(t, &Point{X: 0, Y: 10}, g.Step(&Point{X: 0, Y: 0}, DirectionUp))
	require.Equal(t, &Point{X: 10, Y: 0}, g.Step(&Point{X: 0, Y: 0}, DirectionLeft))
	require.Equal(t, &Point{X: 0, Y: 10}, g.Step(&Point{X: 10, Y: 10}, DirectionRight))
	require.Equal(t, &Point{X: 10, Y: 0}, g.Step(&Point{X: 10, Y: 10}, DirectionDown))
}

func TestGridHeadingWrapped(t *testing.T) {
	g := Grid{Width: 11, Height: 11, Wrap: true}
	// Head wrapped from y=0 to y=10 moving up.
	d, ok := g.Heading(&Point{X: 3, Y: 10}, &Point{X: 3, Y: 0})
	require.True(t, ok)
	require.Equal(t, DirectionUp, d)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("left")
	require.NoError(t, err)
	require.Equal(t, DirectionLeft, d)

	_, err = ParseDirection("sideways")
	require.Error(t, err)
}

func TestDirectionOpposite(t *testing.T) {
	require.Equal(t, DirectionDown, DirectionUp.Opposite())
	require.Equal(t, DirectionLeft, DirectionRight.Opposite())
}
