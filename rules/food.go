package rules

import (
	"math/rand"

	"github.com/snakearena/arena/board"
)

// unoccupiedPoints lists every free cell in column-major order. The
// ordering is fixed so that an index drawn from the seeded random stream
// always lands on the same cell.
func unoccupiedPoints(grid board.Grid, food []*board.Point, snakes []*board.Snake) []*board.Point {
	occupied := map[board.Point]bool{}
	for _, f := range food {
		occupied[*f] = true
	}
	for _, s := range snakes {
		for _, b := range s.Body {
			occupied[*b] = true
		}
	}

	open := []*board.Point{}
	for x := int32(0); x < grid.Width; x++ {
		for y := int32(0); y < grid.Height; y++ {
			p := &board.Point{X: x, Y: y}
			if !occupied[*p] {
				open = append(open, p)
			}
		}
	}
	return open
}

// pickUnoccupiedPoint selects a free cell from the seeded random stream,
// or nil when the board is full.
func pickUnoccupiedPoint(grid board.Grid, food []*board.Point, snakes []*board.Snake, rng *rand.Rand) *board.Point {
	open := unoccupiedPoints(grid, food, snakes)
	if len(open) == 0 {
		return nil
	}
	return open[rng.Intn(len(open))]
}

// maybeSpawnFood rolls the configured spawn chance when the food count
// has fallen below the configured minimum. A full board skips the spawn
// silently; it is not an error.
func maybeSpawnFood(game *board.Game, frame *board.Frame, rng *rand.Rand) {
	if game.FoodSpawnChance <= 0 {
		return
	}
	if int32(len(frame.Food)) >= game.MinFood {
		return
	}
	if rng.Int31n(100) >= game.FoodSpawnChance {
		return
	}
	p := pickUnoccupiedPoint(game.Grid, frame.Food, frame.AliveSnakes(), rng)
	if p != nil {
		frame.Food = append(frame.Food, p)
	}
}
