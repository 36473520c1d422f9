package rules

import (
	"math/rand"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/snakearena/arena/board"
)

// Next computes the frame for the following turn from the previous frame
// and one move per living snake. It is a pure transition: the previous
// frame is never mutated and, for a fixed configuration, move map and
// random stream, the output is identical on every invocation.
//
// The pipeline order is fixed: movement, growth/shrink and food removal,
// health, death checks against the complete post-movement positions,
// atomic elimination commit, food respawn, turn increment. Reordering
// any two steps changes outcomes in edge cases like head-to-head
// collisions with simultaneous growth.
func Next(game *board.Game, prev *board.Frame, moves map[string]board.Direction, rng *rand.Rand) (*board.Frame, error) {
	if prev == nil {
		return nil, errors.New("rules: invalid state, previous frame is nil")
	}
	next := prev.Clone()
	next.Turn = prev.Turn + 1

	// Deaths decided by move policy alone, before any movement.
	pending := map[string]string{}
	moved := map[string]bool{}

	// 1. movement
	for _, s := range next.AliveSnakes() {
		d, cause := resolveMove(game, s, moves)
		if cause != "" {
			log.WithFields(log.Fields{
				"GameID":  game.ID,
				"SnakeID": s.ID,
				"Turn":    next.Turn,
				"Cause":   cause,
			}).Info("move policy elimination")
			pending[s.ID] = cause
			continue
		}
		head := game.Grid.Step(s.Head(), d)
		if head == nil {
			// Off the board with wrap disabled. Keep the raw cell so the
			// wall collision check sees where the head went.
			head = rawNeighbor(s.Head(), d)
		}
		s.PushHead(head)
		moved[s.ID] = true
	}

	// 2 + 3. growth/shrink and health. Eating resets health after the
	// starvation decrement, so a snake on its last point of health that
	// reaches food survives.
	eaten := []*board.Point{}
	for _, s := range next.AliveSnakes() {
		s.Health--
		if !moved[s.ID] {
			continue
		}
		if next.HasFood(s.Head()) {
			s.Health = game.HealthCap
			eaten = append(eaten, s.Head())
			log.WithFields(log.Fields{
				"GameID":  game.ID,
				"SnakeID": s.ID,
				"Turn":    next.Turn,
			}).Info("snake ate")
		} else {
			s.PopTail()
		}
	}
	next.Food = removeFood(next.Food, eaten)

	// 4. death checks, evaluated against the post-movement positions of
	// all snakes at once. No elimination is committed until every check
	// has run.
	updates := checkForDeath(game.Grid, next)

	// 5. commit eliminations atomically, first cause wins.
	for _, s := range next.AliveSnakes() {
		if cause, ok := pending[s.ID]; ok {
			s.Death = &board.Death{Cause: cause, Turn: next.Turn}
		}
	}
	for _, du := range updates {
		if du.Snake.Death == nil {
			du.Snake.Death = du.Death
		}
	}

	// 6. food respawn from the seeded stream only.
	maybeSpawnFood(game, next, rng)

	if err := validateFrame(game, next); err != nil {
		return nil, err
	}
	return next, nil
}

// resolveMove applies the missing and illegal move policies. It returns
// either the direction to move or a non-empty death cause.
func resolveMove(game *board.Game, s *board.Snake, moves map[string]board.Direction) (board.Direction, string) {
	d, ok := moves[s.ID]
	if !ok {
		if game.OnMissingMove == board.PolicyEliminate {
			return "", DeathCauseMissingMove
		}
		return s.Heading(game.Grid), ""
	}
	if isIllegalMove(game.Grid, s, d) {
		if game.OnIllegalMove == board.PolicyEliminate {
			return "", DeathCauseIllegalMove
		}
		return s.Heading(game.Grid), ""
	}
	return d, ""
}

// isIllegalMove reports whether the move leaves the board with wrap
// disabled or reverses into the snake's own neck.
func isIllegalMove(grid board.Grid, s *board.Snake, d board.Direction) bool {
	next := grid.Step(s.Head(), d)
	if next == nil {
		return true
	}
	if s.Length() >= 2 && !s.Body[1].Equal(s.Head()) && next.Equal(s.Body[1]) {
		return true
	}
	return false
}

// rawNeighbor is the unclamped adjacent cell, used to record where an
// off-board head ended up.
func rawNeighbor(p *board.Point, d board.Direction) *board.Point {
	next := p.Clone()
	switch d {
	case board.DirectionUp:
		next.Y--
	case board.DirectionDown:
		next.Y++
	case board.DirectionLeft:
		next.X--
	case board.DirectionRight:
		next.X++
	}
	return next
}

func removeFood(food []*board.Point, eaten []*board.Point) []*board.Point {
	if len(eaten) == 0 {
		return food
	}
	remaining := []*board.Point{}
	for _, f := range food {
		consumed := false
		for _, e := range eaten {
			if f.Equal(e) {
				consumed = true
				break
			}
		}
		if !consumed {
			remaining = append(remaining, f)
		}
	}
	return remaining
}
