package rules

import "github.com/snakearena/arena/board"

type deathUpdate struct {
	Snake *board.Snake
	Death *board.Death
}

// checkForDeath looks through the snakes with their updated coords and
// reports every elimination for the turn: starvation, wall collision,
// body collision and head-to-head collision. The frame is not modified;
// every check sees the complete tentative state so one elimination can
// never hide another. Snakes are visited in id order, keeping the report
// order stable between runs.
func checkForDeath(grid board.Grid, frame *board.Frame) []deathUpdate {
	updates := []deathUpdate{}
	for _, s := range frame.AliveSnakes() {
		if deathByStarvation(s.Health) {
			updates = append(updates, deathUpdate{
				Snake: s,
				Death: &board.Death{Turn: frame.Turn, Cause: DeathCauseStarvation},
			})
			continue
		}
		head := s.Head()
		if head == nil {
			continue
		}
		if !grid.InBounds(head) {
			updates = append(updates, deathUpdate{
				Snake: s,
				Death: &board.Death{Turn: frame.Turn, Cause: DeathCauseWallCollision},
			})
			continue
		}

		for _, other := range frame.AliveSnakes() {
			if deathByHeadCollision(s, other) {
				updates = append(updates, deathUpdate{
					Snake: s,
					Death: &board.Death{Turn: frame.Turn, Cause: DeathCauseHeadToHeadCollision},
				})
			}

			// Tails that vacated this turn were already popped, so a head
			// landing on an old tail cell only collides when that snake
			// grew and the cell is still occupied.
			for i, b := range other.Body {
				if i == 0 {
					continue
				}
				if head.Equal(b) {
					cause := DeathCauseSnakeCollision
					if s.ID == other.ID {
						cause = DeathCauseSelfCollision
					}
					updates = append(updates, deathUpdate{
						Snake: s,
						Death: &board.Death{Turn: frame.Turn, Cause: cause},
					})
					break
				}
			}
		}
	}
	return updates
}

func deathByStarvation(health int32) bool {
	return health <= 0
}

// deathByHeadCollision reports a fatal head-to-head: the snake dies when
// the other snake's head shares its cell and is the same length or
// longer. Equal lengths eliminate both snakes in the same turn.
func deathByHeadCollision(snake, other *board.Snake) bool {
	return other.ID != snake.ID &&
		snake.Head().Equal(other.Head()) &&
		snake.Length() <= other.Length()
}
