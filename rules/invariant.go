package rules

import (
	"fmt"

	"github.com/snakearena/arena/board"
)

// validateFrame checks the structural invariants of a produced frame.
// A failure here is an engine bug and stops the match; it is never
// repaired silently.
func validateFrame(game *board.Game, frame *board.Frame) error {
	for _, s := range frame.Snakes {
		if !s.Alive() {
			if s.Death.Cause == "" {
				return InvariantViolation{Turn: frame.Turn, Reason: fmt.Sprintf("snake %s dead without a cause", s.ID)}
			}
			continue
		}
		if s.Length() < 1 {
			return InvariantViolation{Turn: frame.Turn, Reason: fmt.Sprintf("alive snake %s has no body", s.ID)}
		}
		if s.Health <= 0 {
			return InvariantViolation{Turn: frame.Turn, Reason: fmt.Sprintf("alive snake %s has health %d", s.ID, s.Health)}
		}
		if s.Health > game.HealthCap {
			return InvariantViolation{Turn: frame.Turn, Reason: fmt.Sprintf("alive snake %s has health %d above the cap", s.ID, s.Health)}
		}
		// Cells may only repeat in a consecutive run, the unconsumed
		// starting stack sitting on the tail.
		seen := map[board.Point]bool{}
		for i, b := range s.Body {
			if seen[*b] && !b.Equal(s.Body[i-1]) {
				return InvariantViolation{Turn: frame.Turn, Reason: fmt.Sprintf("snake %s body revisits cell (%d,%d)", s.ID, b.X, b.Y)}
			}
			seen[*b] = true
		}
	}

	seenFood := map[board.Point]bool{}
	for _, f := range frame.Food {
		if !game.Grid.InBounds(f) {
			return InvariantViolation{Turn: frame.Turn, Reason: fmt.Sprintf("food out of bounds at (%d,%d)", f.X, f.Y)}
		}
		if seenFood[*f] {
			return InvariantViolation{Turn: frame.Turn, Reason: fmt.Sprintf("duplicate food at (%d,%d)", f.X, f.Y)}
		}
		seenFood[*f] = true
	}
	for _, s := range frame.AliveSnakes() {
		for _, b := range s.Body {
			if seenFood[*b] {
				return InvariantViolation{Turn: frame.Turn, Reason: fmt.Sprintf("food under snake %s at (%d,%d)", s.ID, b.X, b.Y)}
			}
		}
	}
	return nil
}
