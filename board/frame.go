package board

import "sort"

// Frame is one immutable snapshot of the match: every snake and every
// food cell at a given turn. A new frame is produced for every turn; a
// published frame is never mutated, which is what makes replay and
// spectating safe without locks.
type Frame struct {
	Turn   int32    `json:"turn"`
	Snakes []*Snake `json:"snakes"`
	Food   []*Point `json:"food"`
}

// AliveSnakes returns the snakes still in play, ordered by id so that
// every rule evaluation consumes them in the same order.
func (f *Frame) AliveSnakes() []*Snake {
	snakes := []*Snake{}
	for _, s := range f.Snakes {
		if s.Alive() {
			snakes = append(snakes, s)
		}
	}
	sort.Slice(snakes, func(i, j int) bool { return snakes[i].ID < snakes[j].ID })
	return snakes
}

// DeadSnakes returns the eliminated snakes.
func (f *Frame) DeadSnakes() []*Snake {
	snakes := []*Snake{}
	for _, s := range f.Snakes {
		if !s.Alive() {
			snakes = append(snakes, s)
		}
	}
	return snakes
}

// FindSnake returns the snake with the given id, or nil.
func (f *Frame) FindSnake(id string) *Snake {
	for _, s := range f.Snakes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Clone returns a deep copy of the frame. The rules engine clones the
// previous frame and mutates the copy, leaving history intact.
func (f *Frame) Clone() *Frame {
	clone := &Frame{Turn: f.Turn}
	clone.Snakes = make([]*Snake, len(f.Snakes))
	for i, s := range f.Snakes {
		clone.Snakes[i] = s.Clone()
	}
	clone.Food = make([]*Point, len(f.Food))
	for i, p := range f.Food {
		clone.Food[i] = p.Clone()
	}
	return clone
}

// HasFood reports whether the given cell holds food.
func (f *Frame) HasFood(p *Point) bool {
	for _, food := range f.Food {
		if food.Equal(p) {
			return true
		}
	}
	return false
}
