package board

// Grid is the fixed coordinate space for a match. It is pure geometry:
// nothing here knows about snakes or food.
type Grid struct {
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
	Wrap   bool  `json:"wrap"`
}

// InBounds reports whether the point lies on the grid.
func (g Grid) InBounds(p *Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Step returns the cell adjacent to p in the given direction. With Wrap
// enabled coordinates wrap modulo the grid dimensions; otherwise nil is
// returned for a step off the board.
func (g Grid) Step(p *Point, d Direction) *Point {
	next := p.Clone()
	switch d {
	case DirectionUp:
		next.Y--
	case DirectionDown:
		next.Y++
	case DirectionLeft:
		next.X--
	case DirectionRight:
		next.X++
	default:
		return nil
	}
	if g.InBounds(next) {
		return next
	}
	if !g.Wrap {
		return nil
	}
	next.X = (next.X + g.Width) % g.Width
	next.Y = (next.Y + g.Height) % g.Height
	return next
}

// Heading derives the direction travelled from neck to head, recognizing
// wrapped adjacency across the board edges. Returns false when the points
// are stacked or not adjacent.
func (g Grid) Heading(head, neck *Point) (Direction, bool) {
	if d, ok := Heading(head, neck); ok {
		return d, true
	}
	if !g.Wrap {
		return "", false
	}
	for _, d := range []Direction{DirectionUp, DirectionDown, DirectionLeft, DirectionRight} {
		if next := g.Step(neck, d); next != nil && next.Equal(head) {
			return d, true
		}
	}
	return "", false
}
