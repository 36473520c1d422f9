package board

// Snake is one agent's body and health on a given frame. Body runs from
// head (index 0) to tail and, while the snake is alive, is a simple path
// of adjacent cells.
type Snake struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	URL    string   `json:"url,omitempty"`
	Health int32    `json:"health"`
	Body   []*Point `json:"body"`
	Death  *Death   `json:"death,omitempty"`
}

// Death records why and when a snake was eliminated.
type Death struct {
	Cause string `json:"cause"`
	Turn  int32  `json:"turn"`
}

// Alive reports whether the snake is still in play.
func (s *Snake) Alive() bool {
	return s.Death == nil
}

// Head returns the first point in the body.
func (s *Snake) Head() *Point {
	if len(s.Body) == 0 {
		return nil
	}
	return s.Body[0]
}

// Tail returns the last point in the body.
func (s *Snake) Tail() *Point {
	if len(s.Body) == 0 {
		return nil
	}
	return s.Body[len(s.Body)-1]
}

// Length returns the number of body segments.
func (s *Snake) Length() int {
	return len(s.Body)
}

// Heading returns the direction the snake is currently travelling, based
// on its head and neck. Falls back to up when the snake has not uncoiled
// from its starting stack yet.
func (s *Snake) Heading(g Grid) Direction {
	if len(s.Body) < 2 {
		return DirectionUp
	}
	d, ok := g.Heading(s.Head(), s.Body[1])
	if !ok {
		return DirectionUp
	}
	return d
}

// PushHead prepends a new head segment. The tail is not removed here;
// that is decided in the eating step once food consumption is known.
func (s *Snake) PushHead(p *Point) {
	s.Body = append([]*Point{p}, s.Body...)
}

// PopTail removes the tail segment.
func (s *Snake) PopTail() {
	if len(s.Body) == 0 {
		return
	}
	s.Body = s.Body[:len(s.Body)-1]
}

// Clone returns a deep copy of the snake.
func (s *Snake) Clone() *Snake {
	clone := &Snake{
		ID:     s.ID,
		Name:   s.Name,
		URL:    s.URL,
		Health: s.Health,
	}
	if s.Death != nil {
		clone.Death = &Death{Cause: s.Death.Cause, Turn: s.Death.Turn}
	}
	clone.Body = make([]*Point, len(s.Body))
	for i, p := range s.Body {
		clone.Body[i] = p.Clone()
	}
	return clone
}
