// Package board holds the data model for a match: the grid geometry,
// snakes, food and the per-turn frame snapshots the rules engine produces.
package board

// Point is a single cell on the grid.
type Point struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Equal checks if 2 points are the same x,y coordinate.
func (p *Point) Equal(other *Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Clone returns a copy of the point.
func (p *Point) Clone() *Point {
	return &Point{X: p.X, Y: p.Y}
}
