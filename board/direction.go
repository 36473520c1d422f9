package board

import "fmt"

// Direction is one of the four moves a snake can make on a turn.
type Direction string

const (
	// DirectionUp moves the head towards y-1.
	DirectionUp Direction = "up"
	// DirectionDown moves the head towards y+1.
	DirectionDown Direction = "down"
	// DirectionLeft moves the head towards x-1.
	DirectionLeft Direction = "left"
	// DirectionRight moves the head towards x+1.
	DirectionRight Direction = "right"
)

// ParseDirection validates a direction received from a move provider.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return Direction(s), nil
	}
	return "", fmt.Errorf("board: invalid direction %q", s)
}

// Opposite returns the reverse direction, the one move that would run a
// snake into its own neck.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	}
	return ""
}

// Heading derives the direction travelled to get from neck to head.
// Returns false when the two points are stacked on the same cell, which
// happens on turn 0 before a snake has uncoiled.
func Heading(head, neck *Point) (Direction, bool) {
	switch {
	case head.X == neck.X && head.Y == neck.Y-1:
		return DirectionUp, true
	case head.X == neck.X && head.Y == neck.Y+1:
		return DirectionDown, true
	case head.Y == neck.Y && head.X == neck.X-1:
		return DirectionLeft, true
	case head.Y == neck.Y && head.X == neck.X+1:
		return DirectionRight, true
	}
	return "", false
}
