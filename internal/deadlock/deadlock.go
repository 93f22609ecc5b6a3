// Package deadlock implements the freeze-deadlock oracle: a box that
// can no longer move along either axis, directly or through a chain of
// equally-stuck neighboring boxes, can never reach a goal and the
// search state containing it may be discarded outright.
package deadlock

import (
	"github.com/ShenMian/sokoban-go/internal/grid"
	"github.com/ShenMian/sokoban-go/internal/level"
)

// axes pairs each of the two movement axes with its two directions.
var axes = [2][2]grid.Direction{
	{grid.Up, grid.Down},
	{grid.Left, grid.Right},
}

// IsFrozen reports whether the box at b is freeze-deadlocked given
// boxes, the full set of box positions (b included). Boxes already
// resting on a Goal are exempt by convention of the caller: this
// oracle does not consult goal placement at all, so callers must skip
// it for boxes already on a goal.
func IsFrozen(m *level.Map, boxes map[grid.Vec2]struct{}, b grid.Vec2) bool {
	visited := make(map[grid.Vec2]bool)
	return isFrozen(m, boxes, b, visited)
}

func isFrozen(m *level.Map, boxes map[grid.Vec2]struct{}, b grid.Vec2, visited map[grid.Vec2]bool) bool {
	if visited[b] {
		// Assume frozen for cycle-breaking purposes; the axis that
		// depends on this box will be re-derived by the caller that
		// started the recursion, which does not rely on this value.
		return true
	}
	visited[b] = true

	for _, axis := range axes {
		if axisMovable(m, boxes, b, axis, visited) {
			return false
		}
	}
	return true
}

// axisMovable reports whether b can move along axis, meaning neither
// of the two neighboring cells on that axis is a wall or a frozen box.
func axisMovable(m *level.Map, boxes map[grid.Vec2]struct{}, b grid.Vec2, axis [2]grid.Direction, visited map[grid.Vec2]bool) bool {
	for _, d := range axis {
		if m.At(b.Add(d.Vector())).Intersects(level.Wall) {
			return false
		}
	}
	for _, d := range axis {
		neighbor := b.Add(d.Vector())
		if _, occupied := boxes[neighbor]; occupied && isFrozen(m, boxes, neighbor, visited) {
			return false
		}
	}
	return true
}
