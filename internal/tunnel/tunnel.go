// Package tunnel detects straight one-wide corridors in which a push
// may be safely chained into several consecutive pushes without ever
// losing move-count optimality. The search engine uses the resulting
// table to skip directly past dead interior pushes instead of
// expanding them one state at a time.
package tunnel

import (
	"github.com/ShenMian/sokoban-go/internal/grid"
	"github.com/ShenMian/sokoban-go/internal/level"
	"github.com/ShenMian/sokoban-go/internal/lowerbound"
)

// Pair identifies a tunnel entry: whenever the player stands at Player
// and is about to push in Direction, the push may keep chaining in
// that same direction.
type Pair struct {
	Player    grid.Vec2
	Direction grid.Direction
}

// Table is the set of known tunnel pairs.
type Table map[Pair]struct{}

// Has reports whether (player, d) is a tunnel pair.
func (t Table) Has(player grid.Vec2, d grid.Direction) bool {
	_, ok := t[Pair{Player: player, Direction: d}]
	return ok
}

// Compute scans every interior Floor cell of m against all four
// rotations and returns the resulting tunnel table. bounds supplies
// the "valid box destination" test for the final geometry check.
func Compute(m *level.Map, bounds lowerbound.Table) Table {
	table := make(Table)
	width, height := m.Dimensions()
	isWall := func(pos grid.Vec2) bool {
		return m.At(pos).Intersects(level.Wall)
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			c := grid.Vec2{X: x, Y: y}
			tile := m.At(c)
			if !tile.Intersects(level.Floor) || tile.Intersects(level.Goal) {
				continue
			}
			for _, u := range grid.Directions {
				d := u.Opposite()
				l, r := perpendiculars(u)

				corridorCell := c.Add(d.Vector())
				if !isWall(corridorCell.Add(l.Vector())) || !isWall(corridorCell.Add(r.Vector())) {
					continue
				}

				if !sideWallsMatch(isWall, c, l, r) {
					continue
				}

				up := c.Add(u.Vector())
				if _, ok := bounds[up]; !ok {
					continue
				}

				table[Pair{Player: corridorCell, Direction: u}] = struct{}{}
			}
		}
	}
	return table
}

// perpendiculars returns the two directions at right angles to u, in a
// fixed order (Left/Right when u is vertical, Up/Down when u is
// horizontal).
func perpendiculars(u grid.Direction) (grid.Direction, grid.Direction) {
	switch u {
	case grid.Up, grid.Down:
		return grid.Left, grid.Right
	default:
		return grid.Up, grid.Down
	}
}

// sideWallsMatch reports whether the walls immediately beside c (along
// the perpendicular axis) follow one of the three tunnel-admitting
// patterns: both walled, or walled on exactly one side.
func sideWallsMatch(isWall func(grid.Vec2) bool, c grid.Vec2, l, r grid.Direction) bool {
	leftWall := isWall(c.Add(l.Vector()))
	rightWall := isWall(c.Add(r.Vector()))
	return leftWall || rightWall
}
