// Package level implements the Map model: a rectangular grid of Tile
// values together with the player/box/goal accessors the rest of the
// solver is built on.
package level

import (
	"hash/fnv"

	"github.com/ShenMian/sokoban-go/internal/grid"
)

// Tile is a bitset over the five possible properties of a cell. The
// empty bitset means the cell is outside the playable region.
type Tile uint8

const (
	Floor Tile = 1 << iota
	Wall
	Box
	Goal
	Player
)

// Intersects reports whether t has any bit in mask set.
func (t Tile) Intersects(mask Tile) bool {
	return t&mask != 0
}

// Map is a rectangular grid of Tile, with exactly one player cell and
// an equal number of Box and Goal cells.
type Map struct {
	width, height int
	cells         []Tile
}

// New returns a width×height Map with every cell empty (outside the
// playable region). Callers build up a Map cell by cell and should
// validate the invariants in package xsb once done; New itself does
// not validate.
func New(width, height int) *Map {
	return &Map{
		width:  width,
		height: height,
		cells:  make([]Tile, width*height),
	}
}

// Dimensions returns the Map's width and height.
func (m *Map) Dimensions() (width, height int) {
	return m.width, m.height
}

// InBounds reports whether pos lies within the Map's declared
// dimensions. It says nothing about whether the cell is playable.
func (m *Map) InBounds(pos grid.Vec2) bool {
	return pos.X >= 0 && pos.X < m.width && pos.Y >= 0 && pos.Y < m.height
}

func (m *Map) index(pos grid.Vec2) int {
	return pos.Y*m.width + pos.X
}

// At returns the Tile at pos. Out-of-bounds positions return the empty
// Tile; it is the caller's responsibility to treat in-bounds Wall
// cells as blocking.
func (m *Map) At(pos grid.Vec2) Tile {
	if !m.InBounds(pos) {
		return 0
	}
	return m.cells[m.index(pos)]
}

// Set overwrites the Tile at pos. pos must be in bounds.
func (m *Map) Set(pos grid.Vec2, t Tile) {
	m.cells[m.index(pos)] = t
}

// PlayerPosition returns the single cell carrying the Player bit. It
// panics if the Map has no player, which is a construction bug: valid
// Maps always have exactly one.
func (m *Map) PlayerPosition() grid.Vec2 {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			pos := grid.Vec2{X: x, Y: y}
			if m.At(pos).Intersects(Player) {
				return pos
			}
		}
	}
	panic("level: map has no player position")
}

// BoxPositions returns the set of cells carrying the Box bit.
func (m *Map) BoxPositions() map[grid.Vec2]struct{} {
	return m.positionsWith(Box)
}

// GoalPositions returns the set of cells carrying the Goal bit.
func (m *Map) GoalPositions() map[grid.Vec2]struct{} {
	return m.positionsWith(Goal)
}

func (m *Map) positionsWith(mask Tile) map[grid.Vec2]struct{} {
	set := make(map[grid.Vec2]struct{})
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			pos := grid.Vec2{X: x, Y: y}
			if m.At(pos).Intersects(mask) {
				set[pos] = struct{}{}
			}
		}
	}
	return set
}

// SetPlayerPosition moves the Player bit from its current cell to to.
func (m *Map) SetPlayerPosition(to grid.Vec2) {
	from := m.PlayerPosition()
	m.cells[m.index(from)] &^= Player
	m.cells[m.index(to)] |= Player
}

// SetBoxPosition moves a Box bit from from to to.
func (m *Map) SetBoxPosition(from, to grid.Vec2) {
	m.cells[m.index(from)] &^= Box
	m.cells[m.index(to)] |= Box
}

// IsSolved reports whether every box sits on a goal.
func (m *Map) IsSolved() bool {
	boxes, goals := m.BoxPositions(), m.GoalPositions()
	if len(boxes) != len(goals) {
		return false
	}
	for pos := range boxes {
		if _, ok := goals[pos]; !ok {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	cells := make([]Tile, len(m.cells))
	copy(cells, m.cells)
	return &Map{width: m.width, height: m.height, cells: cells}
}

// Normalize strips the player position, returning a Map whose hash
// depends only on the static layout and the box/goal placement. Two
// Maps describing the same puzzle from different player positions
// normalize to Maps with identical contents.
func (m *Map) Normalize() *Map {
	n := m.Clone()
	for i, t := range n.cells {
		n.cells[i] = t &^ Player
	}
	return n
}

// NormalizedHash returns a 64-bit hash stable across two Maps
// describing the same puzzle regardless of the player's position.
// Collisions are possible; callers that need certainty should compare
// normalized Maps directly.
func (m *Map) NormalizedHash() uint64 {
	n := m.Normalize()
	h := fnv.New64a()
	buf := make([]byte, 0, len(n.cells)+8)
	buf = append(buf, byte(n.width), byte(n.width>>8), byte(n.width>>16), byte(n.width>>24))
	buf = append(buf, byte(n.height), byte(n.height>>8), byte(n.height>>16), byte(n.height>>24))
	for _, t := range n.cells {
		buf = append(buf, byte(t))
	}
	h.Write(buf)
	return h.Sum64()
}
