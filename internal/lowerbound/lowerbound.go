// Package lowerbound computes, for a given Map and method, a per-cell
// admissible estimate of the remaining cost to push a box standing on
// that cell to any goal. A cell absent from the table can never host a
// box: either it is unreachable as a box, or it is provably dead.
package lowerbound

import (
	"github.com/ShenMian/sokoban-go/internal/grid"
	"github.com/ShenMian/sokoban-go/internal/level"
	"github.com/ShenMian/sokoban-go/internal/pushpath"
)

// Method selects which of the three lower-bound estimators to compute.
type Method int

const (
	// ManhattanDistance maps every floor cell to its minimum Manhattan
	// distance to any goal. Cheapest to compute, weakest bound.
	ManhattanDistance Method = iota
	// MinimumMove maps every floor cell to the fewest pushes (not
	// moves, despite the name inherited from the original
	// implementation) required to walk a box from that cell to a
	// goal, via the push-path helper.
	MinimumMove
	// MinimumPush maps every floor cell to the fewest pushes required
	// to pull a box from a goal back to that cell, via a reverse BFS
	// seeded at every goal simultaneously.
	MinimumPush
)

// Table maps a cell to its lower-bound value. A missing key means no
// box may ever legally occupy that cell.
type Table map[grid.Vec2]int

// Compute builds the lower-bound table for m using method. Goal cells
// always map to 0, even when the player cannot presently reach them,
// since the initial state may already place a box there.
func Compute(m *level.Map, method Method) Table {
	switch method {
	case MinimumPush:
		return computeMinimumPush(m)
	case MinimumMove:
		return computeMinimumMove(m)
	default:
		return computeManhattan(m)
	}
}

func floorCells(m *level.Map) []grid.Vec2 {
	width, height := m.Dimensions()
	var cells []grid.Vec2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := grid.Vec2{X: x, Y: y}
			if m.At(pos).Intersects(level.Floor) {
				cells = append(cells, pos)
			}
		}
	}
	return cells
}

func computeManhattan(m *level.Map) Table {
	goals := m.GoalPositions()
	table := make(Table)
	for _, pos := range floorCells(m) {
		if _, isGoal := goals[pos]; isGoal {
			table[pos] = 0
			continue
		}
		best := -1
		for goal := range goals {
			d := grid.ManhattanDistance(pos, goal)
			if best == -1 || d < best {
				best = d
			}
		}
		if best >= 0 {
			table[pos] = best
		}
	}
	return table
}

func computeMinimumMove(m *level.Map) Table {
	goals := m.GoalPositions()
	table := make(Table)
	for _, pos := range floorCells(m) {
		if _, isGoal := goals[pos]; isGoal {
			table[pos] = 0
			continue
		}
		paths := pushpath.PushPaths(m, pos, map[grid.Vec2]struct{}{})
		best := -1
		for state, path := range paths {
			if _, isGoal := goals[state.Box]; !isGoal {
				continue
			}
			pushes := len(path) - 1
			if best == -1 || pushes < best {
				best = pushes
			}
		}
		if best >= 0 {
			table[pos] = best
		}
	}
	return table
}

// computeMinimumPush runs a reverse ("pull") BFS outward from every
// goal simultaneously. cur.pos is known to need cur.level pushes. A
// predecessor cell p pushes its box onto cur.pos in direction d, so
// p = cur.pos - d; that push also requires the cell behind p (p - d,
// where the player stood beforehand) to be free of walls.
func computeMinimumPush(m *level.Map) Table {
	goals := m.GoalPositions()
	table := make(Table)
	type queued struct {
		pos   grid.Vec2
		level int
	}
	var queue []queued
	for goal := range goals {
		table[goal] = 0
		queue = append(queue, queued{goal, 0})
	}

	isFloor := func(pos grid.Vec2) bool {
		return m.At(pos).Intersects(level.Floor)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range grid.Directions {
			predecessor := cur.pos.Sub(d.Vector())
			pusherCell := predecessor.Sub(d.Vector())
			if !isFloor(predecessor) || !isFloor(pusherCell) {
				continue
			}
			if _, seen := table[predecessor]; seen {
				continue
			}
			table[predecessor] = cur.level + 1
			queue = append(queue, queued{predecessor, cur.level + 1})
		}
	}
	return table
}
