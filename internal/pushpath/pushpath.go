// Package pushpath implements the push-path BFS: given a box and a set
// of obstacle boxes, it finds every push-state (direction, resulting
// box cell) reachable by repeatedly pushing that one box, together with
// the path of cells it traveled. It backs both the move-count lower
// bound (package lowerbound) and the interactive "where can I push
// this box?" query.
package pushpath

import (
	"github.com/ShenMian/sokoban-go/internal/grid"
	"github.com/ShenMian/sokoban-go/internal/level"
	"github.com/ShenMian/sokoban-go/internal/pathfind"
)

// State pairs the most recent push direction with the cell the box
// landed on.
type State struct {
	Direction grid.Direction
	Box       grid.Vec2
}

// Paths maps each reachable push State to the ordered list of cells
// the box passed through to get there, starting at the original box
// position.
type Paths map[State][]grid.Vec2

func blockedFor(m *level.Map, boxes map[grid.Vec2]struct{}) pathfind.IsPassable {
	return func(pos grid.Vec2) bool {
		if m.At(pos).Intersects(level.Wall) {
			return false
		}
		_, boxed := boxes[pos]
		return !boxed
	}
}

// PushPaths performs a BFS in push-state space starting from box,
// treating initialBoxes (with box itself excluded from the obstacle
// set) as the obstacles the player must route around between pushes.
// Direction iteration is fixed (Up, Down, Left, Right) for
// determinism, and the trivial self-loop back to the starting cell is
// never included in the result.
func PushPaths(m *level.Map, box grid.Vec2, initialBoxes map[grid.Vec2]struct{}) Paths {
	type queueItem struct {
		state State
	}

	paths := make(Paths)
	visited := make(map[State]struct{})
	var queue []queueItem

	obstaclesWithout := func(without grid.Vec2) map[grid.Vec2]struct{} {
		set := make(map[grid.Vec2]struct{}, len(initialBoxes))
		for pos := range initialBoxes {
			if pos != without {
				set[pos] = struct{}{}
			}
		}
		return set
	}

	// Seed: for each direction the player could push from right now.
	// The box has not moved yet; when it is one of initialBoxes (as in
	// PushPathsFromCurrent) it remains an obstacle for this first
	// reachability check, otherwise only initialBoxes block the player.
	playerArea := pathfind.ReachableArea(m.PlayerPosition(), blockedFor(m, initialBoxes))
	for _, d := range grid.Directions {
		pusherPos := box.Sub(d.Vector())
		if m.At(pusherPos).Intersects(level.Wall) {
			continue
		}
		if _, ok := playerArea[pusherPos]; !ok {
			continue
		}
		state := State{Direction: d, Box: box}
		if _, ok := visited[state]; ok {
			continue
		}
		visited[state] = struct{}{}
		paths[state] = []grid.Vec2{box}
		queue = append(queue, queueItem{state})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		state := item.state

		boxes := obstaclesWithout(box)
		boxes[state.Box] = struct{}{}
		pusherPos := state.Box.Sub(state.Direction.Vector())
		playerArea := pathfind.ReachableArea(pusherPos, blockedFor(m, boxes))

		for _, d := range grid.Directions {
			newBoxPos := state.Box.Add(d.Vector())
			if m.At(newBoxPos).Intersects(level.Wall) {
				continue
			}
			if _, occupied := boxes[newBoxPos]; occupied {
				continue
			}
			newPusherPos := state.Box.Sub(d.Vector())
			if m.At(newPusherPos).Intersects(level.Wall) {
				continue
			}
			if _, ok := playerArea[newPusherPos]; !ok {
				continue
			}

			newState := State{Direction: d, Box: newBoxPos}
			if _, ok := visited[newState]; ok {
				continue
			}
			visited[newState] = struct{}{}

			prevPath := paths[state]
			newPath := make([]grid.Vec2, len(prevPath)+1)
			copy(newPath, prevPath)
			newPath[len(prevPath)] = newBoxPos
			paths[newState] = newPath

			queue = append(queue, queueItem{newState})
		}
	}

	// Self-loops back to the starting cell are never meaningful results.
	for state := range paths {
		if state.Box == box {
			delete(paths, state)
		}
	}
	return paths
}

// PushPathsFromCurrent is the interactive wrapper: push-paths for box
// using the Map's own current box placement as the obstacle set.
func PushPathsFromCurrent(m *level.Map, box grid.Vec2) Paths {
	return PushPaths(m, box, m.BoxPositions())
}
