// Package pathfind provides the reachable-area flood fill, shortest-path
// finder and area-anchor helpers shared by the lower-bound table, the
// push-path helper and the search engine.
package pathfind

import (
	"container/heap"

	"github.com/ShenMian/sokoban-go/internal/grid"
)

// IsPassable reports whether pos may be entered.
type IsPassable func(pos grid.Vec2) bool

// IsBlocked reports whether pos may not be entered. It is the negation
// convention find_path uses, matching the A* helper in the original
// implementation.
type IsBlocked func(pos grid.Vec2) bool

// ReachableArea returns every cell reachable from start by four-
// connected floor steps without ever crossing a cell for which
// isPassable returns false. If start itself is not passable, it
// returns the empty set. The traversal order is deterministic
// (grid.Directions order) though the returned set has no order of its
// own.
func ReachableArea(start grid.Vec2, isPassable IsPassable) map[grid.Vec2]struct{} {
	area := make(map[grid.Vec2]struct{})
	if !isPassable(start) {
		return area
	}
	queue := []grid.Vec2{start}
	area[start] = struct{}{}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		for _, d := range grid.Directions {
			next := pos.Add(d.Vector())
			if _, seen := area[next]; seen {
				continue
			}
			if !isPassable(next) {
				continue
			}
			area[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return area
}

// AreaAnchor returns the lexicographically smallest cell in area
// (ordered by Y then X), used to canonicalize which reachable region a
// position belongs to. It panics on an empty area.
func AreaAnchor(area map[grid.Vec2]struct{}) grid.Vec2 {
	first := true
	var anchor grid.Vec2
	for pos := range area {
		if first || pos.Less(anchor) {
			anchor = pos
			first = false
		}
	}
	if first {
		panic("pathfind: AreaAnchor called with an empty area")
	}
	return anchor
}

// searchNode is a single open-set entry for FindPath's A* search.
type searchNode struct {
	position grid.Vec2
	priority int // g + heuristic
	index    int
}

type openSet []*searchNode

func (s openSet) Len() int { return len(s) }
func (s openSet) Less(i, j int) bool {
	return s[i].priority < s[j].priority
}
func (s openSet) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].index, s[j].index = i, j
}
func (s *openSet) Push(x interface{}) {
	n := x.(*searchNode)
	n.index = len(*s)
	*s = append(*s, n)
}
func (s *openSet) Pop() interface{} {
	old := *s
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*s = old[:n-1]
	return item
}

// FindPath finds the shortest four-connected path from "from" to "to",
// treating any cell for which isBlocked returns true as impassable.
// Neighbors are visited in the order Up, Down, Left, Right, and a cell
// keeps the first parent that reaches it at its lowest cost. The open
// set orders nodes by priority only: among nodes of equal priority,
// the heap layout decides which is expanded first, not the direction
// order. The result is the same for the same input. It returns the
// inclusive path [from, ..., to], or false if no path exists.
func FindPath(from, to grid.Vec2, isBlocked IsBlocked) ([]grid.Vec2, bool) {
	if from == to {
		return []grid.Vec2{from}, true
	}

	open := make(openSet, 0, 64)
	heap.Init(&open)
	heap.Push(&open, &searchNode{position: from, priority: grid.ManhattanDistance(from, to)})

	cost := map[grid.Vec2]int{from: 0}
	cameFrom := map[grid.Vec2]grid.Vec2{}
	closed := map[grid.Vec2]struct{}{}

	for open.Len() > 0 {
		current := heap.Pop(&open).(*searchNode)
		pos := current.position
		if _, done := closed[pos]; done {
			continue
		}
		closed[pos] = struct{}{}

		if pos == to {
			return reconstruct(cameFrom, from, to), true
		}

		for _, d := range grid.Directions {
			next := pos.Add(d.Vector())
			if isBlocked(next) {
				continue
			}
			newCost := cost[pos] + 1
			if existing, ok := cost[next]; ok && existing <= newCost {
				continue
			}
			cost[next] = newCost
			cameFrom[next] = pos
			heap.Push(&open, &searchNode{position: next, priority: newCost + grid.ManhattanDistance(next, to)})
		}
	}
	return nil, false
}

func reconstruct(cameFrom map[grid.Vec2]grid.Vec2, from, to grid.Vec2) []grid.Vec2 {
	path := []grid.Vec2{to}
	current := to
	for current != from {
		current = cameFrom[current]
		path = append(path, current)
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
