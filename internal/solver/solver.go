// Package solver implements the priority-queue best-first search over
// push-graph states. It is the solver's centerpiece: everything in
// grid, level, pathfind, lowerbound, tunnel, deadlock and pushpath
// exists to feed this one expansion loop.
package solver

import (
	"container/heap"
	"errors"
	"fmt"
	"time"

	"github.com/ShenMian/sokoban-go/internal/action"
	"github.com/ShenMian/sokoban-go/internal/deadlock"
	"github.com/ShenMian/sokoban-go/internal/grid"
	"github.com/ShenMian/sokoban-go/internal/level"
	"github.com/ShenMian/sokoban-go/internal/lowerbound"
	"github.com/ShenMian/sokoban-go/internal/pathfind"
	"github.com/ShenMian/sokoban-go/internal/tunnel"
)

// weight bounds every term of the strategy keys; moves, pushes and
// lower-bound values must all stay below it.
const weight = 10_000

// Debug gates the moves/pushes/lowerBound < weight assertions checked
// at every SearchState construction. Off by default since the checks
// run on every expansion; enable it while chasing a key-overflow bug.
var Debug = false

// assertBound panics if value does not satisfy the weight invariant
// spec.md requires of moves, pushes and lower-bound counts. Only runs
// when Debug is set.
func assertBound(name string, value int) {
	if !Debug {
		return
	}
	if value < 0 || value >= weight {
		panic(fmt.Sprintf("solver: %s = %d violates 0 <= %s < %d", name, value, name, weight))
	}
}

// Strategy selects the objective function used to order the priority
// queue. All four keys are computed from nonnegative integers so a
// smaller key always means a higher-priority state.
type Strategy int

const (
	// Fast favors reaching any solution quickly over move or push
	// optimality.
	Fast Strategy = iota
	// Mixed is a light blend of the remaining lower bound and the
	// moves already made.
	Mixed
	// OptimalMovePush finds a solution with the fewest moves, using
	// push count only to break ties.
	OptimalMovePush
	// OptimalPushMove finds a solution with the fewest pushes, using
	// move count only to break ties.
	OptimalPushMove
)

func (s Strategy) key(lowerBound, moves, pushes int) int {
	switch s {
	case Mixed:
		return lowerBound + moves
	case OptimalMovePush:
		return moves*weight*weight + pushes*weight + lowerBound
	case OptimalPushMove:
		return pushes*weight*weight + moves*weight + lowerBound
	default:
		return lowerBound*weight + moves
	}
}

// Sentinel errors returned by Search.
var (
	// ErrTimeout means the budget elapsed before a solution was found.
	// The Solver's internal state survives; call Search again with a
	// fresh budget to continue.
	ErrTimeout = errors.New("solver: search timed out")
	// ErrNoSolution means the frontier was exhausted with no goal
	// state found. Terminal for this Solver.
	ErrNoSolution = errors.New("solver: no solution exists")
)

// SearchState is one node of the push-graph: a player position, a box
// configuration, and the action sequence that reached it from the
// root. Equality and the visited-set hash depend only on the
// normalized player position and the box set.
type SearchState struct {
	player  grid.Vec2
	boxes   map[grid.Vec2]struct{}
	actions action.Actions

	lowerBound int
	key        int
	index      int // heap bookkeeping
}

// PlayerPosition returns the state's player cell.
func (s *SearchState) PlayerPosition() grid.Vec2 { return s.player }

// BoxPositions returns the state's box set. Callers must not mutate it.
func (s *SearchState) BoxPositions() map[grid.Vec2]struct{} { return s.boxes }

// Actions returns the action sequence that produced this state from
// the root.
func (s *SearchState) Actions() action.Actions { return s.actions }

// LowerBound returns the cached sum of per-box lower bounds.
func (s *SearchState) LowerBound() int { return s.lowerBound }

func cloneBoxes(boxes map[grid.Vec2]struct{}) map[grid.Vec2]struct{} {
	clone := make(map[grid.Vec2]struct{}, len(boxes))
	for pos := range boxes {
		clone[pos] = struct{}{}
	}
	return clone
}

func sumLowerBound(bounds lowerbound.Table, boxes map[grid.Vec2]struct{}) int {
	total := 0
	for box := range boxes {
		total += bounds[box]
	}
	return total
}

// Solver owns one immutable Map and the frontier/visited state of an
// in-progress search. It is not safe for concurrent use from more than
// one goroutine without external synchronization.
type Solver struct {
	m      *level.Map
	method lowerbound.Method
	strat  Strategy

	bounds  lowerbound.Table
	tunnels tunnel.Table

	frontier priorityQueue
	visited  map[uint64]struct{}
	best     *SearchState

	done bool
}

// New builds a Solver for m using strategy and lowerBoundMethod,
// eagerly computing the lower-bound and tunnel tables so they are
// immutable for the rest of the Solver's life.
func New(m *level.Map, strategy Strategy, lowerBoundMethod lowerbound.Method) *Solver {
	bounds := lowerbound.Compute(m, lowerBoundMethod)
	tunnels := tunnel.Compute(m, bounds)

	s := &Solver{
		m:       m,
		method:  lowerBoundMethod,
		strat:   strategy,
		bounds:  bounds,
		tunnels: tunnels,
		visited: make(map[uint64]struct{}),
	}

	root := &SearchState{
		player:  m.PlayerPosition(),
		boxes:   m.BoxPositions(),
		actions: action.New(),
	}
	root.lowerBound = sumLowerBound(bounds, root.boxes)
	assertBound("moves", root.actions.Moves())
	assertBound("pushes", root.actions.Pushes())
	assertBound("lowerBound", root.lowerBound)
	root.key = strategy.key(root.lowerBound, root.actions.Moves(), root.actions.Pushes())

	heap.Init(&s.frontier)
	heap.Push(&s.frontier, root)
	s.visited[s.normalizedHash(root)] = struct{}{}
	s.best = root

	return s
}

// LowerBounds exposes the per-cell lower-bound table, e.g. for
// visualization.
func (s *Solver) LowerBounds() lowerbound.Table { return s.bounds }

// Tunnels exposes the tunnel table.
func (s *Solver) Tunnels() tunnel.Table { return s.tunnels }

// BestState returns the current frontier minimum, or nil if the
// frontier is empty.
func (s *Solver) BestState() *SearchState {
	if s.frontier.Len() == 0 {
		return nil
	}
	return s.frontier[0]
}

// isSolved reports whether every box in boxes sits on a goal.
func (s *Solver) isSolved(boxes map[grid.Vec2]struct{}) bool {
	for box := range boxes {
		if v, ok := s.bounds[box]; !ok || v != 0 {
			return false
		}
	}
	return true
}

// normalizedHash collapses player-equivalent states: two states with
// the same box set and player positions in the same reachable
// component hash identically, by rewriting the player position to the
// canonical anchor of its reachable area first.
func (s *Solver) normalizedHash(state *SearchState) uint64 {
	area := pathfind.ReachableArea(state.player, s.isPassable(state.boxes))
	anchor := state.player
	if len(area) > 0 {
		anchor = pathfind.AreaAnchor(area)
	}

	h := offsetBasis
	h = hashVec(h, anchor)
	// Box positions are hashed order-independently by summing each
	// box's individually-hashed contribution.
	var boxSum uint64
	for box := range state.boxes {
		boxSum += hashVec(offsetBasis, box)
	}
	h = (h ^ boxSum) * prime
	return h
}

const (
	offsetBasis uint64 = 1469598103934665603
	prime       uint64 = 1099511628211
)

func hashVec(h uint64, v grid.Vec2) uint64 {
	h = (h ^ uint64(uint32(v.X))) * prime
	h = (h ^ uint64(uint32(v.Y))) * prime
	return h
}

func (s *Solver) isPassable(boxes map[grid.Vec2]struct{}) pathfind.IsPassable {
	return func(pos grid.Vec2) bool {
		if s.m.At(pos).Intersects(level.Wall) {
			return false
		}
		_, boxed := boxes[pos]
		return !boxed
	}
}

// Search runs the time-sliced best-first search loop. It checks
// elapsed wall-clock time before every pop; when budget is exceeded it
// returns ErrTimeout with the frontier and visited set left intact for
// a later Search call to resume from. A Solver that previously
// returned ErrNoSolution will do so again immediately: the frontier is
// permanently empty.
func (s *Solver) Search(budget time.Duration) (action.Actions, error) {
	if s.done {
		return action.Actions{}, ErrNoSolution
	}

	start := time.Now()
	for s.frontier.Len() > 0 {
		if time.Since(start) > budget {
			return action.Actions{}, ErrTimeout
		}

		current := heap.Pop(&s.frontier).(*SearchState)
		s.best = current

		if s.isSolved(current.boxes) {
			return current.actions, nil
		}

		for _, successor := range s.expand(current) {
			h := s.normalizedHash(successor)
			if _, seen := s.visited[h]; seen {
				continue
			}
			s.visited[h] = struct{}{}
			heap.Push(&s.frontier, successor)
		}
	}

	s.done = true
	if s.frontier.Len() > 0 {
		s.best = s.frontier[0]
	}
	return action.Actions{}, ErrNoSolution
}

// expand computes every accepted successor of state, matching the
// push-graph expansion rule: for each box and each push direction,
// reject illegal destinations, prepend the walk to the pushing
// position, chain through any tunnel, and discard freeze-deadlocked
// results.
func (s *Solver) expand(state *SearchState) []*SearchState {
	playerArea := pathfind.ReachableArea(state.player, s.isPassable(state.boxes))

	var successors []*SearchState
	for box := range state.boxes {
		for _, d := range grid.Directions {
			newBox := box.Add(d.Vector())
			if _, ok := s.bounds[newBox]; !ok {
				continue
			}
			if s.m.At(newBox).Intersects(level.Wall) {
				continue
			}
			if _, occupied := state.boxes[newBox]; occupied {
				continue
			}

			pusher := box.Sub(d.Vector())
			if s.m.At(pusher).Intersects(level.Wall) {
				continue
			}
			if _, occupied := state.boxes[pusher]; occupied {
				continue
			}
			if _, reachable := playerArea[pusher]; !reachable {
				continue
			}

			walk, ok := pathfind.FindPath(state.player, pusher, s.isBlocked(state.boxes))
			if !ok {
				continue
			}

			newActions := state.actions
			for i := 1; i < len(walk); i++ {
				step, _ := grid.FromVector(walk[i].Sub(walk[i-1]))
				newActions = newActions.Append(action.Action{Direction: step, Kind: action.Move})
			}
			newActions = newActions.Append(action.Action{Direction: d, Kind: action.Push})

			newBoxes := cloneBoxes(state.boxes)
			delete(newBoxes, box)
			newBoxes[newBox] = struct{}{}

			// Tunnel chaining: keep pushing the same box the same
			// direction as long as the corridor demands it.
			for s.tunnels.Has(newBox.Sub(d.Vector()), d) {
				next := newBox.Add(d.Vector())
				if s.m.At(next).Intersects(level.Wall) {
					break
				}
				if _, occupied := newBoxes[next]; occupied {
					break
				}
				if _, ok := s.bounds[next]; !ok {
					break
				}
				delete(newBoxes, newBox)
				newBoxes[next] = struct{}{}
				newBox = next
				newActions = newActions.Append(action.Action{Direction: d, Kind: action.Push})
			}

			if s.bounds[newBox] != 0 && deadlock.IsFrozen(s.m, newBoxes, newBox) {
				continue
			}

			successor := &SearchState{
				player:  newBox.Sub(d.Vector()),
				boxes:   newBoxes,
				actions: newActions,
			}
			successor.lowerBound = sumLowerBound(s.bounds, newBoxes)
			assertBound("moves", successor.actions.Moves())
			assertBound("pushes", successor.actions.Pushes())
			assertBound("lowerBound", successor.lowerBound)
			successor.key = s.strat.key(successor.lowerBound, successor.actions.Moves(), successor.actions.Pushes())
			successors = append(successors, successor)
		}
	}
	return successors
}

func (s *Solver) isBlocked(boxes map[grid.Vec2]struct{}) pathfind.IsBlocked {
	return func(pos grid.Vec2) bool {
		return !s.isPassable(boxes)(pos)
	}
}
