// Package board replays an Actions sequence against a level.Map,
// giving the interactive host (and this repo's tests) a way to verify
// that a solver-produced solution actually solves the map it was
// computed for.
package board

import (
	"fmt"

	"github.com/ShenMian/sokoban-go/internal/action"
	"github.com/ShenMian/sokoban-go/internal/level"
)

// Apply replays acts against m in place, one step at a time. A Move
// requires the destination cell to be free of walls and boxes; a Push
// requires the cell beyond the box to be free of walls and boxes in
// addition. It returns an error identifying the first illegal step,
// leaving m partially applied.
func Apply(m *level.Map, acts action.Actions) error {
	for i, act := range acts.All() {
		if err := applyOne(m, act); err != nil {
			return fmt.Errorf("board: action %d: %w", i, err)
		}
	}
	return nil
}

func applyOne(m *level.Map, act action.Action) error {
	player := m.PlayerPosition()
	dest := player.Add(act.Direction.Vector())
	if m.At(dest).Intersects(level.Wall) {
		return fmt.Errorf("destination %v is a wall", dest)
	}

	boxes := m.BoxPositions()
	if _, boxed := boxes[dest]; boxed {
		if !act.IsPush() {
			return fmt.Errorf("cell %v holds a box but action is a move", dest)
		}
		beyond := dest.Add(act.Direction.Vector())
		if m.At(beyond).Intersects(level.Wall) {
			return fmt.Errorf("push destination %v is a wall", beyond)
		}
		if _, boxed := boxes[beyond]; boxed {
			return fmt.Errorf("push destination %v already holds a box", beyond)
		}
		m.SetBoxPosition(dest, beyond)
	} else if act.IsPush() {
		return fmt.Errorf("action is a push but %v holds no box", dest)
	}

	m.SetPlayerPosition(dest)
	return nil
}

// Replay is a convenience wrapper: it clones m, applies acts, and
// reports whether the result is solved together with any replay error.
func Replay(m *level.Map, acts action.Actions) (solved bool, err error) {
	clone := m.Clone()
	if err := Apply(clone, acts); err != nil {
		return false, err
	}
	return clone.IsSolved(), nil
}
