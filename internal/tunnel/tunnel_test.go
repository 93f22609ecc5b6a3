package tunnel

import (
	"testing"

	"github.com/ShenMian/sokoban-go/internal/grid"
	"github.com/ShenMian/sokoban-go/internal/lowerbound"
	"github.com/ShenMian/sokoban-go/internal/xsb"
)

func TestStraightCorridorIsATunnel(t *testing.T) {
	// A one-wide horizontal corridor: pushing right from any interior
	// cell should register as a tunnel pair in the Right direction.
	m, err := xsb.ParseString("#######\n#@$  .#\n#######")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	bounds := lowerbound.Compute(m, lowerbound.ManhattanDistance)
	table := Compute(m, bounds)

	// c = (3,1), d = Left (opposite of Right), corridorCell = c+d = (2,1).
	if !table.Has(grid.Vec2{X: 2, Y: 1}, grid.Right) {
		t.Errorf("expected (2,1)->Right to be a tunnel pair")
	}
}

func TestOpenRoomHasNoTunnels(t *testing.T) {
	m, err := xsb.ParseString("######\n#@   #\n#    #\n######")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	bounds := lowerbound.Compute(m, lowerbound.ManhattanDistance)
	table := Compute(m, bounds)
	if len(table) != 0 {
		t.Errorf("expected no tunnels in a 2-wide open room, got %d", len(table))
	}
}

func TestGoalCellIsNeverATunnelBoxPosition(t *testing.T) {
	m, err := xsb.ParseString("#######\n#@$  .#\n#######")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	bounds := lowerbound.Compute(m, lowerbound.ManhattanDistance)
	table := Compute(m, bounds)
	// The pair for c = (4,1), corridorCell = (3,1) has c+u (u=Right) =
	// (5,1) = goal and is still valid (the goal cell is in the
	// lower-bound table). Only c itself being a goal is excluded: for
	// c = (5,1), corridorCell = (4,1), there is no pair.
	if table.Has(grid.Vec2{X: 4, Y: 1}, grid.Right) {
		t.Errorf("goal cell c must never itself be treated as a tunnel box position")
	}
}
