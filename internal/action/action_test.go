package action

import (
	"testing"

	"github.com/ShenMian/sokoban-go/internal/grid"
)

func TestLURDRoundTrip(t *testing.T) {
	seq := New().
		Append(Action{grid.Right, Push}).
		Append(Action{grid.Up, Move}).
		Append(Action{grid.Left, Push}).
		Append(Action{grid.Down, Move})

	s := seq.LURD()
	if s != "RuLd" {
		t.Fatalf("LURD() = %q, want %q", s, "RuLd")
	}

	back, err := ParseLURD(s)
	if err != nil {
		t.Fatalf("ParseLURD(%q): %v", s, err)
	}
	if back.Moves() != seq.Moves() || back.Pushes() != seq.Pushes() {
		t.Fatalf("round-trip mismatch: got moves=%d pushes=%d, want moves=%d pushes=%d",
			back.Moves(), back.Pushes(), seq.Moves(), seq.Pushes())
	}
	for i := 0; i < seq.Moves(); i++ {
		if back.At(i) != seq.At(i) {
			t.Fatalf("action %d: got %v, want %v", i, back.At(i), seq.At(i))
		}
	}
}

func TestMovesAndPushesCounters(t *testing.T) {
	seq := New()
	if seq.Moves() != 0 || seq.Pushes() != 0 {
		t.Fatal("expected empty sequence to have zero counters")
	}
	seq = seq.Append(Action{grid.Up, Move})
	seq = seq.Append(Action{grid.Up, Push})
	seq = seq.Append(Action{grid.Down, Push})
	if seq.Moves() != 3 {
		t.Errorf("Moves() = %d, want 3", seq.Moves())
	}
	if seq.Pushes() != 2 {
		t.Errorf("Pushes() = %d, want 2", seq.Pushes())
	}
}

func TestAppendDoesNotMutateOriginal(t *testing.T) {
	base := New().Append(Action{grid.Up, Move})
	extended := base.Append(Action{grid.Down, Push})
	if base.Moves() != 1 {
		t.Fatalf("base mutated: Moves() = %d, want 1", base.Moves())
	}
	if extended.Moves() != 2 {
		t.Fatalf("extended.Moves() = %d, want 2", extended.Moves())
	}
}

func TestParseLURDInvalidCharacter(t *testing.T) {
	if _, err := ParseLURD("uRx"); err == nil {
		t.Fatal("expected error for invalid LURD character")
	}
}
