package solver

import (
	"errors"
	"testing"
	"time"

	"github.com/ShenMian/sokoban-go/internal/board"
	"github.com/ShenMian/sokoban-go/internal/lowerbound"
	"github.com/ShenMian/sokoban-go/internal/xsb"
)

const forever = 5 * time.Second

func TestTrivialOnePush(t *testing.T) {
	m, err := xsb.ParseString("####\n#.$@#\n####")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := New(m, Fast, lowerbound.MinimumPush)
	acts, err := s.Search(forever)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if acts.LURD() != "L" {
		t.Errorf("LURD() = %q, want %q", acts.LURD(), "L")
	}
	if acts.Moves() != 1 || acts.Pushes() != 1 {
		t.Errorf("moves=%d pushes=%d, want 1,1", acts.Moves(), acts.Pushes())
	}
}

func TestAlreadySolved(t *testing.T) {
	m, err := xsb.ParseString("###\n#*#\n#@#\n###")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := New(m, Fast, lowerbound.MinimumPush)
	if s.BestState().LowerBound() != 0 {
		t.Errorf("expected the already-solved root to have lower bound 0")
	}
	acts, err := s.Search(forever)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if acts.Moves() != 0 || acts.Pushes() != 0 {
		t.Errorf("moves=%d pushes=%d, want 0,0", acts.Moves(), acts.Pushes())
	}
}

func TestTunnelChainingReachesGoal(t *testing.T) {
	// A box three cells from its goal down a one-wide corridor; the
	// search must chain every push in the corridor into a single
	// expansion rather than revisiting intermediate states one at a
	// time. The corridor here spans x=3 (box) to x=6 (goal): one move
	// to stand behind the box, then three chained pushes.
	m, err := xsb.ParseString("########\n#@ $  .#\n########")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := New(m, Fast, lowerbound.MinimumPush)
	acts, err := s.Search(forever)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if acts.LURD() != "rRRR" {
		t.Errorf("LURD() = %q, want %q", acts.LURD(), "rRRR")
	}
	solved, err := board.Replay(m, acts)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !solved {
		t.Errorf("expected the returned actions to solve the level")
	}
}

func TestFreezeDeadlockAvoided(t *testing.T) {
	// Two boxes sit side by side just below the player; pushing either
	// one straight down into the row beside the other, in the wrong
	// order, risks wedging them into a mutually frozen pair. The
	// search must still find a route to both goals.
	m, err := xsb.ParseString("#####\n#@  #\n#$$ #\n#. .#\n#####")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := New(m, Fast, lowerbound.MinimumPush)
	acts, err := s.Search(forever)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	solved, err := board.Replay(m, acts)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !solved {
		t.Errorf("expected a valid solution avoiding the freeze deadlock")
	}
}

func TestNoSolution(t *testing.T) {
	m, err := xsb.ParseString("######\n#@$#.#\n######")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := New(m, Fast, lowerbound.MinimumPush)
	_, err = s.Search(forever)
	if !errors.Is(err, ErrNoSolution) {
		t.Fatalf("Search() error = %v, want ErrNoSolution", err)
	}
}

func TestStrategyContrast(t *testing.T) {
	// The box is two pushes left of its goal, but the player must walk
	// the long way round to push it there (12 moves, 2 pushes); pushing
	// it up, left twice and down instead takes 8 moves and 4 pushes.
	// Each strategy must do at least as well as the other on its own
	// primary metric.
	const lvl = "#########\n#    ####\n#    ####\n#. $    #\n###@### #\n###     #\n#########"
	m, err := xsb.ParseString(lvl)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	movePush := New(m.Clone(), OptimalMovePush, lowerbound.MinimumPush)
	movePushActs, err := movePush.Search(forever)
	if err != nil {
		t.Fatalf("OptimalMovePush Search() error = %v", err)
	}

	pushMove := New(m.Clone(), OptimalPushMove, lowerbound.MinimumPush)
	pushMoveActs, err := pushMove.Search(forever)
	if err != nil {
		t.Fatalf("OptimalPushMove Search() error = %v", err)
	}

	if movePushActs.Moves() > pushMoveActs.Moves() {
		t.Errorf("OptimalMovePush moves=%d should be <= OptimalPushMove moves=%d", movePushActs.Moves(), pushMoveActs.Moves())
	}
	if pushMoveActs.Pushes() > movePushActs.Pushes() {
		t.Errorf("OptimalPushMove pushes=%d should be <= OptimalMovePush pushes=%d", pushMoveActs.Pushes(), movePushActs.Pushes())
	}
}

func TestTimeoutIsResumable(t *testing.T) {
	m, err := xsb.ParseString("########\n#@ $  .#\n########")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := New(m, Fast, lowerbound.MinimumPush)
	// A budget of zero must time out before any state is even popped.
	_, err = s.Search(0)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Search(0) error = %v, want ErrTimeout", err)
	}
	acts, err := s.Search(forever)
	if err != nil {
		t.Fatalf("resumed Search() error = %v", err)
	}
	solved, err := board.Replay(m, acts)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !solved {
		t.Errorf("expected the resumed search to still find a solution")
	}
}

func TestReplayMatchesSolverState(t *testing.T) {
	m, err := xsb.ParseString("########\n#@ $  .#\n########")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := New(m, Fast, lowerbound.MinimumPush)
	acts, err := s.Search(forever)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	solved, err := board.Replay(m, acts)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !solved {
		t.Errorf("solver's own action sequence must replay to a solved board")
	}
}
