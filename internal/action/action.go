// Package action models a Sokoban move/push sequence and its LURD text
// encoding, mirroring the Movement/Movements pair of the original
// implementation this module was rewritten from.
package action

import (
	"fmt"
	"strings"

	"github.com/ShenMian/sokoban-go/internal/grid"
)

// Kind distinguishes a plain move from a push.
type Kind int

const (
	Move Kind = iota
	Push
)

// Action is a single step of the player: a move or a push in a given
// direction.
type Action struct {
	Direction grid.Direction
	Kind      Kind
}

// IsPush reports whether this action pushes a box.
func (a Action) IsPush() bool {
	return a.Kind == Push
}

// Byte returns the LURD character for this action: lowercase for a
// move, uppercase for a push.
func (a Action) Byte() byte {
	var c byte
	switch a.Direction {
	case grid.Up:
		c = 'u'
	case grid.Down:
		c = 'd'
	case grid.Left:
		c = 'l'
	case grid.Right:
		c = 'r'
	default:
		panic(fmt.Sprintf("action: invalid direction %v", a.Direction))
	}
	if a.IsPush() {
		c -= 'a' - 'A'
	}
	return c
}

// FromByte parses a single LURD character into an Action.
func FromByte(c byte) (Action, error) {
	var dir grid.Direction
	switch c | 0x20 { // lowercase
	case 'u':
		dir = grid.Up
	case 'd':
		dir = grid.Down
	case 'l':
		dir = grid.Left
	case 'r':
		dir = grid.Right
	default:
		return Action{}, fmt.Errorf("action: invalid LURD character %q", c)
	}
	kind := Move
	if c >= 'A' && c <= 'Z' {
		kind = Push
	}
	return Action{Direction: dir, Kind: kind}, nil
}

// Actions is an ordered sequence of Action with O(1) move/push counters.
type Actions struct {
	items  []Action
	pushes int
}

// New returns an empty action sequence.
func New() Actions {
	return Actions{}
}

// Append returns a copy of a with act appended. Actions are immutable
// from the caller's perspective so that search states sharing a prefix
// never alias each other's backing slice.
func (a Actions) Append(act Action) Actions {
	items := make([]Action, len(a.items)+1)
	copy(items, a.items)
	items[len(a.items)] = act
	pushes := a.pushes
	if act.IsPush() {
		pushes++
	}
	return Actions{items: items, pushes: pushes}
}

// Len returns the total number of actions (spec's moves() counter).
func (a Actions) Len() int {
	return len(a.items)
}

// Moves is an alias for Len, named after the spec's moves() accessor.
func (a Actions) Moves() int {
	return len(a.items)
}

// Pushes returns the number of Push actions in the sequence.
func (a Actions) Pushes() int {
	return a.pushes
}

// At returns the i'th action.
func (a Actions) At(i int) Action {
	return a.items[i]
}

// All returns the underlying actions as a read-only slice.
func (a Actions) All() []Action {
	return a.items
}

// LURD renders the sequence as a LURD string.
func (a Actions) LURD() string {
	var b strings.Builder
	b.Grow(len(a.items))
	for _, act := range a.items {
		b.WriteByte(act.Byte())
	}
	return b.String()
}

// ParseLURD parses a LURD string into an Actions sequence. It is the
// exact inverse of Actions.LURD.
func ParseLURD(s string) (Actions, error) {
	result := New()
	for i := 0; i < len(s); i++ {
		act, err := FromByte(s[i])
		if err != nil {
			return Actions{}, fmt.Errorf("action: parsing LURD string at index %d: %w", i, err)
		}
		result = result.Append(act)
	}
	return result, nil
}
