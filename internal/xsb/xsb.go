// Package xsb parses and formats the textual XSB level convention:
// '#' wall, ' ' floor, '$' box, '.' goal, '@' player, '+' player on
// goal, '*' box on goal. It is the level-format parser spec.md
// excludes from the solver core; the core only ever consumes the
// level.Map it produces.
package xsb

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ShenMian/sokoban-go/internal/grid"
	"github.com/ShenMian/sokoban-go/internal/level"
)

var charToTile = map[byte]level.Tile{
	' ': level.Floor,
	'#': level.Wall,
	'$': level.Floor | level.Box,
	'.': level.Floor | level.Goal,
	'@': level.Floor | level.Player,
	'+': level.Floor | level.Player | level.Goal,
	'*': level.Floor | level.Box | level.Goal,
}

var tileToChar = map[level.Tile]byte{
	level.Wall:                                        '#',
	level.Floor:                                        ' ',
	level.Floor | level.Box:                            '$',
	level.Floor | level.Goal:                           '.',
	level.Floor | level.Player:                         '@',
	level.Floor | level.Player | level.Goal:            '+',
	level.Floor | level.Box | level.Goal:               '*',
}

// ParseError describes a malformed level, reported with the line and
// column at which the problem was found.
type ParseError struct {
	Line, Column int
	Message      string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("xsb: %s", e.Message)
	}
	return fmt.Sprintf("xsb: line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Parse reads an XSB level from r and returns the resulting Map. It
// enforces the level.Map invariants from spec.md §3: exactly one
// player, and an equal number of box and goal cells.
func Parse(r io.Reader) (*level.Map, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r\n"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("xsb: reading level: %w", err)
	}
	// Trim leading/trailing blank lines, which are common padding in
	// XSB files but not part of the playing field.
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, &ParseError{Message: "empty level"}
	}

	width := 0
	for _, line := range lines {
		if len(line) > width {
			width = len(line)
		}
	}
	height := len(lines)

	m := level.New(width, height)
	playerCount, boxCount, goalCount := 0, 0, 0
	for y, line := range lines {
		for x := 0; x < width; x++ {
			c := byte(' ')
			if x < len(line) {
				c = line[x]
			}
			tile, ok := charToTile[c]
			if !ok {
				return nil, &ParseError{Line: y + 1, Column: x + 1, Message: fmt.Sprintf("invalid character %q", c)}
			}
			m.Set(grid.Vec2{X: x, Y: y}, tile)
			if tile.Intersects(level.Player) {
				playerCount++
			}
			if tile.Intersects(level.Box) {
				boxCount++
			}
			if tile.Intersects(level.Goal) {
				goalCount++
			}
		}
	}

	if playerCount != 1 {
		return nil, &ParseError{Message: fmt.Sprintf("level must have exactly one player, found %d", playerCount)}
	}
	if boxCount != goalCount {
		return nil, &ParseError{Message: fmt.Sprintf("box count (%d) must equal goal count (%d)", boxCount, goalCount)}
	}
	return m, nil
}

// ParseString is a convenience wrapper around Parse for in-memory
// level literals.
func ParseString(s string) (*level.Map, error) {
	return Parse(strings.NewReader(s))
}

// Format renders m back to XSB text.
func Format(m *level.Map) string {
	width, height := m.Dimensions()
	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := grid.Vec2{X: x, Y: y}
			tile := m.At(pos)
			c, ok := tileToChar[tile]
			if !ok {
				c = '#'
			}
			b.WriteByte(c)
		}
		if y < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
