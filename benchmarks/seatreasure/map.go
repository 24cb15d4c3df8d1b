// Package seatreasure implements the Deep Sea Treasure benchmark: an agent
// navigates a grid toward one of several fixed-value treasures, trading off
// a per-step fuel penalty against the value of the treasure eventually
// reached.
package seatreasure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-pareto/chvi/mdpapi"
)

// ParseError reports a malformed Deep Sea Treasure map line. It wraps
// mdpapi.ErrParse so callers can test with errors.Is.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("seatreasure: %s:%d: %s", e.File, e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return mdpapi.ErrParse }

// cell is a grid coordinate: column (x), then row (y), where row y is the
// y-th non-empty line of the map file.
type cell struct{ x, y int }

// Map is a parsed Deep Sea Treasure grid: its dimensions, the blocked
// squares, and the treasure value at each treasure square.
type Map struct {
	height, width int
	blocked       map[cell]bool
	treasures     map[cell]float64
}

// ParseMap reads a Deep Sea Treasure map file: whitespace-separated tokens
// per row, `*` for a blocked square, `#` for free, or a real number giving
// the treasure value at that square. Every row must tokenize to the same
// width.
func ParseMap(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seatreasure: open %s: %w", path, mdpapi.ErrParse)
	}
	defer f.Close()
	return parseMap(f, path)
}

func parseMap(r io.Reader, path string) (*Map, error) {
	blocked := make(map[cell]bool)
	treasures := make(map[cell]float64)

	scanner := bufio.NewScanner(r)
	width := -1
	y := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		if width == -1 {
			width = len(tokens)
		} else if len(tokens) != width {
			return nil, &ParseError{File: path, Line: y + 1, Msg: fmt.Sprintf("row width %d, want %d", len(tokens), width)}
		}

		for x, tok := range tokens {
			switch tok {
			case "*":
				blocked[cell{x, y}] = true
			case "#":
				// free square, nothing to record
			default:
				val, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return nil, &ParseError{File: path, Line: y + 1, Msg: fmt.Sprintf("invalid token %q", tok)}
				}
				treasures[cell{x, y}] = val
			}
		}
		y++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("seatreasure: reading %s: %w", path, err)
	}
	if width <= 0 || y == 0 {
		return nil, &ParseError{File: path, Line: 0, Msg: "map is empty"}
	}

	return &Map{height: y, width: width, blocked: blocked, treasures: treasures}, nil
}

func (m *Map) inBounds(c cell) bool {
	return c.x >= 0 && c.x < m.width && c.y >= 0 && c.y < m.height
}

func (m *Map) passable(c cell) bool {
	return m.inBounds(c) && !m.blocked[c]
}

func (m *Map) maxTreasureValue() float64 {
	max := 0.0
	first := true
	for _, v := range m.treasures {
		if first || v > max {
			max = v
			first = false
		}
	}
	return max
}
