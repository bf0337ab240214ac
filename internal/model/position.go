package model

import (
	"fmt"
	"strconv"
)

// BoardSize is the number of files and ranks on the board.
const BoardSize = 8

// Position is a zero-based board coordinate: X is the file (A=0), Y the rank (1=0).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InvalidPosition is what ParsePosition returns for anything it can't read.
// Callers must check IsValid before using a position as an index.
var InvalidPosition = Position{X: -1, Y: -1}

// ParsePosition reads board notation such as "E2" or "e2".
func ParsePosition(text string) Position {
	if len(text) < 2 || len(text) > 3 {
		return InvalidPosition
	}
	file := text[0]
	if file >= 'a' && file <= 'z' {
		file -= 'a' - 'A'
	}
	if file < 'A' || file >= 'A'+BoardSize {
		return InvalidPosition
	}
	rankPart := text[1:]
	for i := 0; i < len(rankPart); i++ {
		if rankPart[i] < '0' || rankPart[i] > '9' {
			return InvalidPosition
		}
	}
	rank, err := strconv.Atoi(rankPart)
	if err != nil || rank < 1 || rank > BoardSize {
		return InvalidPosition
	}
	return Position{X: int(file - 'A'), Y: rank - 1}
}

// FormatPosition is the inverse of ParsePosition.
func FormatPosition(p Position) string {
	return p.String()
}

func (p Position) String() string {
	if !p.IsValid() {
		return "INVALID"
	}
	return fmt.Sprintf("%c%d", 'A'+p.X, p.Y+1)
}

func (p Position) IsValid() bool {
	return boundaryCheck(p)
}

// Add returns p offset by (dx, dy). The result may be off the board.
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func boundaryCheck(p Position) bool {
	return p.X >= 0 && p.X < BoardSize && p.Y >= 0 && p.Y < BoardSize
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
