package model

import (
	"fmt"
	"strings"
)

type PieceKind int

const (
	KindNone PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceKindNames = [...]string{"None", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}

func (k PieceKind) String() string {
	if k < KindNone || int(k) >= len(pieceKindNames) {
		return fmt.Sprintf("PieceKind(%d)", int(k))
	}
	return pieceKindNames[k]
}

func (k PieceKind) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(k.String())), nil
}

// Glyph is the upper-case letter used for the kind in board printouts.
func (k PieceKind) Glyph() string {
	switch k {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return "?"
}

func (k PieceKind) getPieceNotation() string {
	if k == Pawn {
		return ""
	}
	return k.Glyph()
}

// IsPromotionTarget reports whether a pawn may become k.
func (k PieceKind) IsPromotionTarget() bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}

// ParsePieceKind matches a kind by name, ignoring case.
func ParsePieceKind(name string) (PieceKind, bool) {
	for i := Pawn; i <= King; i++ {
		if strings.EqualFold(name, pieceKindNames[i]) {
			return i, true
		}
	}
	return KindNone, false
}

// PieceID identifies a piece within its board's arena. Zero means no piece.
type PieceID int

const NoPiece PieceID = 0

type Piece struct {
	ID               PieceID   `json:"id"`
	Kind             PieceKind `json:"kind"`
	Faction          int       `json:"faction"`
	Position         Position  `json:"position"`
	PreviousPosition Position  `json:"previousPosition"`
	HasMoved         bool      `json:"hasMoved"`
	MovedTwoSquares  bool      `json:"movedTwoSquares"`
	LastMoveTurn     int       `json:"lastMoveTurn"`
	Captured         bool      `json:"captured"`
}

// Glyph is upper-case for faction 0 and lower-case for any other faction.
func (p *Piece) Glyph() string {
	if p.Faction == 0 {
		return p.Kind.Glyph()
	}
	return strings.ToLower(p.Kind.Glyph())
}

// Board owns every piece of a match. Cells hold ids into the piece arena so
// there is exactly one record per piece however it is reached.
type Board struct {
	pieces []Piece
	cells  [BoardSize][BoardSize]PieceID
}

func NewBoard() *Board {
	return &Board{pieces: make([]Piece, 0, 32)}
}

// Place adds a new piece and returns its id.
func (b *Board) Place(kind PieceKind, faction int, pos Position) (PieceID, error) {
	if !pos.IsValid() {
		return NoPiece, fmt.Errorf("place %s at %v: %w", kind, pos, ErrOffBoard)
	}
	if b.cells[pos.X][pos.Y] != NoPiece {
		return NoPiece, fmt.Errorf("place %s at %s: %w", kind, pos, ErrSquareOccupied)
	}
	id := PieceID(len(b.pieces) + 1)
	b.pieces = append(b.pieces, Piece{
		ID:               id,
		Kind:             kind,
		Faction:          faction,
		Position:         pos,
		PreviousPosition: pos,
		LastMoveTurn:     -1,
	})
	b.cells[pos.X][pos.Y] = id
	return id, nil
}

// At returns the piece on pos, or nil when the square is empty or off the board.
func (b *Board) At(pos Position) *Piece {
	if !pos.IsValid() {
		return nil
	}
	return b.Piece(b.cells[pos.X][pos.Y])
}

func (b *Board) Piece(id PieceID) *Piece {
	if id <= NoPiece || int(id) > len(b.pieces) {
		return nil
	}
	return &b.pieces[id-1]
}

func (b *Board) IsEmpty(pos Position) bool {
	return b.At(pos) == nil
}

// Pieces returns the pieces still on the board in arena order.
func (b *Board) Pieces() []*Piece {
	live := make([]*Piece, 0, len(b.pieces))
	for i := range b.pieces {
		if !b.pieces[i].Captured {
			live = append(live, &b.pieces[i])
		}
	}
	return live
}

func (b *Board) relocate(id PieceID, to Position) {
	p := b.Piece(id)
	b.cells[p.Position.X][p.Position.Y] = NoPiece
	p.PreviousPosition = p.Position
	p.Position = to
	b.cells[to.X][to.Y] = id
}

func (b *Board) remove(id PieceID) {
	p := b.Piece(id)
	if b.cells[p.Position.X][p.Position.Y] == id {
		b.cells[p.Position.X][p.Position.Y] = NoPiece
	}
	p.Captured = true
}

// Render draws the board with rank 8 at the top.
func (b *Board) Render() []string {
	lines := make([]string, 0, BoardSize+4)
	lines = append(lines, "  ABCDEFGH  ", " +--------+ ")
	for y := BoardSize - 1; y >= 0; y-- {
		var row strings.Builder
		fmt.Fprintf(&row, "%d|", y+1)
		for x := 0; x < BoardSize; x++ {
			if p := b.At(Position{X: x, Y: y}); p != nil {
				row.WriteString(p.Glyph())
			} else {
				row.WriteByte('.')
			}
		}
		fmt.Fprintf(&row, "|%d", y+1)
		lines = append(lines, row.String())
	}
	lines = append(lines, " +--------+ ", "  ABCDEFGH  ")
	return lines
}
