package model

import (
	"fmt"
	"strings"
)

// MoveRequest is a parsed ChessMove command.
type MoveRequest struct {
	From      Position
	To        Position
	PromoteTo PieceKind
	Teleport  bool
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Ply is one accepted half-move.
type Ply struct {
	Turn           int             `json:"turn"`
	Faction        int             `json:"faction"`
	Piece          PieceKind       `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	Result         MoveResult      `json:"result"`
	CapturedPiece  PieceKind       `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove,omitempty"`
	Promotion      PieceKind       `json:"promotion"`
	Notation       string          `json:"notation"`
}

func squareNotation(p Position) string {
	return strings.ToLower(p.String())
}

func (p Ply) notation() string {
	switch p.Result {
	case ValidCastleKingside:
		return "O-O"
	case ValidCastleQueenside:
		return "O-O-O"
	}
	prefix := p.Piece.getPieceNotation()
	capture := ""
	if p.CapturedPiece != KindNone {
		capture = "x"
		if p.Piece == Pawn {
			prefix = squareNotation(p.From)[:1]
		}
	}
	suffix := ""
	if p.Promotion != KindNone {
		suffix = "=" + p.Promotion.Glyph()
	}
	if p.Result == ValidMoveTeleport || p.Result == ValidCaptureTeleport {
		suffix += "~"
	}
	return fmt.Sprintf("%s%s%s%s", prefix, capture, squareNotation(p.To), suffix)
}
