package model

import (
	"testing"

	"github.com/benbeisheim/lockstep-chess/internal/testutil"
)

func TestBoardPlace(t *testing.T) {
	b := NewBoard()
	id, err := b.Place(Rook, 0, ParsePosition("A1"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, id, PieceID(1))

	_, err = b.Place(Knight, 1, ParsePosition("A1"))
	testutil.AssertErrorIs(t, err, ErrSquareOccupied)

	_, err = b.Place(Knight, 1, InvalidPosition)
	testutil.AssertErrorIs(t, err, ErrOffBoard)

	p := b.At(ParsePosition("A1"))
	testutil.AssertTrue(t, p != nil && p.ID == id, "rook should be on A1")
	testutil.AssertTrue(t, b.At(ParsePosition("A2")) == nil, "A2 should be empty")
	testutil.AssertTrue(t, b.At(InvalidPosition) == nil, "off-board lookup")
}

func TestBoardRender(t *testing.T) {
	m := newStandardMatch(t)
	want := []string{
		"  ABCDEFGH  ",
		" +--------+ ",
		"8|rnbqkbnr|8",
		"7|pppppppp|7",
		"6|........|6",
		"5|........|5",
		"4|........|4",
		"3|........|3",
		"2|PPPPPPPP|2",
		"1|RNBQKBNR|1",
		" +--------+ ",
		"  ABCDEFGH  ",
	}
	testutil.AssertEqual(t, m.RenderBoard(), want)
}

func TestParsePieceKind(t *testing.T) {
	for _, name := range []string{"queen", "QUEEN", "Queen"} {
		k, ok := ParsePieceKind(name)
		testutil.AssertTrue(t, ok, name)
		testutil.AssertEqual(t, k, Queen)
	}
	_, ok := ParsePieceKind("dragon")
	testutil.AssertFalse(t, ok)
	testutil.AssertFalse(t, King.IsPromotionTarget())
	testutil.AssertFalse(t, Pawn.IsPromotionTarget())
	testutil.AssertTrue(t, Knight.IsPromotionTarget())
}

func TestMoveResultClassification(t *testing.T) {
	valid := 0
	for r := ResultUnknown; r < resultCount; r++ {
		if r.Valid() {
			valid++
		}
		testutil.AssertTrue(t, r.String() != "", "message for %s", r.Code())
	}
	testutil.AssertEqual(t, valid, 9)
}

func TestMoveResultCodes(t *testing.T) {
	tests := []struct {
		result MoveResult
		want   string
	}{
		{ValidMoveNormal, "VALID_MOVE_NORMAL"},
		{ValidCaptureEnPassant, "VALID_CAPTURE_ENPASSANT"},
		{InvalidBadLocation, "INVALID_MOVE_BAD_LOCATION"},
		{InvalidZeroDistance, "INVALID_MOVE_ZERO_DISTANCE"},
		{InvalidWrongMoveShape, "INVALID_MOVE_WRONG_MOVE_SHAPE"},
		{InvalidPathBlocked, "INVALID_MOVE_PATH_BLOCKED"},
		{InvalidEnPassantStale, "INVALID_ENPASSANT_STALE"},
		{InvalidCastleRookHasMoved, "INVALID_CASTLE_ROOK_HAS_MOVED"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			testutil.AssertEqual(t, tt.result.Code(), tt.want)
			text, err := tt.result.MarshalText()
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, string(text), tt.want)
		})
	}
}
