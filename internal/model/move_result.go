package model

import "fmt"

// MoveResult classifies a move request. Every value is either valid or
// invalid; Valid panics on a value outside the enum.
type MoveResult int

const (
	ResultUnknown MoveResult = iota

	ValidMoveNormal
	ValidMoveTeleport
	ValidMovePromotion
	ValidCapturePromotion
	ValidCastleKingside
	ValidCastleQueenside
	ValidCaptureNormal
	ValidCaptureTeleport
	ValidCaptureEnPassant

	InvalidBadLocation
	InvalidNoPiece
	InvalidNotYourPiece
	InvalidZeroDistance
	InvalidWrongMoveShape
	InvalidDestinationBlocked
	InvalidPathBlocked
	InvalidEnPassantStale
	InvalidCastleKingHasMoved
	InvalidCastleRookHasMoved
	InvalidCastlePathBlocked
	InvalidMatchInactive

	resultCount
)

var moveResultInfo = [resultCount]struct {
	code    string
	message string
}{
	ResultUnknown:             {"UNKNOWN", "Move was not evaluated"},
	ValidMoveNormal:           {"VALID_MOVE_NORMAL", "Moved"},
	ValidMoveTeleport:         {"VALID_MOVE_TELEPORT", "Teleported"},
	ValidMovePromotion:        {"VALID_MOVE_PROMOTION", "Pawn reached the last rank"},
	ValidCapturePromotion:     {"VALID_CAPTURE_PROMOTION", "Pawn captured onto the last rank"},
	ValidCastleKingside:       {"VALID_CASTLE_KINGSIDE", "Castled kingside"},
	ValidCastleQueenside:      {"VALID_CASTLE_QUEENSIDE", "Castled queenside"},
	ValidCaptureNormal:        {"VALID_CAPTURE_NORMAL", "Captured"},
	ValidCaptureTeleport:      {"VALID_CAPTURE_TELEPORT", "Teleported onto an enemy piece"},
	ValidCaptureEnPassant:     {"VALID_CAPTURE_ENPASSANT", "Captured en passant"},
	InvalidBadLocation:        {"INVALID_MOVE_BAD_LOCATION", "That location is not usable"},
	InvalidNoPiece:            {"INVALID_MOVE_NO_PIECE", "There is no piece on that square"},
	InvalidNotYourPiece:       {"INVALID_MOVE_NOT_YOUR_PIECE", "That piece belongs to the other player"},
	InvalidZeroDistance:       {"INVALID_MOVE_ZERO_DISTANCE", "A piece has to move somewhere"},
	InvalidWrongMoveShape:     {"INVALID_MOVE_WRONG_MOVE_SHAPE", "That piece cannot move that way"},
	InvalidDestinationBlocked: {"INVALID_MOVE_DESTINATION_BLOCKED", "Your own piece is on the destination"},
	InvalidPathBlocked:        {"INVALID_MOVE_PATH_BLOCKED", "Another piece is in the way"},
	InvalidEnPassantStale:     {"INVALID_ENPASSANT_STALE", "En passant is only allowed right after the double step"},
	InvalidCastleKingHasMoved: {"INVALID_CASTLE_KING_HAS_MOVED", "The king has already moved"},
	InvalidCastleRookHasMoved: {"INVALID_CASTLE_ROOK_HAS_MOVED", "The rook is missing or has already moved"},
	InvalidCastlePathBlocked:  {"INVALID_CASTLE_PATH_BLOCKED", "Pieces stand between the king and the rook"},
	InvalidMatchInactive:      {"INVALID_MATCH_INACTIVE", "The match is not in progress"},
}

// Valid reports whether the move is accepted. Every result must appear in
// one of the two lists below.
func (r MoveResult) Valid() bool {
	switch r {
	case ValidMoveNormal, ValidMoveTeleport, ValidMovePromotion, ValidCapturePromotion,
		ValidCastleKingside, ValidCastleQueenside, ValidCaptureNormal, ValidCaptureTeleport,
		ValidCaptureEnPassant:
		return true
	case ResultUnknown, InvalidBadLocation, InvalidNoPiece, InvalidNotYourPiece, InvalidZeroDistance,
		InvalidWrongMoveShape, InvalidDestinationBlocked, InvalidPathBlocked, InvalidEnPassantStale,
		InvalidCastleKingHasMoved, InvalidCastleRookHasMoved, InvalidCastlePathBlocked,
		InvalidMatchInactive:
		return false
	}
	panic(fmt.Sprintf("unclassified move result %d", int(r)))
}

func (r MoveResult) IsPromotion() bool {
	return r == ValidMovePromotion || r == ValidCapturePromotion
}

func (r MoveResult) IsCastle() bool {
	return r == ValidCastleKingside || r == ValidCastleQueenside
}

func (r MoveResult) IsCapture() bool {
	return r == ValidCaptureNormal || r == ValidCaptureTeleport || r == ValidCaptureEnPassant ||
		r == ValidCapturePromotion
}

// Code is the stable identifier used in logs and JSON.
func (r MoveResult) Code() string {
	if r < 0 || r >= resultCount {
		return fmt.Sprintf("MoveResult(%d)", int(r))
	}
	return moveResultInfo[r].code
}

// String is the human readable description printed to the console.
func (r MoveResult) String() string {
	if r < 0 || r >= resultCount {
		return r.Code()
	}
	return moveResultInfo[r].message
}

func (r MoveResult) MarshalText() ([]byte, error) {
	return []byte(r.Code()), nil
}
