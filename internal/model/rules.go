package model

// Outcome is what Evaluate decided about a proposed move. Captured is set
// only for valid captures; for en passant CapturedAt is the side square, not
// the destination.
type Outcome struct {
	Result     MoveResult
	Captured   PieceID
	CapturedAt Position
}

// Evaluate classifies moving mover from one square to another on turn. It
// never changes the board or the piece.
func Evaluate(board *Board, mover Piece, from, to Position, turn int) Outcome {
	out := evaluate(board, mover, from, to, turn)
	if !out.Result.Valid() || out.Captured == NoPiece {
		return Outcome{Result: out.Result, CapturedAt: InvalidPosition}
	}
	return out
}

func evaluate(board *Board, mover Piece, from, to Position, turn int) Outcome {
	if from == to {
		return Outcome{Result: InvalidZeroDistance}
	}
	if !boundaryCheck(from) || !boundaryCheck(to) {
		return Outcome{Result: InvalidBadLocation}
	}

	target := board.At(to)
	if target != nil && target.Faction == mover.Faction {
		return Outcome{Result: InvalidDestinationBlocked}
	}

	dx, dy := to.X-from.X, to.Y-from.Y
	adx, ady := abs(dx), abs(dy)

	switch mover.Kind {
	case Knight:
		if (adx == 1 && ady == 2) || (adx == 2 && ady == 1) {
			return landing(target, to)
		}
	case Bishop:
		if adx == ady {
			return slide(board, from, to, target)
		}
	case Rook:
		if adx == 0 || ady == 0 {
			return slide(board, from, to, target)
		}
	case Queen:
		if adx == ady || adx == 0 || ady == 0 {
			return slide(board, from, to, target)
		}
	case Pawn:
		return evaluatePawn(board, mover, from, to, target, turn)
	case King:
		return evaluateKing(board, mover, from, to, target)
	}
	return Outcome{Result: InvalidWrongMoveShape}
}

// landing is the result of arriving on to, capturing whatever is there.
func landing(target *Piece, to Position) Outcome {
	if target != nil {
		return Outcome{Result: ValidCaptureNormal, Captured: target.ID, CapturedAt: to}
	}
	return Outcome{Result: ValidMoveNormal}
}

func slide(board *Board, from, to Position, target *Piece) Outcome {
	if !pathClear(board, from, to) {
		return Outcome{Result: InvalidPathBlocked}
	}
	return landing(target, to)
}

// pathClear walks the straight line between from and to, excluding both ends.
func pathClear(board *Board, from, to Position) bool {
	stepX, stepY := sign(to.X-from.X), sign(to.Y-from.Y)
	for cur := from.Add(stepX, stepY); cur != to; cur = cur.Add(stepX, stepY) {
		if !board.IsEmpty(cur) {
			return false
		}
	}
	return true
}

// pawnDirection returns the forward rank step and the home rank for a faction.
func pawnDirection(faction int) (dir, homeRank int) {
	if faction == 0 {
		return 1, 1
	}
	return -1, BoardSize - 2
}

func evaluatePawn(board *Board, mover Piece, from, to Position, target *Piece, turn int) Outcome {
	dir, homeRank := pawnDirection(mover.Faction)
	dx, dy := to.X-from.X, to.Y-from.Y
	lastRank := to.Y == 0 || to.Y == BoardSize-1

	switch {
	case dx == 0 && dy == dir:
		if target != nil {
			break
		}
		if lastRank {
			return Outcome{Result: ValidMovePromotion}
		}
		return Outcome{Result: ValidMoveNormal}

	case dx == 0 && dy == 2*dir:
		if target != nil || from.Y != homeRank {
			break
		}
		if !board.IsEmpty(from.Add(0, dir)) {
			return Outcome{Result: InvalidPathBlocked}
		}
		return Outcome{Result: ValidMoveNormal}

	case abs(dx) == 1 && dy == dir:
		if target != nil {
			if lastRank {
				return Outcome{Result: ValidCapturePromotion, Captured: target.ID, CapturedAt: to}
			}
			return Outcome{Result: ValidCaptureNormal, Captured: target.ID, CapturedAt: to}
		}
		side := from.Add(dx, 0)
		victim := board.At(side)
		if victim == nil || victim.Kind != Pawn || victim.Faction == mover.Faction {
			break
		}
		if !victim.MovedTwoSquares || victim.LastMoveTurn != turn-1 {
			return Outcome{Result: InvalidEnPassantStale}
		}
		return Outcome{Result: ValidCaptureEnPassant, Captured: victim.ID, CapturedAt: side}
	}
	return Outcome{Result: InvalidWrongMoveShape}
}

func evaluateKing(board *Board, mover Piece, from, to Position, target *Piece) Outcome {
	dx, dy := to.X-from.X, to.Y-from.Y
	adx, ady := abs(dx), abs(dy)
	if adx <= 1 && ady <= 1 {
		return landing(target, to)
	}

	if ady != 0 || (adx != 2 && adx != 3) {
		return Outcome{Result: InvalidWrongMoveShape}
	}
	if mover.HasMoved {
		return Outcome{Result: InvalidCastleKingHasMoved}
	}
	rookPos := Position{X: 0, Y: from.Y}
	if dx > 0 {
		rookPos.X = BoardSize - 1
	}
	rook := board.At(rookPos)
	if rook == nil || rook.Kind != Rook || rook.Faction != mover.Faction || rook.HasMoved {
		return Outcome{Result: InvalidCastleRookHasMoved}
	}
	if !pathClear(board, from, rookPos) {
		return Outcome{Result: InvalidCastlePathBlocked}
	}
	if dx > 0 {
		return Outcome{Result: ValidCastleKingside}
	}
	return Outcome{Result: ValidCastleQueenside}
}
