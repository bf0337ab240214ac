package model

// Observer is told about every visible change to a match. Calls are made
// synchronously from the goroutine driving the match.
type Observer interface {
	MatchCreated(matchID string)
	PieceSpawned(p Piece)
	PieceMoved(p Piece, from, to Position)
	PieceDestroyed(p Piece)
	PiecePromoted(p Piece, from PieceKind)
	MatchEnded(winner Faction)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) MatchCreated(string) {}
func (NopObserver) PieceSpawned(Piece) {}
func (NopObserver) PieceMoved(Piece, Position, Position) {}
func (NopObserver) PieceDestroyed(Piece) {}
func (NopObserver) PiecePromoted(Piece, PieceKind) {}
func (NopObserver) MatchEnded(Faction) {}
