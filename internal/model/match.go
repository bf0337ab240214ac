package model

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type MatchState int

const (
	StateIdle MatchState = iota
	StateActive
	StateEnded
)

func (s MatchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	}
	return fmt.Sprintf("MatchState(%d)", int(s))
}

func (s MatchState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Match is the state of one game: the board, whose turn it is and what has
// happened so far. A match starts idle, becomes active on Begin and ends
// when a king is captured.
type Match struct {
	ID string

	mu                 sync.Mutex
	factions           []Faction
	players            []*Player
	currentPlayerIndex int
	turnCounter        int
	board              *Board
	state              MatchState
	winner             int
	history            []Ply
	observer           Observer
}

// NewMatch places every piece of layout and returns an idle match.
func NewMatch(id string, layout Layout, observer Observer) (*Match, error) {
	if len(layout.Factions) == 0 {
		return nil, ErrNoFactions
	}
	if observer == nil {
		observer = NopObserver{}
	}
	m := &Match{
		ID:       id,
		factions: append([]Faction(nil), layout.Factions...),
		board:    NewBoard(),
		state:    StateIdle,
		winner:   -1,
		history:  make([]Ply, 0),
		observer: observer,
	}
	for i := range m.factions {
		m.factions[i].ID = i
		m.players = append(m.players, &Player{Faction: i, Clock: NewClock()})
	}
	observer.MatchCreated(id)
	for _, pl := range layout.Placements {
		if pl.Faction < 0 || pl.Faction >= len(m.factions) {
			return nil, fmt.Errorf("placement %s at %s: %w %d", pl.Kind, pl.Position, ErrUnknownFaction, pl.Faction)
		}
		id, err := m.board.Place(pl.Kind, pl.Faction, pl.Position)
		if err != nil {
			return nil, err
		}
		observer.PieceSpawned(*m.board.Piece(id))
	}
	return m, nil
}

// Begin starts the match with firstFaction to move.
func (m *Match) Begin(firstFaction int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		return ErrMatchNotIdle
	}
	if firstFaction < 0 || firstFaction >= len(m.factions) {
		return fmt.Errorf("begin: %w %d", ErrUnknownFaction, firstFaction)
	}
	for i, p := range m.players {
		if p.Faction == firstFaction {
			m.currentPlayerIndex = i
		}
	}
	m.state = StateActive
	m.players[m.currentPlayerIndex].Clock.Start()
	return nil
}

// ExecuteMove applies a normal chess move for the current player. Nothing
// changes unless the returned result is valid.
func (m *Match) ExecuteMove(from, to Position, promoteTo PieceKind) MoveResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	mover, result := m.checkMover(from, to)
	if mover == nil {
		return result
	}
	out := Evaluate(m.board, *mover, from, to, m.turnCounter)
	if !out.Result.Valid() {
		return out.Result
	}

	m.clearPawnDoubleMoveFlags()
	ply := Ply{
		Turn:    m.turnCounter,
		Faction: mover.Faction,
		Piece:   mover.Kind,
		From:    from,
		To:      to,
		Result:  out.Result,
	}

	captured := m.capture(out.Captured)
	if captured != nil {
		ply.CapturedPiece = captured.Kind
	}

	if out.Result.IsCastle() {
		ply.CastleRookMove = m.handleCastle(from, out.Result)
	}

	m.board.relocate(mover.ID, to)
	mover.HasMoved = true
	mover.LastMoveTurn = m.turnCounter
	if mover.Kind == Pawn && abs(to.Y-from.Y) == 2 {
		mover.MovedTwoSquares = true
	}
	m.observer.PieceMoved(*mover, from, to)

	if out.Result.IsPromotion() && promoteTo.IsPromotionTarget() {
		previous := mover.Kind
		mover.Kind = promoteTo
		ply.Promotion = promoteTo
		m.observer.PiecePromoted(*mover, previous)
	}

	m.finishPly(ply, captured)
	return out.Result
}

// ExecuteTeleport moves a piece of the current player to any square that is
// empty or holds an enemy piece. Movement rules and piece flags are ignored.
func (m *Match) ExecuteTeleport(from, to Position) MoveResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	mover, result := m.checkMover(from, to)
	if mover == nil {
		return result
	}
	if from == to {
		return InvalidZeroDistance
	}
	victim := m.board.At(to)
	if victim != nil && victim.Faction == mover.Faction {
		return InvalidBadLocation
	}

	result = ValidMoveTeleport
	ply := Ply{Turn: m.turnCounter, Faction: mover.Faction, Piece: mover.Kind, From: from, To: to}
	var captured *Piece
	if victim != nil {
		result = ValidCaptureTeleport
		captured = m.capture(victim.ID)
		ply.CapturedPiece = captured.Kind
	}
	ply.Result = result

	m.board.relocate(mover.ID, to)
	m.observer.PieceMoved(*mover, from, to)

	m.finishPly(ply, captured)
	return result
}

// checkMover returns the piece to move, or nil and the reason it can't.
func (m *Match) checkMover(from, to Position) (*Piece, MoveResult) {
	if m.state != StateActive {
		return nil, InvalidMatchInactive
	}
	if !from.IsValid() || !to.IsValid() {
		return nil, InvalidBadLocation
	}
	mover := m.board.At(from)
	if mover == nil {
		return nil, InvalidNoPiece
	}
	if mover.Faction != m.players[m.currentPlayerIndex].Faction {
		return nil, InvalidNotYourPiece
	}
	return mover, ResultUnknown
}

func (m *Match) capture(id PieceID) *Piece {
	if id == NoPiece {
		return nil
	}
	m.board.remove(id)
	victim := m.board.Piece(id)
	m.observer.PieceDestroyed(*victim)
	return victim
}

func (m *Match) handleCastle(kingFrom Position, result MoveResult) *CastleRookMove {
	dir := 1
	rookFrom := Position{X: BoardSize - 1, Y: kingFrom.Y}
	if result == ValidCastleQueenside {
		dir = -1
		rookFrom.X = 0
	}
	rook := m.board.At(rookFrom)
	rookTo := kingFrom.Add(dir, 0)
	m.board.relocate(rook.ID, rookTo)
	rook.HasMoved = true
	rook.LastMoveTurn = m.turnCounter
	m.observer.PieceMoved(*rook, rookFrom, rookTo)
	return &CastleRookMove{From: rookFrom, To: rookTo}
}

func (m *Match) finishPly(ply Ply, captured *Piece) {
	ply.Notation = ply.notation()
	m.history = append(m.history, ply)

	if captured != nil && captured.Kind == King {
		m.players[m.currentPlayerIndex].Clock.Stop()
		m.state = StateEnded
		m.winner = ply.Faction
		m.observer.MatchEnded(m.factions[ply.Faction])
		return
	}
	m.stepNextTurn()
}

func (m *Match) clearPawnDoubleMoveFlags() {
	for _, p := range m.board.Pieces() {
		p.MovedTwoSquares = false
	}
}

func (m *Match) stepNextTurn() {
	m.players[m.currentPlayerIndex].Clock.Stop()
	m.turnCounter++
	m.currentPlayerIndex = (m.currentPlayerIndex + 1) % len(m.players)
	m.players[m.currentPlayerIndex].Clock.Start()
}

func (m *Match) State() MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Match) TurnCounter() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turnCounter
}

// CurrentFaction is the faction whose turn it is.
func (m *Match) CurrentFaction() Faction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.factions[m.players[m.currentPlayerIndex].Faction]
}

// Winner returns the winning faction once the match has ended.
func (m *Match) Winner() (Faction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.winner < 0 {
		return Faction{}, false
	}
	return m.factions[m.winner], true
}

func (m *Match) Factions() []Faction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Faction(nil), m.factions...)
}

// FactionByName finds a faction by display name, ignoring case.
func (m *Match) FactionByName(name string) (Faction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.factions {
		if strings.EqualFold(f.DisplayName, name) {
			return f, true
		}
	}
	return Faction{}, false
}

func (m *Match) SetFactionName(faction int, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if faction < 0 || faction >= len(m.factions) {
		return fmt.Errorf("rename: %w %d", ErrUnknownFaction, faction)
	}
	m.factions[faction].DisplayName = name
	return nil
}

// PieceAt returns a copy of the piece on pos.
func (m *Match) PieceAt(pos Position) (Piece, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p := m.board.At(pos); p != nil {
		return *p, true
	}
	return Piece{}, false
}

func (m *Match) History() []Ply {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Ply(nil), m.history...)
}

func (m *Match) RenderBoard() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Render()
}

// Raycast picks the nearest board element along a ray.
func (m *Match) Raycast(origin, dir Vec3, maxDistance float64) RaycastHit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return raycast(m.board, origin, dir, maxDistance)
}

// MatchSnapshot is a point-in-time copy of a match for reporting.
type MatchSnapshot struct {
	ID             string         `json:"id"`
	State          MatchState     `json:"state"`
	TurnCounter    int            `json:"turnCounter"`
	CurrentFaction int            `json:"currentFaction"`
	Winner         *int           `json:"winner"`
	Factions       []Faction      `json:"factions"`
	Players        []ClientPlayer `json:"players"`
	Pieces         []Piece        `json:"pieces"`
	Board          []string       `json:"board"`
}

func (m *Match) Snapshot() MatchSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MatchSnapshot{
		ID:             m.ID,
		State:          m.state,
		TurnCounter:    m.turnCounter,
		CurrentFaction: m.players[m.currentPlayerIndex].Faction,
		Factions:       append([]Faction(nil), m.factions...),
		Board:          m.board.Render(),
	}
	if m.winner >= 0 {
		w := m.winner
		snap.Winner = &w
	}
	for i, p := range m.players {
		snap.Players = append(snap.Players, ClientPlayer{
			Faction:      p.Faction,
			Name:         m.factions[p.Faction].DisplayName,
			ThinkingTime: p.Clock.Elapsed().Milliseconds(),
			ToMove:       m.state == StateActive && i == m.currentPlayerIndex,
		})
	}
	for _, p := range m.board.Pieces() {
		snap.Pieces = append(snap.Pieces, *p)
	}
	return snap
}

// ThinkingTime reports the accumulated turn time of a faction's player.
func (m *Match) ThinkingTime(faction int) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.Faction == faction {
			return p.Clock.Elapsed()
		}
	}
	return 0
}
