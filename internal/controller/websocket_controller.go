package controller

import (
	"context"
	"sync"

	"github.com/benbeisheim/lockstep-chess/internal/middleware"
	"github.com/benbeisheim/lockstep-chess/internal/model"
	"github.com/benbeisheim/lockstep-chess/internal/ws"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const hubBacklog = 256

type pieceMovedEvent struct {
	Piece model.Piece    `json:"piece"`
	From  model.Position `json:"from"`
	To    model.Position `json:"to"`
}

type piecePromotedEvent struct {
	Piece model.Piece     `json:"piece"`
	From  model.PieceKind `json:"from"`
}

// SpectatorHub pushes match events to websocket spectators. It is the
// match observer; events are queued and written by Run so the match never
// waits on a slow socket.
type SpectatorHub struct {
	log         zerolog.Logger
	events      chan ws.Message
	snapshot    func() model.MatchSnapshot
	connections map[string]*websocket.Conn
	mu          sync.RWMutex
}

var _ model.Observer = (*SpectatorHub)(nil)

func NewSpectatorHub(log zerolog.Logger) *SpectatorHub {
	return &SpectatorHub{
		log:         log.With().Str("component", "spectators").Logger(),
		events:      make(chan ws.Message, hubBacklog),
		connections: make(map[string]*websocket.Conn),
	}
}

// SetSnapshotSource supplies the state sent to a spectator when it joins.
func (h *SpectatorHub) SetSnapshotSource(fn func() model.MatchSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshot = fn
}

func (h *SpectatorHub) publish(t ws.MessageType, payload interface{}) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(t)).Msg("encode event")
		return
	}
	select {
	case h.events <- msg:
	default:
		h.log.Warn().Str("type", string(t)).Msg("spectator backlog full, event dropped")
	}
}

func (h *SpectatorHub) MatchCreated(matchID string) {
	h.publish(ws.MessageTypeSnapshot, map[string]string{"matchId": matchID})
}

func (h *SpectatorHub) PieceSpawned(p model.Piece) {
	h.publish(ws.MessageTypePieceSpawned, p)
}

func (h *SpectatorHub) PieceMoved(p model.Piece, from, to model.Position) {
	h.publish(ws.MessageTypePieceMoved, pieceMovedEvent{Piece: p, From: from, To: to})
}

func (h *SpectatorHub) PieceDestroyed(p model.Piece) {
	h.publish(ws.MessageTypePieceDestroyed, p)
}

func (h *SpectatorHub) PiecePromoted(p model.Piece, from model.PieceKind) {
	h.publish(ws.MessageTypePiecePromoted, piecePromotedEvent{Piece: p, From: from})
}

func (h *SpectatorHub) MatchEnded(winner model.Faction) {
	h.publish(ws.MessageTypeMatchEnded, winner)
}

// Run writes queued events to every spectator until ctx is done.
func (h *SpectatorHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.events:
			h.broadcast(msg)
		}
	}
}

func (h *SpectatorHub) broadcast(msg ws.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, conn := range h.connections {
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Debug().Err(err).Str("spectator", id).Msg("write failed")
		}
	}
}

func (h *SpectatorHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.connections {
		conn.Close()
		delete(h.connections, id)
	}
}

// HandleConnection serves one spectator until it disconnects.
func (h *SpectatorHub) HandleConnection(c *websocket.Conn) {
	id, _ := c.Locals("wsConnectionID").(string)
	if id == "" {
		id = uuid.NewString()
	}
	log := h.log.With().Str("spectator", id).Logger()

	h.mu.Lock()
	if old, ok := h.connections[id]; ok {
		old.Close()
	}
	h.connections[id] = c
	snapshot := h.snapshot
	if snapshot != nil {
		msg, err := ws.NewMessage(ws.MessageTypeSnapshot, snapshot())
		if err == nil {
			err = c.WriteJSON(msg)
		}
		if err != nil {
			log.Warn().Err(err).Msg("initial snapshot failed")
		}
	}
	h.mu.Unlock()
	log.Info().Msg("spectator joined")

	// Spectators only listen; reading detects the close.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	if h.connections[id] == c {
		delete(h.connections, id)
	}
	h.mu.Unlock()
	log.Info().Msg("spectator left")
}

// Count returns the number of connected spectators.
func (h *SpectatorHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Register mounts the spectator endpoint.
func (h *SpectatorHub) Register(router fiber.Router) {
	router.Use("/ws", middleware.EnsureConnectionID(), middleware.WebSocketUpgrade())
	router.Get("/ws/spectate", websocket.New(h.HandleConnection))
}
