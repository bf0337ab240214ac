package network

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/benbeisheim/lockstep-chess/internal/middleware"
	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var _ Transport = (*WSTransport)(nil)

// PeerPath is where a listening process accepts peer connections.
const PeerPath = "/ws/peer"

type messageConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type peer struct {
	id      string
	conn    messageConn
	inbox   inbox
	writeMu sync.Mutex
	closed  atomic.Bool
}

func (p *peer) write(data []byte) error {
	if p.closed.Load() {
		return ErrNotConnected
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.conn.WriteMessage(fastws.BinaryMessage, data)
}

func (p *peer) close() {
	if p.closed.CompareAndSwap(false, true) {
		p.conn.Close()
	}
}

// WSTransport carries command bytes over websocket connections. Listening
// starts a fiber app on the peer port; connecting dials that app.
type WSTransport struct {
	mu  sync.RWMutex
	cfg Config
	log zerolog.Logger

	clientState ClientState
	server      *peer

	serverState ServerState
	app         *fiber.App
	clients     []*peer
}

func NewWSTransport(cfg Config, log zerolog.Logger) *WSTransport {
	return &WSTransport{cfg: cfg, log: log.With().Str("component", "transport").Logger()}
}

func (t *WSTransport) Config() Config {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg
}

func (t *WSTransport) live() bool {
	return t.clientState != ClientDisconnected || t.serverState == ServerListening
}

// SetAddress changes the default host and port. It fails while connected.
func (t *WSTransport) SetAddress(host string, port int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.live() {
		return ErrConnectionLive
	}
	if host != "" {
		t.cfg.Host = host
	}
	if port > 0 {
		t.cfg.Port = port
	}
	return nil
}

func (t *WSTransport) Listen(port int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.serverState == ServerListening {
		return ErrAlreadyListening
	}
	if t.clientState != ClientDisconnected {
		return ErrConnectionLive
	}
	if port <= 0 {
		port = t.cfg.Port
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use("/ws", middleware.WebSocketUpgrade())
	app.Get(PeerPath, websocket.New(t.acceptPeer))

	t.app = app
	t.cfg.Port = port
	t.clients = nil
	t.serverState = ServerListening
	go func() {
		if err := app.Listener(ln); err != nil {
			t.log.Error().Err(err).Int("port", port).Msg("peer listener stopped")
		}
	}()
	t.log.Info().Int("port", port).Msg("listening for peers")
	return nil
}

func (t *WSTransport) acceptPeer(c *websocket.Conn) {
	p := &peer{id: uuid.NewString(), conn: c}

	t.mu.Lock()
	if t.serverState != ServerListening {
		t.mu.Unlock()
		c.Close()
		return
	}
	t.clients = append(t.clients, p)
	index := len(t.clients) - 1
	t.mu.Unlock()

	log := t.log.With().Str("peer", p.id).Int("index", index).Logger()
	log.Info().Str("remote", c.RemoteAddr().String()).Msg("peer connected")
	t.readLoop(p)
	log.Info().Msg("peer disconnected")
}

func (t *WSTransport) Connect(host string, port int) error {
	t.mu.Lock()
	if t.clientState != ClientDisconnected {
		t.mu.Unlock()
		return ErrAlreadyConnected
	}
	if t.serverState == ServerListening {
		t.mu.Unlock()
		return ErrConnectionLive
	}
	if host == "" {
		host = t.cfg.Host
	}
	if port <= 0 {
		port = t.cfg.Port
	}
	t.clientState = ClientConnecting
	t.mu.Unlock()

	url := fmt.Sprintf("ws://%s%s", net.JoinHostPort(host, strconv.Itoa(port)), PeerPath)
	conn, _, err := fastws.DefaultDialer.Dial(url, nil)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.clientState = ClientDisconnected
		return fmt.Errorf("connect to %s: %w", url, err)
	}
	p := &peer{id: uuid.NewString(), conn: conn}
	t.server = p
	t.clientState = ClientConnected
	t.cfg.Host, t.cfg.Port = host, port
	t.log.Info().Str("url", url).Msg("connected to server")

	go func() {
		t.readLoop(p)
		t.mu.Lock()
		if t.server == p {
			t.clientState = ClientDisconnected
		}
		t.mu.Unlock()
		t.log.Info().Str("url", url).Msg("server connection closed")
	}()
	return nil
}

func (t *WSTransport) readLoop(p *peer) {
	defer p.close()
	for {
		messageType, data, err := p.conn.ReadMessage()
		if err != nil {
			if !p.closed.Load() && !fastws.IsCloseError(err, fastws.CloseNormalClosure, fastws.CloseGoingAway) {
				t.log.Warn().Err(err).Str("peer", p.id).Msg("read error")
			}
			return
		}
		if messageType == fastws.BinaryMessage || messageType == fastws.TextMessage {
			p.inbox.Push(data)
		}
	}
}

// Disconnect closes every connection and stops listening. Queued data that
// has not been received is dropped.
func (t *WSTransport) Disconnect() error {
	t.mu.Lock()
	server, clients, app := t.server, t.clients, t.app
	wasLive := t.live()
	t.server, t.clients, t.app = nil, nil, nil
	t.clientState = ClientDisconnected
	t.serverState = ServerStopped
	t.mu.Unlock()

	if !wasLive {
		return ErrNotConnected
	}
	var errs []error
	if server != nil {
		server.writeMu.Lock()
		server.conn.WriteMessage(fastws.CloseMessage, fastws.FormatCloseMessage(fastws.CloseNormalClosure, ""))
		server.writeMu.Unlock()
		server.close()
	}
	for _, c := range clients {
		c.close()
	}
	if app != nil {
		if err := app.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown peer listener: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (t *WSTransport) ClientState() ClientState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.clientState
}

func (t *WSTransport) ServerState() ServerState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.serverState
}

func (t *WSTransport) HasDataFromServer() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.server != nil && t.server.inbox.Size() > 0
}

func (t *WSTransport) ReceiveFromServer() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.server == nil {
		return nil
	}
	return t.server.inbox.Pop()
}

func (t *WSTransport) SendToServer(data []byte) error {
	t.mu.RLock()
	server := t.server
	t.mu.RUnlock()
	if server == nil {
		return ErrNotConnected
	}
	return server.write(data)
}

func (t *WSTransport) ClientSlotCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.clients)
}

func (t *WSTransport) ConnectedClientCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	live := 0
	for _, c := range t.clients {
		if !c.closed.Load() {
			live++
		}
	}
	return live
}

func (t *WSTransport) client(index int) *peer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.clients) {
		return nil
	}
	return t.clients[index]
}

func (t *WSTransport) HasDataFromClient(index int) bool {
	c := t.client(index)
	return c != nil && c.inbox.Size() > 0
}

func (t *WSTransport) ReceiveFromClient(index int) []byte {
	if c := t.client(index); c != nil {
		return c.inbox.Pop()
	}
	return nil
}

// SendToClients writes data to every open client connection. It fails with
// ErrNotConnected when none is open.
func (t *WSTransport) SendToClients(data []byte) error {
	t.mu.RLock()
	clients := append([]*peer(nil), t.clients...)
	t.mu.RUnlock()

	var errs []error
	sent := 0
	for _, c := range clients {
		if c.closed.Load() {
			continue
		}
		if err := c.write(data); err != nil {
			errs = append(errs, fmt.Errorf("client %s: %w", c.id, err))
			continue
		}
		sent++
	}
	if sent == 0 && len(errs) == 0 {
		return ErrNotConnected
	}
	return errors.Join(errs...)
}
