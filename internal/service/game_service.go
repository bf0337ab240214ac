package service

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/benbeisheim/lockstep-chess/internal/console"
	"github.com/benbeisheim/lockstep-chess/internal/model"
	"github.com/benbeisheim/lockstep-chess/internal/network"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Mode int

const (
	ModeSinglePlayer Mode = iota
	ModeHost
	ModeClient
)

func (m Mode) String() string {
	switch m {
	case ModeHost:
		return "host"
	case ModeClient:
		return "client"
	}
	return "single-player"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type Options struct {
	Layout    model.Layout
	LocalName string
	Transport network.Transport
	Observer  model.Observer
	Output    io.Writer
	Logger    zerolog.Logger
}

// GameService owns the match and everything that can change it. Local
// commands, network ticks and status reads are serialized on one mutex.
type GameService struct {
	mu sync.Mutex

	log        zerolog.Logger
	console    *console.Console
	transport  network.Transport
	relay      *network.Relay
	dispatcher *network.Dispatcher
	observer   model.Observer

	baseLayout model.Layout
	layout     model.Layout
	match      *model.Match

	mode         Mode
	localFaction int
	localName    string
	announced    bool
	peers        int
}

func NewGameService(opts Options) (*GameService, error) {
	if opts.Transport == nil {
		return nil, ErrNoTransport
	}
	if len(opts.Layout.Factions) == 0 {
		opts.Layout = model.StandardLayout()
	}
	if opts.Observer == nil {
		opts.Observer = model.NopObserver{}
	}

	layout := opts.Layout.Clone()
	for i := range layout.Factions {
		layout.Factions[i].DisplayName = sanitizeName(layout.Factions[i].DisplayName)
	}

	log := opts.Logger.With().Str("component", "game").Logger()
	s := &GameService{
		log:        log,
		console:    console.New(opts.Output, opts.Logger.With().Str("component", "console").Logger()),
		transport:  opts.Transport,
		observer:   opts.Observer,
		baseLayout: layout,
		localName:  sanitizeName(opts.LocalName),
	}
	framer := network.NewFramer(opts.Transport.Config())
	s.relay = network.NewRelay(opts.Transport, framer)
	s.dispatcher = network.NewDispatcher(opts.Transport, framer, s.console.ExecuteRemote, opts.Logger)
	s.registerCommands()

	s.setMode(ModeSinglePlayer, 0)
	if err := s.newMatch(true); err != nil {
		return nil, err
	}
	return s, nil
}

// sanitizeName makes a display name fit in a single key=value token.
func sanitizeName(name string) string {
	return strings.ReplaceAll(strings.Join(strings.Fields(name), "_"), "=", "_")
}

// setMode picks the local faction and restores faction names for a new session.
func (s *GameService) setMode(mode Mode, localFaction int) {
	s.mode = mode
	s.localFaction = localFaction
	s.announced = false
	s.peers = 0
	s.layout = s.baseLayout.Clone()
	if s.localName != "" && localFaction < len(s.layout.Factions) {
		s.layout.Factions[localFaction].DisplayName = s.localName
	}
}

func (s *GameService) newMatch(begin bool) error {
	m, err := model.NewMatch(uuid.NewString(), s.layout, s.observer)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	if begin {
		if err := m.Begin(0); err != nil {
			return fmt.Errorf("begin match: %w", err)
		}
	}
	s.match = m
	s.log.Info().Str("match", m.ID).Str("mode", s.mode.String()).Str("state", m.State().String()).Msg("new match")
	return nil
}

// ExecuteLocal runs a line typed by the local user and returns what it printed.
func (s *GameService) ExecuteLocal(line string) []console.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	mark := s.console.Mark()
	if _, rest, _ := cutName(line); hasRemoteArg(rest) {
		s.console.Warnf("%v", ErrReservedRemote)
		return s.console.Since(mark)
	}
	if err := s.console.Execute(line); err != nil {
		s.console.Warnf("%v", err)
	}
	return s.console.Since(mark)
}

// Tick runs commands received from peers since the last tick.
func (s *GameService) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	processed := s.dispatcher.DispatchPending()
	switch s.mode {
	case ModeClient:
		if s.transport.ClientState() == network.ClientDisconnected {
			s.console.Warnf("Lost connection to the server")
			s.leaveMultiplayer()
		}
	case ModeHost:
		live := s.transport.ConnectedClientCount()
		if live == 0 && s.peers > 0 {
			s.console.Warnf("Lost connection to the client")
			s.awaitNewPeer()
		}
		s.peers = live
	}
	return processed
}

type Status struct {
	Mode         Mode                `json:"mode"`
	LocalFaction int                 `json:"localFaction"`
	Client       string              `json:"client"`
	Server       string              `json:"server"`
	Peers        int                 `json:"peers"`
	Host         string              `json:"host"`
	Port         int                 `json:"port"`
	Boundary     string              `json:"boundary"`
	Match        model.MatchSnapshot `json:"match"`
}

func (s *GameService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.transport.Config()
	return Status{
		Mode:         s.mode,
		LocalFaction: s.localFaction,
		Client:       s.transport.ClientState().String(),
		Server:       s.transport.ServerState().String(),
		Peers:        s.transport.ConnectedClientCount(),
		Host:         cfg.Host,
		Port:         cfg.Port,
		Boundary:     cfg.Mode.String(),
		Match:        s.match.Snapshot(),
	}
}

func (s *GameService) History() []model.Ply {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.History()
}

// ConsoleSince returns console lines printed after the given sequence number.
func (s *GameService) ConsoleSince(mark int) []console.Line {
	return s.console.Since(mark)
}

// Snapshot is used by spectators joining mid-match.
func (s *GameService) Snapshot() model.MatchSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Snapshot()
}

// Close drops any peer connection.
func (s *GameService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.relay.Active() {
		return nil
	}
	return s.transport.Disconnect()
}
