package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/benbeisheim/lockstep-chess/internal/console"
	"github.com/benbeisheim/lockstep-chess/internal/model"
	"github.com/benbeisheim/lockstep-chess/internal/network"
)

type commandSpec struct {
	name    string
	usage   string
	handler console.Handler
}

func (s *GameService) commands() []commandSpec {
	return []commandSpec{
		{"ChessMove", "ChessMove from=<square> to=<square> [promoteTo=<piece>] [teleport=true]", s.cmdChessMove},
		{"ChessMatch", "ChessMatch args=reset", s.cmdChessMatch},
		{"ChessBegin", "ChessBegin [firstPlayer=<name>]", s.cmdChessBegin},
		{"ChessBoard", "ChessBoard", s.cmdChessBoard},
		{"ChessServerInfo", "ChessServerInfo [ip=<host>] [port=<port>]", s.cmdChessServerInfo},
		{"ChessListen", "ChessListen [port=<port>]", s.cmdChessListen},
		{"ChessConnect", "ChessConnect [ip=<host>] [port=<port>]", s.cmdChessConnect},
		{"ChessDisconnect", "ChessDisconnect [reason=<word>]", s.cmdChessDisconnect},
		{"ChessPlayerInfo", "ChessPlayerInfo name=<name>", s.cmdChessPlayerInfo},
		{"RemoteCmd", "RemoteCmd cmd=<command line>", s.cmdRemoteCmd},
	}
}

func (s *GameService) registerCommands() {
	for _, c := range s.commands() {
		s.console.Register(c.name, c.usage, c.handler)
	}
}

func (s *GameService) usage(a console.Args, err error) {
	for _, c := range s.commands() {
		if c.name == a.Name {
			s.console.Warnf("%v; usage: %s", err, c.usage)
			return
		}
	}
	s.console.Warnf("%v", err)
}

func cutName(line string) (string, string, bool) {
	return strings.Cut(strings.TrimSpace(line), " ")
}

func hasRemoteArg(rest string) bool {
	_, ok := console.RawArg(rest, "remote")
	return ok
}

// strayRemote rejects peer commands that arrive while no multiplayer session is set up.
func (s *GameService) strayRemote(a console.Args) bool {
	if a.Remote && s.mode == ModeSinglePlayer {
		s.console.Warnf("Ignored %s from a peer outside a multiplayer session", a.Name)
		return true
	}
	return false
}

// localOnly rejects commands that only make sense on this machine.
func (s *GameService) localOnly(a console.Args) bool {
	if a.Remote {
		s.console.Warnf("Ignored %s from a peer: it can only be issued locally", a.Name)
		return true
	}
	return false
}

// broadcast forwards a locally issued command to the peers, if any.
func (s *GameService) broadcast(command string) {
	if !s.relay.Active() {
		return
	}
	if err := s.relay.Send(command); err != nil {
		s.console.Warnf("Could not send to peer: %v", err)
		s.log.Warn().Err(err).Str("command", command).Msg("relay failed")
	}
}

func (s *GameService) printTurn() {
	for _, line := range s.match.RenderBoard() {
		s.console.Printf("%s", line)
	}
	switch s.match.State() {
	case model.StateEnded:
		winner, _ := s.match.Winner()
		s.console.Printf("[%s] wins the game", winner.DisplayName)
		s.console.Printf("Enter \"ChessMatch args=reset\" to play again")
	case model.StateIdle:
		s.console.Printf("Waiting for ChessBegin")
	default:
		s.console.Printf("Current player = [ %s ]", s.match.CurrentFaction().DisplayName)
	}
}

func (s *GameService) ownsTurn(remote bool) bool {
	if s.mode == ModeSinglePlayer {
		return true
	}
	current := s.match.CurrentFaction()
	localTurn := current.ID == s.localFaction
	switch {
	case remote && localTurn:
		s.console.Warnf("Rejected move from peer: it is your turn")
		return false
	case !remote && !localTurn:
		s.console.Warnf("It is not your turn, waiting for [ %s ]", current.DisplayName)
		return false
	}
	return true
}

func moveCommand(req model.MoveRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ChessMove from=%s to=%s", req.From, req.To)
	if req.PromoteTo != model.KindNone {
		fmt.Fprintf(&b, " promoteTo=%s", req.PromoteTo)
	}
	if req.Teleport {
		b.WriteString(" teleport=true")
	}
	return b.String()
}

func (s *GameService) cmdChessMove(a console.Args) error {
	if s.strayRemote(a) {
		return nil
	}
	if s.match.State() != model.StateActive {
		s.console.Warnf("%s", model.InvalidMatchInactive)
		return nil
	}
	from, err := a.Find("from")
	if err != nil {
		s.usage(a, err)
		return nil
	}
	to, err := a.Find("to")
	if err != nil {
		s.usage(a, err)
		return nil
	}

	req := model.MoveRequest{From: model.ParsePosition(from.Value), To: model.ParsePosition(to.Value)}
	if !req.From.IsValid() || !req.To.IsValid() {
		s.console.Warnf("%s: from=%s to=%s", model.InvalidBadLocation, from.Value, to.Value)
		return nil
	}
	if p, err := a.Find("promoteTo"); err == nil {
		kind, ok := model.ParsePieceKind(p.Value)
		if ok && kind.IsPromotionTarget() {
			req.PromoteTo = kind
		} else {
			s.console.Warnf("Cannot promote to %s; choose Knight, Bishop, Rook or Queen", p.Value)
		}
	}
	if p, err := a.Find("teleport"); err == nil {
		if p.Value != "TRUE" {
			s.console.Warnf("teleport only accepts teleport=true")
			return nil
		}
		req.Teleport = true
	}
	if !s.ownsTurn(a.Remote) {
		return nil
	}

	mover := s.match.CurrentFaction()
	var result model.MoveResult
	if req.Teleport {
		s.console.Warnf("Teleporting %s to %s", req.From, req.To)
		result = s.match.ExecuteTeleport(req.From, req.To)
	} else {
		result = s.match.ExecuteMove(req.From, req.To, req.PromoteTo)
	}
	if !result.Valid() {
		s.console.Warnf("%s", result)
		s.log.Debug().Str("result", result.Code()).Bool("remote", a.Remote).Msg("move rejected")
		return nil
	}

	s.console.Printf("[%s] %s -> %s: %s", mover.DisplayName, req.From, req.To, result)
	if req.PromoteTo != model.KindNone && !result.IsPromotion() {
		s.console.Warnf("Ignored promoteTo=%s, the move is not a promotion", req.PromoteTo)
	}
	s.log.Info().Str("result", result.Code()).Str("from", req.From.String()).Str("to", req.To.String()).
		Bool("remote", a.Remote).Int("turn", s.match.TurnCounter()).Msg("move executed")
	if !a.Remote {
		s.broadcast(moveCommand(req))
	}
	s.printTurn()
	return nil
}

func (s *GameService) cmdChessMatch(a console.Args) error {
	if s.strayRemote(a) {
		return nil
	}
	p, err := a.Find("args")
	if err != nil {
		s.usage(a, err)
		return nil
	}
	if p.Value != "RESET" {
		s.usage(a, fmt.Errorf("unknown match action %s", p.Value))
		return nil
	}
	if err := s.newMatch(true); err != nil {
		return err
	}
	s.console.Printf("Match reset")
	if !a.Remote {
		s.broadcast("ChessMatch args=reset")
	}
	s.printTurn()
	return nil
}

func (s *GameService) cmdChessBegin(a console.Args) error {
	if s.strayRemote(a) {
		return nil
	}
	if s.match.State() != model.StateIdle {
		s.console.Warnf("The match has already begun")
		return nil
	}
	first := s.match.Factions()[0]
	if p, err := a.Find("firstPlayer"); err == nil {
		f, ok := s.match.FactionByName(p.Value)
		if !ok {
			s.console.Warnf("No player named %s", p.Value)
			return nil
		}
		first = f
	} else if errors.Is(err, console.ErrMalformedArgs) {
		s.usage(a, err)
		return nil
	}
	if err := s.match.Begin(first.ID); err != nil {
		s.console.Warnf("%v", err)
		return nil
	}
	s.console.Printf("Match started, [ %s ] moves first", first.DisplayName)
	if !a.Remote {
		s.broadcast("ChessBegin firstPlayer=" + first.DisplayName)
	}
	s.printTurn()
	return nil
}

func (s *GameService) cmdChessBoard(a console.Args) error {
	if s.localOnly(a) {
		return nil
	}
	s.console.Printf("Match %s, turn %d, %s mode", s.match.ID, s.match.TurnCounter(), s.mode)
	s.printTurn()
	used := make([]string, 0, 2)
	for _, f := range s.match.Factions() {
		spent := s.match.ThinkingTime(f.ID).Round(100 * time.Millisecond)
		used = append(used, fmt.Sprintf("[ %s ] %s", f.DisplayName, spent))
	}
	s.console.Printf("Time used: %s", strings.Join(used, ", "))
	return nil
}

func parsePort(value string) (int, error) {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", value)
	}
	return port, nil
}

// addressArgs reads the optional ip= and port= arguments.
func addressArgs(a console.Args) (string, int, error) {
	host, port := "", 0
	if p, err := a.Find("ip"); err == nil {
		host = strings.ToLower(p.Value)
	} else if errors.Is(err, console.ErrMalformedArgs) {
		return "", 0, err
	}
	if p, err := a.Find("port"); err == nil {
		n, err := parsePort(p.Value)
		if err != nil {
			return "", 0, err
		}
		port = n
	}
	return host, port, nil
}

func (s *GameService) cmdChessServerInfo(a console.Args) error {
	if s.localOnly(a) {
		return nil
	}
	host, port, err := addressArgs(a)
	if err != nil {
		s.usage(a, err)
		return nil
	}
	if host != "" || port != 0 {
		if err := s.transport.SetAddress(host, port); err != nil {
			s.console.Warnf("Cannot change the server address: %v", err)
			return nil
		}
	}
	cfg := s.transport.Config()
	s.console.Printf("Server address %s:%d, %s framing", cfg.Host, cfg.Port, cfg.Mode)
	return nil
}

func (s *GameService) canGoMultiplayer() bool {
	if len(s.baseLayout.Factions) < 2 {
		s.console.Warnf("Multiplayer needs a layout with two factions")
		return false
	}
	return true
}

func (s *GameService) cmdChessListen(a console.Args) error {
	if s.localOnly(a) || !s.canGoMultiplayer() {
		return nil
	}
	_, port, err := addressArgs(a)
	if err != nil {
		s.usage(a, err)
		return nil
	}
	if err := s.transport.Listen(port); err != nil {
		s.console.Warnf("Could not listen: %v", err)
		return nil
	}
	s.dispatcher.Reset()
	s.setMode(ModeHost, 0)
	if err := s.newMatch(false); err != nil {
		return err
	}
	s.console.Printf("Listening on port %d as [ %s ]", s.transport.Config().Port, s.layout.Factions[0].DisplayName)
	s.console.Printf("Enter ChessBegin once your opponent has joined")
	return nil
}

func (s *GameService) cmdChessConnect(a console.Args) error {
	if s.localOnly(a) || !s.canGoMultiplayer() {
		return nil
	}
	host, port, err := addressArgs(a)
	if err != nil {
		s.usage(a, err)
		return nil
	}
	if err := s.transport.Connect(host, port); err != nil {
		s.console.Warnf("Could not connect: %v", err)
		return nil
	}
	s.dispatcher.Reset()
	s.setMode(ModeClient, 1)
	if err := s.newMatch(false); err != nil {
		return err
	}
	cfg := s.transport.Config()
	s.console.Printf("Connected to %s:%d as [ %s ]", cfg.Host, cfg.Port, s.layout.Factions[1].DisplayName)
	s.announce()
	return nil
}

func (s *GameService) announce() {
	s.announced = true
	s.broadcast("ChessPlayerInfo name=" + s.layout.Factions[s.localFaction].DisplayName)
}

func (s *GameService) peerFaction() int {
	if s.localFaction == 0 {
		return 1
	}
	return 0
}

func (s *GameService) leaveMultiplayer() {
	s.dispatcher.Reset()
	s.setMode(ModeSinglePlayer, 0)
	if err := s.newMatch(true); err != nil {
		s.console.Errorf("Could not restart match: %v", err)
		s.log.Error().Err(err).Msg("could not restart match")
		return
	}
	s.console.Printf("Back to single-player")
	s.printTurn()
}

// awaitNewPeer keeps listening after the only client left. The next client
// starts from a fresh idle match.
func (s *GameService) awaitNewPeer() {
	s.setMode(ModeHost, 0)
	if err := s.newMatch(false); err != nil {
		s.console.Errorf("Could not restart match: %v", err)
		return
	}
	s.console.Printf("Still listening on port %d; enter ChessBegin once a new opponent has joined", s.transport.Config().Port)
}

func (s *GameService) cmdChessDisconnect(a console.Args) error {
	if s.strayRemote(a) {
		return nil
	}
	if !s.relay.Active() && s.mode == ModeSinglePlayer {
		s.console.Warnf("%v", network.ErrNotConnected)
		return nil
	}
	reason, ok := console.RawArg(a.Line, "reason")
	if !ok || reason == "" {
		reason = "no reason given"
	}
	if !a.Remote {
		s.broadcast("ChessDisconnect reason=" + strings.Join(strings.Fields(reason), "_"))
	}
	if err := s.transport.Disconnect(); err != nil && !errors.Is(err, network.ErrNotConnected) {
		s.console.Warnf("Disconnect: %v", err)
	}
	if a.Remote {
		s.console.Printf("Peer disconnected: %s", reason)
	} else {
		s.console.Printf("Disconnected: %s", reason)
	}
	s.leaveMultiplayer()
	return nil
}

func (s *GameService) cmdChessPlayerInfo(a console.Args) error {
	if s.strayRemote(a) {
		return nil
	}
	if _, err := a.Find("name"); err != nil {
		s.usage(a, err)
		return nil
	}
	name, _ := console.RawArg(a.Line, "name")
	if name == "" {
		s.usage(a, errors.New("empty name"))
		return nil
	}

	if !a.Remote {
		if err := s.match.SetFactionName(s.localFaction, name); err != nil {
			return err
		}
		s.layout.Factions[s.localFaction].DisplayName = name
		s.localName = name
		s.console.Printf("You are now [ %s ]", name)
		if s.relay.Active() {
			s.announce()
		}
		return nil
	}

	peer := s.peerFaction()
	if err := s.match.SetFactionName(peer, name); err != nil {
		return err
	}
	s.layout.Factions[peer].DisplayName = name
	s.console.Printf("Opponent is [ %s ]", name)
	if !s.announced {
		s.announce()
	}
	return nil
}

func (s *GameService) cmdRemoteCmd(a console.Args) error {
	if s.localOnly(a) {
		return nil
	}
	inner, ok := console.RawTail(a.Line, "cmd")
	if !ok || inner == "" {
		s.usage(a, console.ErrArgNotFound)
		return nil
	}
	if !s.relay.Active() {
		s.console.Warnf("%v", network.ErrNotConnected)
		return nil
	}
	if err := s.relay.Send(inner); err != nil {
		s.console.Warnf("Could not send to peer: %v", err)
		return nil
	}
	s.console.Printf("Sent to peer: %s", inner)
	return nil
}
