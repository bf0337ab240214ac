package network_test

import (
	"errors"
	"testing"

	"github.com/benbeisheim/lockstep-chess/internal/network"
	"github.com/benbeisheim/lockstep-chess/internal/network/networktest"
	"github.com/benbeisheim/lockstep-chess/internal/testutil"
	"github.com/rs/zerolog"
)

type recorder struct {
	lines []string
	err   error
}

func (r *recorder) execute(line string) error {
	r.lines = append(r.lines, line)
	return r.err
}

func TestDispatchServerMessages(t *testing.T) {
	cfg := network.DefaultConfig()
	ep := networktest.NewNetwork().Endpoint(cfg)
	rec := &recorder{}
	d := network.NewDispatcher(ep, network.NewFramer(cfg), rec.execute, zerolog.Nop())

	testutil.AssertFalse(t, d.DispatchPending(), "nothing queued")

	ep.DeliverFromServer([]byte("ChessMove from=E2 to=E4\x00Chess"))
	testutil.AssertTrue(t, d.DispatchPending())
	ep.DeliverFromServer([]byte("Match args=reset\x00"))
	testutil.AssertTrue(t, d.DispatchPending())

	want := []string{
		"ChessMove from=E2 to=E4 remote=true",
		"ChessMatch args=reset remote=true",
	}
	testutil.AssertEqual(t, rec.lines, want)
}

func TestDispatchClientsInIndexOrder(t *testing.T) {
	cfg := network.DefaultConfig()
	n := networktest.NewNetwork()
	host := n.Endpoint(cfg)
	alice := n.Endpoint(cfg)
	bob := n.Endpoint(cfg)
	testutil.AssertNoError(t, host.Listen(0))
	testutil.AssertNoError(t, alice.Connect("", 0))
	testutil.AssertNoError(t, bob.Connect("", 0))

	framer := network.NewFramer(cfg)
	send := func(ep *networktest.Endpoint, cmd string) {
		data, err := framer.Encode(cmd)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, ep.SendToServer(data))
	}
	send(bob, "from-bob")
	send(alice, "from-alice-1")
	send(alice, "from-alice-2")

	rec := &recorder{err: errors.New("ignored")}
	d := network.NewDispatcher(host, framer, rec.execute, zerolog.Nop())
	testutil.AssertTrue(t, d.DispatchPending())

	want := []string{
		"from-alice-1 remote=true",
		"from-alice-2 remote=true",
		"from-bob remote=true",
	}
	testutil.AssertEqual(t, rec.lines, want)
	testutil.AssertFalse(t, d.DispatchPending(), "queue drained")
}

func TestDispatcherSurvivesDisconnectMidFrame(t *testing.T) {
	cfg := network.DefaultConfig()
	n := networktest.NewNetwork()
	host := n.Endpoint(cfg)
	client := n.Endpoint(cfg)
	testutil.AssertNoError(t, host.Listen(0))
	testutil.AssertNoError(t, client.Connect("", 0))
	testutil.AssertNoError(t, client.SendToServer([]byte("ChessDisconnect\x00help\x00")))

	var d *network.Dispatcher
	var lines []string
	d = network.NewDispatcher(host, network.NewFramer(cfg), func(line string) error {
		lines = append(lines, line)
		host.Disconnect()
		d.Reset()
		return nil
	}, zerolog.Nop())

	testutil.AssertTrue(t, d.DispatchPending())
	testutil.AssertEqual(t, len(lines), 2)
}

func TestRelaySend(t *testing.T) {
	cfg := network.DefaultConfig()
	n := networktest.NewNetwork()
	host := n.Endpoint(cfg)
	client := n.Endpoint(cfg)
	framer := network.NewFramer(cfg)

	relay := network.NewRelay(client, framer)
	testutil.AssertFalse(t, relay.Active())
	testutil.AssertErrorIs(t, relay.Send("help"), network.ErrNotConnected)

	testutil.AssertNoError(t, host.Listen(0))
	hostRelay := network.NewRelay(host, framer)
	testutil.AssertErrorIs(t, hostRelay.Send("help"), network.ErrNotConnected, "listening without clients")

	testutil.AssertNoError(t, client.Connect("", 0))
	testutil.AssertTrue(t, relay.Active())
	testutil.AssertNoError(t, relay.Send("ChessMove from=E2 to=E4"))
	testutil.AssertEqual(t, client.Sent, [][]byte{[]byte("ChessMove from=E2 to=E4\x00")})

	testutil.AssertNoError(t, hostRelay.Send("ChessMove from=E7 to=E5"))
	testutil.AssertEqual(t, client.ReceiveFromServer(), []byte("ChessMove from=E7 to=E5\x00"))
}

func TestClientThatLeftIsNotCounted(t *testing.T) {
	cfg := network.DefaultConfig()
	n := networktest.NewNetwork()
	host := n.Endpoint(cfg)
	client := n.Endpoint(cfg)
	framer := network.NewFramer(cfg)
	testutil.AssertNoError(t, host.Listen(0))
	testutil.AssertNoError(t, client.Connect("", 0))
	testutil.AssertNoError(t, client.SendToServer([]byte("ChessDisconnect reason=bye\x00")))
	testutil.AssertNoError(t, client.Disconnect())

	testutil.AssertEqual(t, host.ConnectedClientCount(), 0)
	testutil.AssertEqual(t, host.ClientSlotCount(), 1)
	testutil.AssertErrorIs(t, network.NewRelay(host, framer).Send("help"), network.ErrNotConnected)

	// what it sent before leaving is still delivered
	rec := &recorder{}
	d := network.NewDispatcher(host, framer, rec.execute, zerolog.Nop())
	testutil.AssertTrue(t, d.DispatchPending())
	testutil.AssertEqual(t, rec.lines, []string{"ChessDisconnect reason=bye remote=true"})
}
