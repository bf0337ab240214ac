package network

import (
	"net"
	"testing"
	"time"

	"github.com/benbeisheim/lockstep-chess/internal/testutil"
	"github.com/rs/zerolog"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	testutil.AssertNoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	testutil.AssertNoError(t, ln.Close())
	return port
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWSTransportDropsClosedClients(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = freePort(t)
	host := NewWSTransport(cfg, zerolog.Nop())
	client := NewWSTransport(cfg, zerolog.Nop())

	testutil.AssertNoError(t, host.Listen(0))
	t.Cleanup(func() { host.Disconnect() })
	testutil.AssertNoError(t, client.Connect("", 0))
	waitFor(t, "client to be accepted", func() bool { return host.ConnectedClientCount() == 1 })

	testutil.AssertNoError(t, client.SendToServer([]byte("ChessBegin\x00")))
	waitFor(t, "data from client", func() bool { return host.HasDataFromClient(0) })
	testutil.AssertEqual(t, string(host.ReceiveFromClient(0)), "ChessBegin\x00")

	testutil.AssertNoError(t, client.Disconnect())
	waitFor(t, "client to be dropped", func() bool { return host.ConnectedClientCount() == 0 })
	testutil.AssertEqual(t, host.ClientSlotCount(), 1)
	testutil.AssertErrorIs(t, host.SendToClients([]byte("ChessMove from=E2 to=E4\x00")), ErrNotConnected)
}
