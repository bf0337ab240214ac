package network

import "fmt"

// Relay sends locally issued commands to whichever peers are connected.
type Relay struct {
	transport Transport
	framer    *Framer
}

func NewRelay(transport Transport, framer *Framer) *Relay {
	return &Relay{transport: transport, framer: framer}
}

// Active reports whether there is anyone to send to.
func (r *Relay) Active() bool {
	return r.transport.ClientState() == ClientConnected || r.transport.ServerState() == ServerListening
}

// Send frames command and writes it to the server, or to every client when
// this process is listening.
func (r *Relay) Send(command string) error {
	data, err := r.framer.Encode(command)
	if err != nil {
		return fmt.Errorf("encode %q: %w", command, err)
	}
	switch {
	case r.transport.ClientState() == ClientConnected:
		return r.transport.SendToServer(data)
	case r.transport.ServerState() == ServerListening:
		if r.transport.ConnectedClientCount() == 0 {
			return ErrNotConnected
		}
		return r.transport.SendToClients(data)
	}
	return ErrNotConnected
}
