package network

import (
	"github.com/rs/zerolog"
)

// RemoteSuffix is appended to every command that arrives from a peer.
const RemoteSuffix = " remote=true"

// maxReceivesPerPeer bounds how many chunks one peer can feed in a single frame.
const maxReceivesPerPeer = 64

// Executor runs one command line.
type Executor func(line string) error

// Dispatcher drains a transport once per frame and runs the commands it
// finds, server first and then each client in connection order.
type Dispatcher struct {
	transport     Transport
	framer        *Framer
	execute       Executor
	log           zerolog.Logger
	serverBuffer  PeerBuffer
	clientBuffers []PeerBuffer
}

func NewDispatcher(transport Transport, framer *Framer, execute Executor, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		transport:     transport,
		framer:        framer,
		execute:       execute,
		log:           log.With().Str("component", "dispatcher").Logger(),
		clientBuffers: make([]PeerBuffer, 0, 20),
	}
}

// DispatchPending runs every complete command received since the last call
// and reports whether any ran.
func (d *Dispatcher) DispatchPending() bool {
	processed := d.dispatchServer()
	if d.dispatchClients() {
		processed = true
	}
	return processed
}

func (d *Dispatcher) dispatchServer() bool {
	processed := false
	for i := 0; i < maxReceivesPerPeer && d.transport.HasDataFromServer(); i++ {
		data := d.transport.ReceiveFromServer()
		commands, err := d.framer.Ingest(&d.serverBuffer, data)
		if err != nil {
			d.log.Warn().Err(err).Str("peer", "server").Msg("dropped message")
		}
		for _, cmd := range commands {
			d.run(cmd, "server")
			processed = true
		}
	}
	return processed
}

func (d *Dispatcher) dispatchClients() bool {
	if d.transport.ServerState() != ServerListening {
		return false
	}
	count := d.transport.ClientSlotCount()
	for len(d.clientBuffers) < count {
		d.clientBuffers = append(d.clientBuffers, PeerBuffer{})
	}

	processed := false
	for index := 0; index < count; index++ {
		for i := 0; i < maxReceivesPerPeer && d.transport.HasDataFromClient(index); i++ {
			// A command may have torn the connection down.
			if index >= len(d.clientBuffers) {
				return processed
			}
			data := d.transport.ReceiveFromClient(index)
			commands, err := d.framer.Ingest(&d.clientBuffers[index], data)
			if err != nil {
				d.log.Warn().Err(err).Int("client", index).Msg("dropped message")
			}
			for _, cmd := range commands {
				d.run(cmd, "client")
				processed = true
			}
		}
	}
	return processed
}

func (d *Dispatcher) run(cmd, from string) {
	line := cmd + RemoteSuffix
	if err := d.execute(line); err != nil {
		d.log.Warn().Err(err).Str("from", from).Str("command", cmd).Msg("remote command failed")
	}
}

// Reset forgets all partial messages. Call it after the transport disconnects.
func (d *Dispatcher) Reset() {
	d.serverBuffer.Reset()
	d.clientBuffers = d.clientBuffers[:0]
}
