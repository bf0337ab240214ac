// Package networktest provides an in-memory network.Transport for tests.
package networktest

import (
	"sync"

	"github.com/benbeisheim/lockstep-chess/internal/network"
)

// Network connects Endpoints by port without touching sockets.
type Network struct {
	mu        sync.Mutex
	listeners map[int]*Endpoint
}

func NewNetwork() *Network {
	return &Network{listeners: make(map[int]*Endpoint)}
}

var _ network.Transport = (*Endpoint)(nil)

// Endpoint implements network.Transport over a Network.
type Endpoint struct {
	net *Network
	cfg network.Config

	listening  bool
	port       int
	clients    []*Endpoint
	fromClient [][][]byte

	server     *Endpoint
	fromServer [][]byte

	// Sent records every chunk this endpoint wrote, in order.
	Sent [][]byte
}

func (n *Network) Endpoint(cfg network.Config) *Endpoint {
	return &Endpoint{net: n, cfg: cfg}
}

func (e *Endpoint) Config() network.Config {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	return e.cfg
}

func (e *Endpoint) SetAddress(host string, port int) error {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	if e.listening || e.server != nil {
		return network.ErrConnectionLive
	}
	if host != "" {
		e.cfg.Host = host
	}
	if port > 0 {
		e.cfg.Port = port
	}
	return nil
}

func (e *Endpoint) Listen(port int) error {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	if e.listening {
		return network.ErrAlreadyListening
	}
	if e.server != nil {
		return network.ErrConnectionLive
	}
	if port <= 0 {
		port = e.cfg.Port
	}
	e.listening, e.port = true, port
	e.cfg.Port = port
	e.clients, e.fromClient = nil, nil
	e.net.listeners[port] = e
	return nil
}

func (e *Endpoint) Connect(host string, port int) error {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	if e.server != nil {
		return network.ErrAlreadyConnected
	}
	if e.listening {
		return network.ErrConnectionLive
	}
	if port <= 0 {
		port = e.cfg.Port
	}
	srv, ok := e.net.listeners[port]
	if !ok {
		return network.ErrNotConnected
	}
	e.server = srv
	if host != "" {
		e.cfg.Host = host
	}
	e.cfg.Port = port
	srv.clients = append(srv.clients, e)
	srv.fromClient = append(srv.fromClient, nil)
	return nil
}

func (e *Endpoint) Disconnect() error {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	if !e.listening && e.server == nil {
		return network.ErrNotConnected
	}
	if e.listening {
		for _, c := range e.clients {
			if c.server == e {
				c.server, c.fromServer = nil, nil
			}
		}
		delete(e.net.listeners, e.port)
		e.listening, e.clients, e.fromClient = false, nil, nil
	}
	if srv := e.server; srv != nil {
		// The slot stays so the server can still read what was sent before.
		for i, c := range srv.clients {
			if c == e {
				srv.clients[i] = &Endpoint{net: e.net}
			}
		}
		e.server, e.fromServer = nil, nil
	}
	return nil
}

func (e *Endpoint) ClientState() network.ClientState {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	if e.server != nil {
		return network.ClientConnected
	}
	return network.ClientDisconnected
}

func (e *Endpoint) ServerState() network.ServerState {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	if e.listening {
		return network.ServerListening
	}
	return network.ServerStopped
}

func (e *Endpoint) HasDataFromServer() bool {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	return len(e.fromServer) > 0
}

func (e *Endpoint) ReceiveFromServer() []byte {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	return pop(&e.fromServer)
}

func (e *Endpoint) SendToServer(data []byte) error {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	srv := e.server
	if srv == nil {
		return network.ErrNotConnected
	}
	e.Sent = append(e.Sent, clone(data))
	for i, c := range srv.clients {
		if c == e {
			srv.fromClient[i] = append(srv.fromClient[i], clone(data))
		}
	}
	return nil
}

func (e *Endpoint) ClientSlotCount() int {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	return len(e.clients)
}

func (e *Endpoint) ConnectedClientCount() int {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	live := 0
	for _, c := range e.clients {
		if c.server == e {
			live++
		}
	}
	return live
}

func (e *Endpoint) HasDataFromClient(index int) bool {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	return index >= 0 && index < len(e.fromClient) && len(e.fromClient[index]) > 0
}

func (e *Endpoint) ReceiveFromClient(index int) []byte {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	if index < 0 || index >= len(e.fromClient) {
		return nil
	}
	return pop(&e.fromClient[index])
}

func (e *Endpoint) SendToClients(data []byte) error {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	if !e.listening {
		return network.ErrNotConnected
	}
	sent := false
	for _, c := range e.clients {
		if c.server == e {
			c.fromServer = append(c.fromServer, clone(data))
			sent = true
		}
	}
	if !sent {
		return network.ErrNotConnected
	}
	e.Sent = append(e.Sent, clone(data))
	return nil
}

// DeliverFromServer queues data as if the server had sent it.
func (e *Endpoint) DeliverFromServer(data []byte) {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	e.fromServer = append(e.fromServer, clone(data))
}

func pop(q *[][]byte) []byte {
	if len(*q) == 0 {
		return nil
	}
	next := (*q)[0]
	*q = (*q)[1:]
	return next
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
