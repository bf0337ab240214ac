package network

type ClientState int

const (
	ClientDisconnected ClientState = iota
	ClientConnecting
	ClientConnected
)

func (s ClientState) String() string {
	switch s {
	case ClientConnecting:
		return "connecting"
	case ClientConnected:
		return "connected"
	}
	return "disconnected"
}

type ServerState int

const (
	ServerStopped ServerState = iota
	ServerListening
)

func (s ServerState) String() string {
	if s == ServerListening {
		return "listening"
	}
	return "stopped"
}

// Transport moves opaque byte chunks between this process and its peers.
// A process is either a client of one server or a server to many clients.
// Every accepted client keeps its index for the life of a listening session,
// even after it disconnects, so data it sent before leaving can still be read.
type Transport interface {
	Config() Config
	SetAddress(host string, port int) error

	Listen(port int) error
	Connect(host string, port int) error
	Disconnect() error

	ClientState() ClientState
	ServerState() ServerState

	HasDataFromServer() bool
	ReceiveFromServer() []byte
	SendToServer(data []byte) error

	// ClientSlotCount is the number of clients accepted since Listen,
	// closed ones included. Valid client indexes are below it.
	ClientSlotCount() int
	// ConnectedClientCount counts only clients whose connection is open.
	ConnectedClientCount() int
	HasDataFromClient(index int) bool
	ReceiveFromClient(index int) []byte
	SendToClients(data []byte) error
}
