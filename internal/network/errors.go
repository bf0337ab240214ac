package network

import "errors"

var (
	ErrNotConnected       = errors.New("no peer connection")
	ErrAlreadyListening   = errors.New("already listening for peers")
	ErrAlreadyConnected   = errors.New("already connected to a server")
	ErrConnectionLive     = errors.New("a connection is live")
	ErrMessageTooLarge    = errors.New("message exceeds size limit")
	ErrDelimiterInMessage = errors.New("message contains the delimiter")
	ErrUnknownMode        = errors.New("unknown boundary mode")
)
