package service

import "errors"

var (
	ErrNoTransport    = errors.New("no transport configured")
	ErrReservedRemote = errors.New("remote= is reserved for commands from peers")
)
