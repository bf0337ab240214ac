package network

import (
	"fmt"
	"strings"
)

// BoundaryMode decides how a byte stream is cut into command messages.
type BoundaryMode int

const (
	NullTerminated BoundaryMode = iota
	RawBytes
	LengthPrefixed
)

func (m BoundaryMode) String() string {
	switch m {
	case NullTerminated:
		return "null-terminated"
	case RawBytes:
		return "raw"
	case LengthPrefixed:
		return "length-prefixed"
	}
	return fmt.Sprintf("BoundaryMode(%d)", int(m))
}

func ParseBoundaryMode(s string) (BoundaryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "null-terminated", "delimited":
		return NullTerminated, nil
	case "raw", "raw-bytes":
		return RawBytes, nil
	case "length", "length-prefixed":
		return LengthPrefixed, nil
	}
	return NullTerminated, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

const (
	DefaultPort           = 3100
	DefaultMaxMessageSize = 32 << 10
)

type Config struct {
	Host           string
	Port           int
	Mode           BoundaryMode
	Delimiter      byte
	MaxMessageSize int
}

func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           DefaultPort,
		Mode:           NullTerminated,
		Delimiter:      0,
		MaxMessageSize: DefaultMaxMessageSize,
	}
}
