package network

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const lengthPrefixSize = 4

// PeerBuffer holds the bytes received from one peer that do not yet form a
// complete message.
type PeerBuffer struct {
	pending    []byte
	discarding bool
}

func (b *PeerBuffer) Len() int { return len(b.pending) }

func (b *PeerBuffer) Reset() {
	b.pending = b.pending[:0]
	b.discarding = false
}

// Framer turns received bytes into command strings and back.
type Framer struct {
	mode      BoundaryMode
	delimiter byte
	maxSize   int
}

func NewFramer(cfg Config) *Framer {
	maxSize := cfg.MaxMessageSize
	if maxSize <= 0 {
		maxSize = DefaultMaxMessageSize
	}
	return &Framer{mode: cfg.Mode, delimiter: cfg.Delimiter, maxSize: maxSize}
}

func (f *Framer) Mode() BoundaryMode { return f.mode }

// Ingest appends data to buf and returns every complete non-empty message.
// Messages over the size limit are dropped and reported in the error; the
// ones that fit are still returned.
func (f *Framer) Ingest(buf *PeerBuffer, data []byte) ([]string, error) {
	switch f.mode {
	case RawBytes:
		return f.ingestRaw(buf, data)
	case LengthPrefixed:
		return f.ingestLengthPrefixed(buf, data)
	}
	return f.ingestDelimited(buf, data)
}

func (f *Framer) tooLarge(n int) error {
	return fmt.Errorf("%w: %d bytes, limit %d", ErrMessageTooLarge, n, f.maxSize)
}

func (f *Framer) ingestDelimited(buf *PeerBuffer, data []byte) ([]string, error) {
	if buf.discarding {
		i := bytes.IndexByte(data, f.delimiter)
		if i < 0 {
			return nil, nil
		}
		data = data[i+1:]
		buf.discarding = false
	}
	buf.pending = append(buf.pending, data...)

	var (
		messages []string
		err      error
		start    int
	)
	for {
		i := bytes.IndexByte(buf.pending[start:], f.delimiter)
		if i < 0 {
			break
		}
		msg := buf.pending[start : start+i]
		switch {
		case len(msg) > f.maxSize:
			err = f.tooLarge(len(msg))
		case len(msg) > 0:
			messages = append(messages, string(msg))
		}
		start += i + 1
	}

	rest := buf.pending[start:]
	if len(rest) > f.maxSize {
		err = f.tooLarge(len(rest))
		buf.discarding = true
		rest = rest[:0]
	}
	buf.pending = append(buf.pending[:0], rest...)
	return messages, err
}

// ingestRaw treats each receive as exactly one message.
func (f *Framer) ingestRaw(buf *PeerBuffer, data []byte) ([]string, error) {
	buf.Reset()
	msg := bytes.ReplaceAll(data, []byte{0}, nil)
	if len(msg) > f.maxSize {
		return nil, f.tooLarge(len(msg))
	}
	if len(msg) == 0 {
		return nil, nil
	}
	return []string{string(msg)}, nil
}

func (f *Framer) ingestLengthPrefixed(buf *PeerBuffer, data []byte) ([]string, error) {
	buf.pending = append(buf.pending, data...)

	var messages []string
	start := 0
	for len(buf.pending)-start >= lengthPrefixSize {
		n := int(binary.BigEndian.Uint32(buf.pending[start:]))
		if n > f.maxSize {
			buf.Reset()
			return messages, f.tooLarge(n)
		}
		end := start + lengthPrefixSize + n
		if end > len(buf.pending) {
			break
		}
		if n > 0 {
			messages = append(messages, string(buf.pending[start+lengthPrefixSize:end]))
		}
		start = end
	}
	buf.pending = append(buf.pending[:0], buf.pending[start:]...)
	return messages, nil
}

// Encode frames one command for sending.
func (f *Framer) Encode(command string) ([]byte, error) {
	if len(command) > f.maxSize {
		return nil, f.tooLarge(len(command))
	}
	switch f.mode {
	case RawBytes:
		return []byte(command), nil
	case LengthPrefixed:
		out := make([]byte, lengthPrefixSize, lengthPrefixSize+len(command))
		binary.BigEndian.PutUint32(out, uint32(len(command)))
		return append(out, command...), nil
	}
	if bytes.IndexByte([]byte(command), f.delimiter) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrDelimiterInMessage, command)
	}
	out := make([]byte, 0, len(command)+1)
	out = append(out, command...)
	return append(out, f.delimiter), nil
}
