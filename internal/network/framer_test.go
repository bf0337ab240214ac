package network

import (
	"strings"
	"testing"

	"github.com/benbeisheim/lockstep-chess/internal/testutil"
)

func TestNullTerminatedSplitAcrossReceives(t *testing.T) {
	f := NewFramer(DefaultConfig())
	var buf PeerBuffer

	got, err := f.Ingest(&buf, []byte("ChessMove from=E2 to=E4\x00Chess"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, []string{"ChessMove from=E2 to=E4"})
	testutil.AssertEqual(t, buf.Len(), len("Chess"))

	got, err = f.Ingest(&buf, []byte("Match args=reset\x00"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, []string{"ChessMatch args=reset"})
	testutil.AssertEqual(t, buf.Len(), 0)
}

func TestNullTerminatedSkipsEmptySpans(t *testing.T) {
	f := NewFramer(DefaultConfig())
	var buf PeerBuffer
	got, err := f.Ingest(&buf, []byte("\x00\x00a\x00\x00b\x00"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, []string{"a", "b"})
}

func TestCustomDelimiter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Delimiter = '\n'
	f := NewFramer(cfg)
	var buf PeerBuffer
	got, err := f.Ingest(&buf, []byte("help\nChessMatch args=reset\n"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, []string{"help", "ChessMatch args=reset"})

	_, err = f.Encode("a\nb")
	testutil.AssertErrorIs(t, err, ErrDelimiterInMessage)
}

func TestRawBytesOneMessagePerReceive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = RawBytes
	f := NewFramer(cfg)
	var buf PeerBuffer

	got, err := f.Ingest(&buf, []byte("Chess\x00Move\x00"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, []string{"ChessMove"})

	got, err = f.Ingest(&buf, []byte{0, 0})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(got), 0)
	testutil.AssertEqual(t, buf.Len(), 0)
}

func TestLengthPrefixed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = LengthPrefixed
	f := NewFramer(cfg)

	first, err := f.Encode("ChessMove from=E2 to=E4")
	testutil.AssertNoError(t, err)
	second, err := f.Encode("help")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, first[:4], []byte{0, 0, 0, 23})

	stream := append(append([]byte(nil), first...), second...)
	var buf PeerBuffer
	got, err := f.Ingest(&buf, stream[:10])
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(got), 0)

	got, err = f.Ingest(&buf, stream[10:])
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, []string{"ChessMove from=E2 to=E4", "help"})
	testutil.AssertEqual(t, buf.Len(), 0)
}

func TestOversizeMessagesAreDropped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMessageSize = 8
	f := NewFramer(cfg)

	t.Run("complete message", func(t *testing.T) {
		var buf PeerBuffer
		got, err := f.Ingest(&buf, []byte("ok\x00way too long\x00fine\x00"))
		testutil.AssertErrorIs(t, err, ErrMessageTooLarge)
		testutil.AssertEqual(t, got, []string{"ok", "fine"})
	})

	t.Run("unterminated remainder", func(t *testing.T) {
		var buf PeerBuffer
		_, err := f.Ingest(&buf, []byte(strings.Repeat("x", 20)))
		testutil.AssertErrorIs(t, err, ErrMessageTooLarge)
		testutil.AssertEqual(t, buf.Len(), 0)

		got, err := f.Ingest(&buf, []byte("xxxx\x00next\x00"))
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, got, []string{"next"})
	})

	t.Run("length prefix", func(t *testing.T) {
		lp := cfg
		lp.Mode = LengthPrefixed
		f := NewFramer(lp)
		var buf PeerBuffer
		_, err := f.Ingest(&buf, []byte{0, 0, 1, 0, 'a'})
		testutil.AssertErrorIs(t, err, ErrMessageTooLarge)
		testutil.AssertEqual(t, buf.Len(), 0)
	})

	t.Run("encode", func(t *testing.T) {
		_, err := f.Encode("way too long")
		testutil.AssertErrorIs(t, err, ErrMessageTooLarge)
	})
}

func TestEncodeThenIngest(t *testing.T) {
	for _, mode := range []BoundaryMode{NullTerminated, RawBytes, LengthPrefixed} {
		t.Run(mode.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = mode
			f := NewFramer(cfg)
			data, err := f.Encode("ChessPlayerInfo name=Alice")
			testutil.AssertNoError(t, err)
			var buf PeerBuffer
			got, err := f.Ingest(&buf, data)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, []string{"ChessPlayerInfo name=Alice"})
		})
	}
}

func TestParseBoundaryMode(t *testing.T) {
	m, err := ParseBoundaryMode("Length-Prefixed")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m, LengthPrefixed)
	_, err = ParseBoundaryMode("smoke-signals")
	testutil.AssertErrorIs(t, err, ErrUnknownMode)
}
