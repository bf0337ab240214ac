package console

import (
	"bytes"
	"errors"
	"testing"

	"github.com/benbeisheim/lockstep-chess/internal/testutil"
	"github.com/rs/zerolog"
)

func TestExecuteDispatchesByName(t *testing.T) {
	c := New(nil, zerolog.Nop())
	var got []Args
	c.Register("ChessMove", "move a piece", func(a Args) error {
		got = append(got, a)
		return nil
	})

	testutil.AssertNoError(t, c.Execute("chessmove from=E2 to=E4"))
	testutil.AssertNoError(t, c.ExecuteRemote("CHESSMOVE from=E7 to=E5 remote=true"))

	want := []Args{
		{Name: "ChessMove", Line: "from=E2 to=E4"},
		{Name: "ChessMove", Line: "from=E7 to=E5 remote=true", Remote: true},
	}
	testutil.AssertEqual(t, got, want)
}

func TestOriginComesFromTheCaller(t *testing.T) {
	c := New(nil, zerolog.Nop())
	var got []bool
	c.Register("ChessBoard", "", func(a Args) error {
		got = append(got, a.Remote)
		return nil
	})

	// the text never decides the origin, even when it fails to parse
	testutil.AssertNoError(t, c.Execute("ChessBoard remote=true"))
	testutil.AssertNoError(t, c.ExecuteRemote("ChessBoard junk remote=true"))
	testutil.AssertNoError(t, c.ExecuteRemote("ChessBoard"))
	testutil.AssertEqual(t, got, []bool{false, true, true})
}

func TestExecuteUnknownCommand(t *testing.T) {
	c := New(nil, zerolog.Nop())
	testutil.AssertErrorIs(t, c.Execute("Nope a=b"), ErrUnknownCommand)
	testutil.AssertNoError(t, c.Execute("   "))
}

func TestExecuteReturnsHandlerError(t *testing.T) {
	c := New(nil, zerolog.Nop())
	boom := errors.New("boom")
	c.Register("fail", "", func(Args) error { return boom })
	testutil.AssertErrorIs(t, c.Execute("fail"), boom)
}

func TestPrintedLinesAreKeptAndMirrored(t *testing.T) {
	var out bytes.Buffer
	c := New(&out, zerolog.Nop())
	c.Printf("hello %d", 1)
	mark := c.Mark()
	c.Warnf("careful")

	lines := c.Since(mark)
	testutil.AssertEqual(t, len(lines), 1)
	testutil.AssertEqual(t, lines[0].Text, "careful")
	testutil.AssertEqual(t, lines[0].Level, LevelWarning)
	testutil.AssertEqual(t, out.String(), "hello 1\n[warn] careful\n")
}

func TestHistoryIsBounded(t *testing.T) {
	c := New(nil, zerolog.Nop())
	c.limit = 3
	for i := 0; i < 5; i++ {
		c.Printf("line %d", i)
	}
	lines := c.Since(0)
	testutil.AssertEqual(t, len(lines), 3)
	testutil.AssertEqual(t, lines[0].Text, "line 2")
}

func TestHelpListsCommands(t *testing.T) {
	c := New(nil, zerolog.Nop())
	c.Register("ChessMove", "move a piece", func(Args) error { return nil })
	testutil.AssertEqual(t, c.Names(), []string{"ChessMove", "help"})

	mark := c.Mark()
	testutil.AssertNoError(t, c.Execute("help name=chessmove"))
	lines := c.Since(mark)
	testutil.AssertEqual(t, len(lines), 1)
	testutil.AssertEqual(t, lines[0].Text, "ChessMove: move a piece")
}

func TestErrorLinesArePrefixed(t *testing.T) {
	var out bytes.Buffer
	c := New(&out, zerolog.Nop())
	c.Errorf("match %s failed", "m1")
	testutil.AssertEqual(t, c.Since(0)[0].Level, LevelError)
	testutil.AssertEqual(t, out.String(), "[error] match m1 failed\n")
}
