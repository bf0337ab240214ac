package network

import (
	"testing"

	"github.com/benbeisheim/lockstep-chess/internal/testutil"
)

func TestInboxKeepsArrivalOrder(t *testing.T) {
	var q inbox
	testutil.AssertEqual(t, q.Pop(), []byte(nil))

	q.Push([]byte("ChessMove from=E2"))
	q.Push([]byte(" to=E4\x00"))
	testutil.AssertEqual(t, q.Size(), 2)
	testutil.AssertEqual(t, string(q.Pop()), "ChessMove from=E2")
	testutil.AssertEqual(t, string(q.Pop()), " to=E4\x00")
	testutil.AssertEqual(t, q.Size(), 0)
}
