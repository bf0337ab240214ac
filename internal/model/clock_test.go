package model

import (
	"testing"
	"time"

	"github.com/benbeisheim/lockstep-chess/internal/testutil"
)

func TestClockAccumulatesOnlyWhileRunning(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewClock()
	c.now = func() time.Time { return now }

	c.Start()
	now = now.Add(3 * time.Second)
	testutil.AssertEqual(t, c.Elapsed(), 3*time.Second)
	c.Stop()

	now = now.Add(time.Minute)
	testutil.AssertEqual(t, c.Elapsed(), 3*time.Second)
	testutil.AssertFalse(t, c.Running())

	c.Start()
	c.Start()
	now = now.Add(2 * time.Second)
	c.Stop()
	testutil.AssertEqual(t, c.Elapsed(), 5*time.Second)
}
