package model

import (
	"testing"

	"github.com/benbeisheim/lockstep-chess/internal/testutil"
)

func TestRaycast(t *testing.T) {
	m := newStandardMatch(t)
	down := Vec3{Z: -1}

	t.Run("piece in front of board", func(t *testing.T) {
		hit := m.Raycast(Vec3{X: 0.5, Y: 1.5, Z: 5}, down, 100)
		testutil.AssertEqual(t, hit.Kind, HitPiece)
		testutil.AssertEqual(t, hit.Square, sq("A2"))
		testutil.AssertEqual(t, hit.Distance, 4.0)
		p, _ := m.PieceAt(sq("A2"))
		testutil.AssertEqual(t, hit.Piece, p.ID)
	})

	t.Run("empty square hits board", func(t *testing.T) {
		hit := m.Raycast(Vec3{X: 4.5, Y: 4.5, Z: 5}, Vec3{Z: -2}, 100)
		testutil.AssertEqual(t, hit.Kind, HitBoard)
		testutil.AssertEqual(t, hit.Square, sq("E5"))
		testutil.AssertEqual(t, hit.Distance, 5.0)
	})

	t.Run("beyond max distance", func(t *testing.T) {
		hit := m.Raycast(Vec3{X: 0.5, Y: 1.5, Z: 5}, down, 3)
		testutil.AssertEqual(t, hit.Kind, HitNone)
	})

	t.Run("pointing away", func(t *testing.T) {
		hit := m.Raycast(Vec3{X: 4.5, Y: 4.5, Z: 5}, Vec3{Z: 1}, 100)
		testutil.AssertEqual(t, hit.Kind, HitNone)
		testutil.AssertEqual(t, hit.Square, InvalidPosition)
	})

	t.Run("moved piece leaves its square", func(t *testing.T) {
		m := newCustomMatch(t, 0, place(King, 0, "A1"), place(Queen, 0, "D1"), place(Pawn, 1, "D5"), place(King, 1, "H8"))
		move(t, m, "D1", "D5", ValidCaptureNormal)
		hit := m.Raycast(Vec3{X: 3.5, Y: 0.5, Z: 5}, down, 100)
		testutil.AssertEqual(t, hit.Kind, HitBoard)
		testutil.AssertEqual(t, hit.Square, sq("D1"))

		hit = m.Raycast(Vec3{X: 3.5, Y: 4.5, Z: 5}, down, 100)
		testutil.AssertEqual(t, hit.Kind, HitPiece)
		queen, _ := m.PieceAt(sq("D5"))
		testutil.AssertEqual(t, hit.Piece, queen.ID)
	})
}
