package model

import "math"

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

func (v Vec3) axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec3
	Max Vec3
}

// The board occupies z in [-0.5, 0] under the squares. Each piece is a
// half-square wide column one unit tall standing in the middle of its square.
var boardBox = Box{Min: Vec3{0, 0, -0.5}, Max: Vec3{BoardSize, BoardSize, 0}}

func pieceBox(pos Position) Box {
	cx, cy := float64(pos.X)+0.5, float64(pos.Y)+0.5
	return Box{Min: Vec3{cx - 0.25, cy - 0.25, 0}, Max: Vec3{cx + 0.25, cy + 0.25, 1}}
}

type HitKind int

const (
	HitNone HitKind = iota
	HitBoard
	HitPiece
)

// RaycastHit describes the closest thing a ray touched. Square is the board
// square under the hit point.
type RaycastHit struct {
	Kind     HitKind
	Piece    PieceID
	Square   Position
	Point    Vec3
	Distance float64
}

// intersect returns the entry distance of the ray into the box using the slab method.
func (b Box) intersect(origin, dir Vec3) (float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)
	for i := 0; i < 3; i++ {
		o, d := origin.axis(i), dir.axis(i)
		lo, hi := b.Min.axis(i), b.Max.axis(i)
		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1, t2 := (lo-o)/d, (hi-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

func raycast(board *Board, origin, dir Vec3, maxDistance float64) RaycastHit {
	length := dir.Length()
	if length == 0 {
		return RaycastHit{Kind: HitNone, Square: InvalidPosition}
	}
	dir = dir.Scale(1 / length)

	best := RaycastHit{Kind: HitNone, Square: InvalidPosition, Distance: maxDistance}
	found := false
	consider := func(kind HitKind, id PieceID, box Box) {
		t, ok := box.intersect(origin, dir)
		if !ok || t > maxDistance || (found && t >= best.Distance) {
			return
		}
		found = true
		best = RaycastHit{Kind: kind, Piece: id, Distance: t, Point: origin.Add(dir.Scale(t))}
	}

	consider(HitBoard, NoPiece, boardBox)
	for _, p := range board.Pieces() {
		consider(HitPiece, p.ID, pieceBox(p.Position))
	}
	if !found {
		return RaycastHit{Kind: HitNone, Square: InvalidPosition}
	}
	if best.Kind == HitPiece {
		best.Square = board.Piece(best.Piece).Position
	} else {
		best.Square = Position{
			X: max(0, min(int(math.Floor(best.Point.X)), BoardSize-1)),
			Y: max(0, min(int(math.Floor(best.Point.Y)), BoardSize-1)),
		}
	}
	return best
}
