package model

// Player is a participant in a match, bound to one faction.
type Player struct {
	Faction int
	Clock   *Clock
}

type ClientPlayer struct {
	Faction      int    `json:"faction"`
	Name         string `json:"name"`
	ThinkingTime int64  `json:"thinkingTimeMs"`
	ToMove       bool   `json:"toMove"`
}

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Faction is a side of the board. ID is its index in the match's faction list.
type Faction struct {
	ID              int    `json:"id"`
	DisplayName     string `json:"displayName"`
	Color           Color  `json:"color"`
	ViewPosition    Vec3   `json:"viewPosition"`
	ViewOrientation Vec3   `json:"viewOrientation"`
}

type Placement struct {
	Kind     PieceKind
	Faction  int
	Position Position
}

// Layout is the starting configuration for a match.
type Layout struct {
	Factions   []Faction
	Placements []Placement
}

// Clone copies the layout so callers can rename factions without touching the source.
func (l Layout) Clone() Layout {
	return Layout{
		Factions:   append([]Faction(nil), l.Factions...),
		Placements: append([]Placement(nil), l.Placements...),
	}
}

var backRank = [BoardSize]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StandardLayout is the usual two-faction opening position. Faction 0 starts on ranks 1 and 2.
func StandardLayout() Layout {
	layout := Layout{
		Factions: []Faction{
			{ID: 0, DisplayName: "White", Color: Color{R: 255, G: 255, B: 255, A: 255},
				ViewPosition: Vec3{X: 4, Y: -4, Z: 8}, ViewOrientation: Vec3{X: -50, Y: 0, Z: 0}},
			{ID: 1, DisplayName: "Black", Color: Color{R: 0, G: 0, B: 0, A: 255},
				ViewPosition: Vec3{X: 4, Y: 12, Z: 8}, ViewOrientation: Vec3{X: -50, Y: 0, Z: 180}},
		},
	}
	for x := 0; x < BoardSize; x++ {
		layout.Placements = append(layout.Placements,
			Placement{Kind: backRank[x], Faction: 0, Position: Position{X: x, Y: 0}},
			Placement{Kind: Pawn, Faction: 0, Position: Position{X: x, Y: 1}},
			Placement{Kind: Pawn, Faction: 1, Position: Position{X: x, Y: BoardSize - 2}},
			Placement{Kind: backRank[x], Faction: 1, Position: Position{X: x, Y: BoardSize - 1}},
		)
	}
	return layout
}
