package config

import (
	"strings"
	"testing"

	"github.com/benbeisheim/lockstep-chess/internal/model"
	"github.com/benbeisheim/lockstep-chess/internal/testutil"
)

const smallLayout = `<?xml version="1.0"?>
<ChessMatch>
  <ChessBoard>
    <Factions>
      <Faction id="0" display="Red" color="200,0,0,255" viewPosition="4,-4,8" viewOrientation="-50,0,0"/>
      <Faction id="1" display="Blue" color="0,0,200,255"/>
    </Factions>
    <ChessPieces>
      <ChessPiece name="King" faction="0" position="E1"/>
      <ChessPiece name="pawn" faction="0" position="e2"/>
      <ChessPiece name="KING" faction="1" position="E8"/>
    </ChessPieces>
  </ChessBoard>
</ChessMatch>`

func TestParseLayout(t *testing.T) {
	got, err := ParseLayout(strings.NewReader(smallLayout))
	testutil.AssertNoError(t, err)

	want := model.Layout{
		Factions: []model.Faction{
			{ID: 0, DisplayName: "Red", Color: model.Color{R: 200, A: 255},
				ViewPosition: model.Vec3{X: 4, Y: -4, Z: 8}, ViewOrientation: model.Vec3{X: -50}},
			{ID: 1, DisplayName: "Blue", Color: model.Color{B: 200, A: 255}},
		},
		Placements: []model.Placement{
			{Kind: model.King, Faction: 0, Position: model.Position{X: 4, Y: 0}},
			{Kind: model.Pawn, Faction: 0, Position: model.Position{X: 4, Y: 1}},
			{Kind: model.King, Faction: 1, Position: model.Position{X: 4, Y: 7}},
		},
	}
	testutil.AssertEqual(t, got, want)
}

func TestParseLayoutErrors(t *testing.T) {
	wrap := func(factions, pieces string) string {
		return "<ChessMatch><ChessBoard><Factions>" + factions + "</Factions><ChessPieces>" +
			pieces + "</ChessPieces></ChessBoard></ChessMatch>"
	}
	one := `<Faction id="0" display="A"/>`
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", "<ChessMatch"},
		{"no factions", wrap("", "")},
		{"ids out of order", wrap(`<Faction id="1"/>`, "")},
		{"bad color", wrap(`<Faction id="0" color="1,2,3"/>`, "")},
		{"color range", wrap(`<Faction id="0" color="1,2,3,999"/>`, "")},
		{"bad vector", wrap(`<Faction id="0" viewPosition="a,b,c"/>`, "")},
		{"unknown piece", wrap(one, `<ChessPiece name="Archbishop" faction="0" position="A1"/>`)},
		{"off board", wrap(one, `<ChessPiece name="Rook" faction="0" position="I9"/>`)},
		{"unknown faction", wrap(one, `<ChessPiece name="Rook" faction="3" position="A1"/>`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayout(strings.NewReader(tt.doc))
			testutil.AssertErrorIs(t, err, ErrInvalidLayout)
		})
	}
}

func TestParseLayoutDefaultsName(t *testing.T) {
	got, err := ParseLayout(strings.NewReader(`<ChessMatch><ChessBoard><Factions><Faction id="0"/></Factions></ChessBoard></ChessMatch>`))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got.Factions[0].DisplayName, "Player1")
	testutil.AssertEqual(t, got.Factions[0].Color, model.Color{R: 255, G: 255, B: 255, A: 255})
}
