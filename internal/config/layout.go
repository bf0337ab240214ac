package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/benbeisheim/lockstep-chess/internal/model"
)

var ErrInvalidLayout = errors.New("invalid layout")

type xmlLayout struct {
	XMLName xml.Name `xml:"ChessMatch"`
	Board   struct {
		Factions []xmlFaction `xml:"Factions>Faction"`
		Pieces   []xmlPiece   `xml:"ChessPieces>ChessPiece"`
	} `xml:"ChessBoard"`
}

type xmlFaction struct {
	ID              int    `xml:"id,attr"`
	Display         string `xml:"display,attr"`
	Color           string `xml:"color,attr"`
	ViewPosition    string `xml:"viewPosition,attr"`
	ViewOrientation string `xml:"viewOrientation,attr"`
}

type xmlPiece struct {
	Name     string `xml:"name,attr"`
	Faction  int    `xml:"faction,attr"`
	Position string `xml:"position,attr"`
}

func LoadLayout(path string) (model.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Layout{}, err
	}
	defer f.Close()
	layout, err := ParseLayout(f)
	if err != nil {
		return model.Layout{}, fmt.Errorf("%s: %w", path, err)
	}
	return layout, nil
}

// ParseLayout reads a ChessMatch document. Faction ids must be 0..n-1 in order.
func ParseLayout(r io.Reader) (model.Layout, error) {
	var doc xmlLayout
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return model.Layout{}, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if len(doc.Board.Factions) == 0 {
		return model.Layout{}, fmt.Errorf("%w: no factions", ErrInvalidLayout)
	}

	var layout model.Layout
	for i, xf := range doc.Board.Factions {
		if xf.ID != i {
			return model.Layout{}, fmt.Errorf("%w: faction %d has id %d", ErrInvalidLayout, i, xf.ID)
		}
		f := model.Faction{ID: xf.ID, DisplayName: xf.Display}
		if f.DisplayName == "" {
			f.DisplayName = fmt.Sprintf("Player%d", i+1)
		}
		var err error
		if f.Color, err = parseColor(xf.Color); err != nil {
			return model.Layout{}, err
		}
		if f.ViewPosition, err = parseVec3(xf.ViewPosition); err != nil {
			return model.Layout{}, err
		}
		if f.ViewOrientation, err = parseVec3(xf.ViewOrientation); err != nil {
			return model.Layout{}, err
		}
		layout.Factions = append(layout.Factions, f)
	}

	for _, xp := range doc.Board.Pieces {
		kind, ok := model.ParsePieceKind(xp.Name)
		if !ok {
			return model.Layout{}, fmt.Errorf("%w: unknown piece %q", ErrInvalidLayout, xp.Name)
		}
		pos := model.ParsePosition(xp.Position)
		if !pos.IsValid() {
			return model.Layout{}, fmt.Errorf("%w: bad position %q for %s", ErrInvalidLayout, xp.Position, xp.Name)
		}
		if xp.Faction < 0 || xp.Faction >= len(layout.Factions) {
			return model.Layout{}, fmt.Errorf("%w: %s at %s has unknown faction %d", ErrInvalidLayout, xp.Name, xp.Position, xp.Faction)
		}
		layout.Placements = append(layout.Placements, model.Placement{Kind: kind, Faction: xp.Faction, Position: pos})
	}
	return layout, nil
}

func splitNumbers(s string, want int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("%w: %q needs %d comma separated numbers", ErrInvalidLayout, s, want)
	}
	out := make([]float64, want)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidLayout, s, err)
		}
		out[i] = v
	}
	return out, nil
}

// parseColor reads "r,g,b,a" with components 0-255. Empty means opaque white.
func parseColor(s string) (model.Color, error) {
	if strings.TrimSpace(s) == "" {
		return model.Color{R: 255, G: 255, B: 255, A: 255}, nil
	}
	v, err := splitNumbers(s, 4)
	if err != nil {
		return model.Color{}, err
	}
	for _, c := range v {
		if c < 0 || c > 255 {
			return model.Color{}, fmt.Errorf("%w: color component %v out of range", ErrInvalidLayout, c)
		}
	}
	return model.Color{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), A: uint8(v[3])}, nil
}

func parseVec3(s string) (model.Vec3, error) {
	if strings.TrimSpace(s) == "" {
		return model.Vec3{}, nil
	}
	v, err := splitNumbers(s, 3)
	if err != nil {
		return model.Vec3{}, err
	}
	return model.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}
