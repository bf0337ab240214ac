package model

import (
	"testing"

	"github.com/benbeisheim/lockstep-chess/internal/testutil"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want Position
	}{
		{"E2", Position{X: 4, Y: 1}},
		{"e2", Position{X: 4, Y: 1}},
		{"A1", Position{X: 0, Y: 0}},
		{"h8", Position{X: 7, Y: 7}},
		{"B08", Position{X: 1, Y: 7}},
		{"", InvalidPosition},
		{"A", InvalidPosition},
		{"A0", InvalidPosition},
		{"A9", InvalidPosition},
		{"A10", InvalidPosition},
		{"I1", InvalidPosition},
		{"E2X", InvalidPosition},
		{"A-1", InvalidPosition},
		{"1A", InvalidPosition},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			testutil.AssertEqual(t, ParsePosition(tt.in), tt.want)
		})
	}
}

func TestFormatPositionInvertsParse(t *testing.T) {
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			p := Position{X: x, Y: y}
			testutil.AssertEqual(t, ParsePosition(FormatPosition(p)), p, "square %v", p)
		}
	}
	testutil.AssertEqual(t, FormatPosition(Position{X: 4, Y: 3}), "E4")
	testutil.AssertEqual(t, InvalidPosition.String(), "INVALID")
}
