package model

import "errors"

var (
	ErrOffBoard       = errors.New("position is off the board")
	ErrSquareOccupied = errors.New("square already occupied")
	ErrNoFactions     = errors.New("layout has no factions")
	ErrUnknownFaction = errors.New("unknown faction")
	ErrMatchNotIdle   = errors.New("match has already begun")
)
