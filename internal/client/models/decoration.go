package models

import (
	"fmt"
	"math/rand"
)

// Decoration is the closed set of decoration categories a message can be
// rendered as. The category is picked at random when the message is created
// and is immutable afterwards.
type Decoration string

const (
	DecorationCard     Decoration = "card"
	DecorationGift     Decoration = "gift"
	DecorationOrnament Decoration = "ornament"
)

// Decorations lists all categories in a fixed order.
var Decorations = []Decoration{DecorationCard, DecorationGift, DecorationOrnament}

// Valid reports whether d is one of the known categories.
func (d Decoration) Valid() bool {
	switch d {
	case DecorationCard, DecorationGift, DecorationOrnament:
		return true
	}
	return false
}

func (d Decoration) String() string { return string(d) }

// ParseDecoration converts a stored string into a Decoration.
func ParseDecoration(s string) (Decoration, error) {
	d := Decoration(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown decoration category %q", s)
	}
	return d, nil
}

// DecorationPicker selects the category for a new message. It is an
// interface so tests can inject a deterministic picker.
type DecorationPicker interface {
	Pick() Decoration
}

// RandPicker picks uniformly from Decorations using the given source.
type RandPicker struct {
	rnd *rand.Rand
}

func NewRandPicker(rnd *rand.Rand) *RandPicker {
	return &RandPicker{rnd: rnd}
}

func (p *RandPicker) Pick() Decoration {
	return Decorations[p.rnd.Intn(len(Decorations))]
}

// DecorationColors is the palette offered by the compose flow. The first
// entry is the default.
var DecorationColors = []string{
	"#c41e3a", "#228b22", "#1e90ff", "#9932cc",
	"#daa520", "#ff69b4", "#20b2aa", "#ff8c00",
}
