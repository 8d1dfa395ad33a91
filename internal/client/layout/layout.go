// Package layout maps a message's ordinal position within its decoration
// category onto a fixed set of 3D slots around the tree. The mapping is pure
// and deterministic: positions are never read from storage, and ordinals
// beyond the slot table wrap around so the board can grow without new
// geometry.
package layout

import (
	"math"

	"github.com/dkazakov/treeboard/internal/client/models"
)

// Point is a slot coordinate in tree space. Y is up.
type Point struct {
	X, Y, Z float64
}

// giftRing describes one ground-level ring of gift slots.
type giftRing struct {
	radius float64
	count  int
	y      float64
}

// Gifts sit in concentric rings around the base, outer rings holding more.
var giftRings = []giftRing{
	{radius: 3.2, count: 8, y: -0.35},
	{radius: 4.0, count: 10, y: -0.35},
	{radius: 4.8, count: 12, y: -0.35},
	{radius: 5.5, count: 14, y: -0.35},
}

const (
	cardSlots     = 20
	ornamentSlots = 20
	bandSize      = 5
)

// Ornament bands taper with height, mimicking the tree silhouette.
var ornamentBands = []struct{ y, radius float64 }{
	{2.2, 2.0},
	{3.5, 1.6},
	{4.8, 1.2},
	{5.8, 0.8},
}

var slots = map[models.Decoration][]Point{
	models.DecorationGift:     buildGiftSlots(),
	models.DecorationCard:     buildCardSlots(),
	models.DecorationOrnament: buildOrnamentSlots(),
}

func buildGiftSlots() []Point {
	var points []Point
	index := 0
	for _, ring := range giftRings {
		for i := 0; i < ring.count; i++ {
			// Odd cumulative indexes get a small angular nudge so adjacent
			// rings do not line up visually.
			angle := float64(i)/float64(ring.count)*2*math.Pi + float64(index%2)*0.2
			points = append(points, Point{
				X: math.Cos(angle) * ring.radius,
				Y: ring.y,
				Z: math.Sin(angle) * ring.radius,
			})
			index++
		}
	}
	return points
}

func buildCardSlots() []Point {
	points := make([]Point, 0, cardSlots)
	for i := 0; i < cardSlots; i++ {
		band := i / bandSize
		angle := float64(i%bandSize)*(2*math.Pi/bandSize) + float64(band)*0.4
		height := 3 + float64(band)*1.5
		radius := 3.5 - float64(band)*0.3
		points = append(points, Point{
			X: math.Cos(angle) * radius,
			Y: height,
			Z: math.Sin(angle) * radius,
		})
	}
	return points
}

func buildOrnamentSlots() []Point {
	points := make([]Point, 0, ornamentSlots)
	for i := 0; i < ornamentSlots; i++ {
		band := i / bandSize
		level := ornamentBands[band%len(ornamentBands)]
		angle := float64(i%bandSize)*(2*math.Pi/bandSize) + float64(band)*0.5
		points = append(points, Point{
			X: math.Cos(angle) * level.radius,
			Y: level.y,
			Z: math.Sin(angle) * level.radius,
		})
	}
	return points
}

// SlotCount returns the number of precomputed slots for a category.
// Unknown categories report zero.
func SlotCount(kind models.Decoration) int {
	return len(slots[kind])
}

// Position returns the slot for the ordinal-th visible message of the given
// category. Ordinals wrap modulo SlotCount, so ordinal and
// ordinal+SlotCount(kind) share coordinates. Negative ordinals and unknown
// categories map to the origin.
func Position(kind models.Decoration, ordinal int) Point {
	table := slots[kind]
	if len(table) == 0 || ordinal < 0 {
		return Point{}
	}
	return table[ordinal%len(table)]
}

// DecorationLevel buckets a visible message count into a 0..4 festivity
// level used by the front end to scale ambient decoration.
func DecorationLevel(visibleCount int) int {
	switch {
	case visibleCount >= 30:
		return 4
	case visibleCount >= 20:
		return 3
	case visibleCount >= 10:
		return 2
	case visibleCount >= 5:
		return 1
	default:
		return 0
	}
}
