package services

import (
	"fmt"

	"github.com/dkazakov/treeboard/internal/client/models"
)

// ColorOption is one palette entry in the tree customizer. Locked entries
// need the mission unlock; Special ones additionally need the viewer's
// email on an access list.
type ColorOption struct {
	Name    string
	Value   string
	Locked  bool
	Special bool
}

// CosmicGradientStar is the sentinel value for the animated star style; it
// is stored in star_color like a plain hex value.
const CosmicGradientStar = "COSMIC_GRADIENT"

var TreeColors = []ColorOption{
	{Name: "Classic Green", Value: "#0d5c0d"},
	{Name: "Forest Green", Value: "#228b22"},
	{Name: "Pine Green", Value: "#01796f", Locked: true},
	{Name: "Blue Spruce", Value: "#2e5a5a", Locked: true},
	{Name: "Frost Blue", Value: "#4a7c8c", Locked: true},
	{Name: "Snow White", Value: "#e8e8e8", Locked: true},
	{Name: "Silver", Value: "#a0a0a0", Locked: true},
	{Name: "Rose Gold", Value: "#b76e79", Locked: true},
}

var StarColors = []ColorOption{
	{Name: "Classic Gold", Value: "#ffd700"},
	{Name: "Bright Yellow", Value: "#ffeb3b"},
	{Name: "White", Value: "#ffffff", Locked: true},
	{Name: "Silver", Value: "#c0c0c0", Locked: true},
	{Name: "Rose", Value: "#ff6b9d", Locked: true},
	{Name: "Ice Blue", Value: "#87ceeb", Locked: true},
	{Name: "Ruby Red", Value: "#e31c3d", Locked: true},
	{Name: "Amethyst", Value: "#9966cc", Locked: true},
	{Name: "Cosmic Gradient", Value: CosmicGradientStar, Locked: true, Special: true},
}

var SkyColors = []ColorOption{
	{Name: "Midnight", Value: "#090A0F"},
	{Name: "Deep Blue", Value: "#0a1628"},
	{Name: "Aurora Borealis", Value: "#003d5c", Locked: true, Special: true},
	{Name: "Night Purple", Value: "#1a0a2e", Locked: true},
	{Name: "Northern Lights", Value: "#0d2818", Locked: true},
	{Name: "Arctic Blue", Value: "#0a1a2a", Locked: true},
	{Name: "Twilight", Value: "#1a0f1a", Locked: true},
	{Name: "Starry Night", Value: "#0f0f1a", Locked: true},
	{Name: "Aurora", Value: "#0a1f1f", Locked: true},
}

// Access lists for the two exclusive styles. Compared case-insensitively.
var (
	auroraAccessEmails = []string{
		"henryaleraga@gmail.com",
	}
	cosmicStarAccessEmails = []string{
		"henryaleraga@gmail.com",
	}
)

func HasAuroraAccess(email string) bool {
	return onList(auroraAccessEmails, email)
}

func HasCosmicStarAccess(email string) bool {
	return onList(cosmicStarAccessEmails, email)
}

func onList(list []string, email string) bool {
	if email == "" {
		return false
	}
	normalized := models.NormalizeEmail(email)
	for _, e := range list {
		if models.NormalizeEmail(e) == normalized {
			return true
		}
	}
	return false
}

func findOption(options []ColorOption, value string) (ColorOption, error) {
	for _, o := range options {
		if o.Value == value {
			return o, nil
		}
	}
	return ColorOption{}, fmt.Errorf("unknown color %q", value)
}
