// Package models defines the entity shapes shared across the treeboard
// client: profiles, messages, decoration categories and their invariants.
package models

import (
	"strings"
	"time"
)

// Profile is a registered user and the owner of one tree. Profiles are
// created by account registration (external to this core) and mutated only
// by the owning user via customization save.
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	DisplayName string    `json:"display_name"`
	TreeColor   string    `json:"tree_color"`
	StarColor   string    `json:"star_color"`
	SkyColor    string    `json:"sky_color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Name returns the profile's preferred display name, falling back to the
// full name.
func (p *Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.FullName
}

// EmailEquals compares emails case-insensitively, ignoring surrounding
// whitespace. Email is the unique human-facing identity key.
func (p *Profile) EmailEquals(email string) bool {
	return NormalizeEmail(p.Email) == NormalizeEmail(email)
}

// NormalizeEmail lowers and trims an email for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Customization is the set of profile fields a user may change from the
// tree customizer.
type Customization struct {
	TreeColor string `json:"tree_color"`
	StarColor string `json:"star_color"`
	SkyColor  string `json:"sky_color"`
}

// Default colors for freshly registered profiles.
const (
	DefaultTreeColor = "#0d5c0d"
	DefaultStarColor = "#ffd700"
	DefaultSkyColor  = "#090A0F"
)
