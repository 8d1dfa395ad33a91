package models

import (
	"fmt"
	"time"
)

// DemoProfiles returns a deterministic set of profiles used to seed the
// offline cache and exercise the board without a configured backend.
func DemoProfiles() []*Profile {
	rows := []struct {
		id, email, full, display, tree, star, sky string
	}{
		{"u1", "alice.johnson@company.com", "Alice Johnson", "Alice", DefaultTreeColor, DefaultStarColor, DefaultSkyColor},
		{"u2", "bob.smith@company.com", "Bob Smith", "Bob", "#228b22", "#ffeb3b", "#0a1628"},
		{"u3", "carol.williams@company.com", "Carol Williams", "Carol", "#01796f", "#ffffff", "#1a0a2e"},
		{"u4", "david.brown@company.com", "David Brown", "David", DefaultTreeColor, DefaultStarColor, DefaultSkyColor},
		{"u5", "emma.davis@company.com", "Emma Davis", "Emma", "#2e5a5a", "#ff6b9d", "#0d2818"},
		{"u6", "frank.miller@company.com", "Frank Miller", "Frank", DefaultTreeColor, DefaultStarColor, DefaultSkyColor},
		{"u7", "grace.wilson@company.com", "Grace Wilson", "Grace", "#4a7c8c", "#87ceeb", "#0a1a2a"},
		{"u8", "henry.taylor@company.com", "Henry Taylor", "Henry", DefaultTreeColor, DefaultStarColor, DefaultSkyColor},
	}

	profiles := make([]*Profile, 0, len(rows))
	for _, r := range rows {
		profiles = append(profiles, &Profile{
			ID:          r.id,
			Email:       r.email,
			FullName:    r.full,
			DisplayName: r.display,
			TreeColor:   r.tree,
			StarColor:   r.star,
			SkyColor:    r.sky,
		})
	}
	return profiles
}

var demoWishes = []string{
	"Wishing you a magical holiday season!",
	"May your days be merry and bright!",
	"Happy Holidays from our team!",
	"Warmest wishes for a wonderful year ahead!",
	"Cheers to a festive and joyful season!",
	"Sending you love and holiday cheer!",
	"May all your holiday dreams come true!",
	"Have a cozy and peaceful holiday!",
}

// DemoMessages generates up to count deterministic messages addressed to
// recipientID, cycling decoration categories and colors. One message is
// private so the privacy filter has something to hide.
func DemoMessages(recipientID string, count int) []Message {
	var messages []Message
	now := time.Now()
	for _, sender := range DemoProfiles() {
		if sender.ID == recipientID || len(messages) >= count {
			continue
		}
		i := len(messages)
		idx := i
		messages = append(messages, Message{
			ID:            fmt.Sprintf("msg-%s-%d", recipientID, i),
			RecipientID:   recipientID,
			SenderID:      sender.ID,
			Content:       demoWishes[i%len(demoWishes)],
			Decoration:    Decorations[i%len(Decorations)],
			Color:         DecorationColors[i%len(DecorationColors)],
			PositionIndex: &idx,
			IsPrivate:     i == 2,
			CreatedAt:     now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return messages
}
