package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dkazakov/treeboard/internal/common"
)

// Message is a directed edge from sender to recipient: one decorated note
// left on the recipient's tree. A sender has at most one message per
// recipient. The decoration category is assigned at creation and never
// changes.
type Message struct {
	ID          string     `json:"id"`
	RecipientID string     `json:"recipient_id"`
	SenderID    string     `json:"sender_id"`
	Content     string     `json:"content"`
	Decoration  Decoration `json:"decoration_type"`
	Color       string     `json:"decoration_style"`

	// PositionIndex is carried from storage but is not authoritative: layout
	// is always recomputed from the message's ordinal position within its
	// category (see the layout package).
	PositionIndex *int `json:"position_index,omitempty"`

	IsPrivate bool      `json:"is_private"`
	CreatedAt time.Time `json:"created_at"`
}

// VisibleTo reports whether the viewer may see this message on the given
// owner's tree. Non-private messages are visible to everyone; private ones
// only to the tree owner and the sender.
func (m *Message) VisibleTo(viewerID, treeOwnerID string) bool {
	if !m.IsPrivate {
		return true
	}
	return viewerID == treeOwnerID || viewerID == m.SenderID
}

// FilterVisible returns the subsequence of messages the viewer may see,
// preserving order. It must be applied before any count, layout, or mission
// computation derived from the message set.
func FilterVisible(messages []Message, viewerID, treeOwnerID string) []Message {
	visible := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.VisibleTo(viewerID, treeOwnerID) {
			visible = append(visible, m)
		}
	}
	return visible
}

// MessageDraft is the client-composed part of a message handed to the
// remote store. The server assigns id and created_at; in degraded mode the
// provisional values from the submission controller are used instead.
type MessageDraft struct {
	RecipientID string     `json:"recipient_id"`
	SenderID    string     `json:"sender_id"`
	Content     string     `json:"content"`
	Decoration  Decoration `json:"decoration_type"`
	Color       string     `json:"decoration_style"`
	IsPrivate   bool       `json:"is_private"`
}

// ValidateContent trims content and checks the non-empty and length
// invariants. It returns the trimmed content.
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", common.ErrEmptyContent
	}
	if utf8.RuneCountInString(trimmed) > common.MaxContentLength {
		return "", common.ErrContentTooLong
	}
	return trimmed, nil
}
