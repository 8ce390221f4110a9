package notifiers

import (
	"github.com/google/uuid"

	"github.com/barganito/barganito.api/data"
)

// Message is one notification event for one user, delivered across every
// channel the user has enabled.
type Message struct {
	UserID uuid.UUID
	Title  string
	Body   string
	Link   string
	Type   data.NotificationType
}

// ChannelResult reports which channels delivered.
type ChannelResult struct {
	InApp bool `json:"internal"`
	Email bool `json:"email"`
	Push  bool `json:"push"`
}
