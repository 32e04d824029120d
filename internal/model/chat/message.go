package chat

import "time"

// Sender labels. User messages always carry SenderUser; bot messages carry
// the session's current sender label, which defaults to DefaultBotLabel and
// can be rewritten by a place-tapped event.
const (
	SenderUser      = "user"
	DefaultBotLabel = "Bot"
)

// Message is one entry in a conversation log. Exactly one of Text or
// ImagePath is populated at construction; AudioPath is auxiliary output
// attached to bot text messages when synthesis succeeds. Messages are
// immutable once appended to a log.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text,omitempty"`
	ImagePath string    `json:"imagePath,omitempty"`
	AudioPath string    `json:"audioPath,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsText reports whether the message carries a textual body.
func (m Message) IsText() bool { return m.Text != "" }

// IsImage reports whether the message carries an image reference.
func (m Message) IsImage() bool { return m.Text == "" && m.ImagePath != "" }
