package chat

import "github.com/google/uuid"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind determines how a message is rendered.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Message is a single entry in the conversation transcript. Messages are
// immutable once appended.
type Message struct {
	// ID is a session-unique identifier, generated client-side, used for
	// stable list rendering.
	ID string `json:"id"`

	Role Role `json:"role"`
	Kind Kind `json:"kind"`

	// Content is the message text. Empty for pure-image messages.
	Content string `json:"content"`

	// ImageRef is the image data URL, present only when Kind is KindImage.
	ImageRef string `json:"imageRef,omitempty"`
}

func newMessage(role Role, kind Kind, content, imageRef string) Message {
	return Message{
		ID:       uuid.NewString(),
		Role:     role,
		Kind:     kind,
		Content:  content,
		ImageRef: imageRef,
	}
}
