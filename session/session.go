package session

import (
	"github.com/google/uuid"
	"github.com/w-h-a/docchat/generator"
)

// Conversation is the append-only message history of one REPL session. It
// starts with a single system message, grows with each user/assistant turn,
// and is discarded when the session ends. It belongs to exactly one session
// and must not be shared across concurrent sessions.
type Conversation struct {
	id           string
	systemPrompt string
	messages     []generator.Message
}

func (c *Conversation) ID() string {
	return c.id
}

func (c *Conversation) Append(role string, content string) {
	c.messages = append(c.messages, generator.Message{
		Role:    role,
		Content: content,
	})
}

// History returns a copy of the accumulated messages in order.
func (c *Conversation) History() []generator.Message {
	cpy := make([]generator.Message, len(c.messages))
	copy(cpy, c.messages)
	return cpy
}

// Reset drops everything back to the single system message.
func (c *Conversation) Reset() {
	c.messages = []generator.Message{
		{Role: generator.RoleSystem, Content: c.systemPrompt},
	}
}

func NewConversation(systemPrompt string) *Conversation {
	c := &Conversation{
		id:           uuid.New().String(),
		systemPrompt: systemPrompt,
	}

	c.Reset()

	return c
}
