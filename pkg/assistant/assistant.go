// Package assistant answers learner questions.
//
// Client is the pluggable collaborator; CannedClient replies from a fixed
// list and HTTPClient forwards questions to a remote endpoint. Conversation
// keeps the message log shown to the learner.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/edudash/edudash/pkg/logger"
)

// Client answers a single question
type Client interface {
	Ask(ctx context.Context, query string) (string, error)
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	WelcomeMessageID = "welcome"
	WelcomeMessage   = "👋 Hello! I'm your AI learning assistant. How can I help you with your courses today?"
)

type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a chat log that starts with the welcome message
type Conversation struct {
	mu       sync.Mutex
	client   Client
	messages []Message
	now      func() time.Time
}

func NewConversation(client Client) *Conversation {
	c := &Conversation{
		client: client,
		now:    time.Now,
	}
	c.messages = []Message{{
		ID:        WelcomeMessageID,
		Role:      RoleAssistant,
		Content:   WelcomeMessage,
		Timestamp: c.now(),
	}}
	return c
}

// Send records input and the assistant's reply.
// Blank input is ignored and returns nil. If the client fails the user's
// message stays in the log and the error is returned.
func (c *Conversation) Send(ctx context.Context, input string) (*Message, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	c.append(Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   input,
		Timestamp: c.now(),
	})

	answer, err := c.client.Ask(ctx, input)
	if err != nil {
		logger.Logger(ctx).WithError(err).Warn("assistant failed to answer")
		return nil, fmt.Errorf("failed to get a response: %w", err)
	}

	reply := Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   answer,
		Timestamp: c.now(),
	}
	c.append(reply)

	logger.Logger(ctx).WithFields(logrus.Fields{
		"messages": len(c.Messages()),
	}).Debug("assistant replied")
	return &reply, nil
}

func (c *Conversation) append(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
}

// Messages returns a copy of the log in order
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}
