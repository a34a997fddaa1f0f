package domain

import (
	"sort"
	"strings"
	"time"
)

// Attachment is the single optional file carried by a chat message.
type Attachment struct {
	Name string `json:"name"`
	Mime string `json:"mime"`
	URL  string `json:"url"`
}

type ChatMessage struct {
	ID         string      `json:"id" gorm:"column:id;primaryKey"`
	SenderID   string      `json:"sender_id" gorm:"index"`
	ReceiverID string      `json:"receiver_id" gorm:"index"`
	Text       string      `json:"text" gorm:"type:text"`
	Attachment *Attachment `json:"attachment,omitempty" gorm:"serializer:json"`
	IsRead     bool        `json:"is_read"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Involves reports whether the message was exchanged between a and b.
func (m ChatMessage) Involves(a, b string) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

// Conversation is a derived two-party view over messages; it is not stored.
type Conversation struct {
	ID           string      `json:"id"`
	Participants [2]string   `json:"participants"`
	OtherUserID  string      `json:"other_user_id"`
	LastMessage  ChatMessage `json:"last_message"`
	UnreadCount  int         `json:"unread_count"`
}

// ConversationID is stable regardless of argument order.
func ConversationID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}
