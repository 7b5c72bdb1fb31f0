package model

import "time"

// SystemSenderID is the sentinel sender recorded on messages that the
// platform itself writes into a channel, such as the safety
// disclaimer seeded on provisioning.
const SystemSenderID = "system"

// Message types stored in messages.type. Attachments only carry a
// placeholder in the channel summary; their payload handling is
// outside this service.
const (
	MessageTypeText       = "text"
	MessageTypeAttachment = "attachment"
	MessageTypeSystem     = "system"
)

// Chat is the two-party messaging channel tied 1:1 to an accepted
// booking. Participants are fixed at creation; chatEnabled gates
// whether further messages may be sent. The last* fields and
// UnreadCount are a denormalized summary maintained on every send so
// channel lists can render without loading messages.
//
// Fields:
//  ID                  – primary key identifier.
//  BookingID           – booking this channel belongs to (unique, immutable).
//  BrandID             – brand participant.
//  ModelID             – model participant.
//  ChatEnabled         – whether sending is currently allowed.
//  LastMessage         – text of the most recent message (or placeholder).
//  LastMessageTime     – timestamp of the most recent message.
//  LastMessageSenderID – sender of the most recent message ("system" or a user id).
//  UnreadCount         – running counter incremented once per message.
//  CreatedAt           – creation timestamp.
type Chat struct {
	ID                  uint64    // chats.id
	BookingID           uint64    // chats.booking_id
	BrandID             uint64    // chats.brand_id
	ModelID             uint64    // chats.model_id
	ChatEnabled         bool      // chats.chat_enabled
	LastMessage         string    // chats.last_message
	LastMessageTime     time.Time // chats.last_message_time
	LastMessageSenderID string    // chats.last_message_sender_id
	UnreadCount         uint32    // chats.unread_count
	CreatedAt           time.Time // chats.created_at
}

// ChatMessage is a single message in a channel. Messages are
// append-only; timestamps are assigned by the database on insert so
// ordering is consistent across concurrent senders.
//
// Fields:
//  ID        – primary key identifier.
//  ChatID    – channel the message belongs to.
//  SenderID  – participant user id as a string, or "system".
//  Text      – message body.
//  Type      – text, attachment or system.
//  CreatedAt – server-assigned timestamp.
type ChatMessage struct {
	ID        uint64    // messages.id
	ChatID    uint64    // messages.chat_id
	SenderID  string    // messages.sender_id
	Text      string    // messages.text
	Type      string    // messages.type
	CreatedAt time.Time // messages.created_at
}
