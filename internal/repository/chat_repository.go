package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/iliyamo/talent-booking/internal/model"
)

// formatSenderID renders a participant id the way it is stored in
// messages.sender_id, where the column also carries the "system"
// sentinel and is therefore textual.
func formatSenderID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ErrChatNotFound is returned when a referenced chat channel does not
// exist. Handlers translate it into an HTTP 404 response.
var ErrChatNotFound = errors.New("chat not found")

// DisclaimerText is the system message seeded into every channel at
// provisioning time. Keeping contracts and payments on the platform
// is what makes the escrow guarantees possible, so the notice is not
// configurable.
const DisclaimerText = "Caztiq Notice: For your safety, all payments and contracts must remain within Caztiq. We protect both parties by managing contracts and payments securely."

// AttachmentPlaceholder is stored as the channel summary text when the
// latest message is not plain text.
const AttachmentPlaceholder = "Sent an attachment"

// ChatRepo provides data access to the chats and messages tables. A
// channel is created exactly once per booking (enforced by a unique
// key on chats.booking_id in addition to the caller invoking CreateTx
// only from the accept transition) and its summary columns are
// maintained with atomic single-statement updates so concurrent
// senders never lose increments.
type ChatRepo struct {
	db *sql.DB
}

// NewChatRepo returns a new ChatRepo bound to the given database.
func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{db: db} }

// CreateTx provisions a channel for a booking inside the provided
// transaction: it inserts the chat row with chat_enabled true, seeds
// the system disclaimer message and initializes the summary columns to
// reflect it (unread_count starts at 1 for that message). The caller
// must commit or roll back; on rollback no channel or message remains.
func (r *ChatRepo) CreateTx(ctx context.Context, tx *sql.Tx, bookingID, brandID, modelID uint64) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO chats (booking_id, brand_id, model_id, chat_enabled, last_message, last_message_time, last_message_sender_id, unread_count)
		 VALUES (?, ?, ?, TRUE, ?, NOW(3), ?, 1)`,
		bookingID, brandID, modelID, DisclaimerText, model.SystemSenderID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	chatID := uint64(id)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (chat_id, sender_id, text, type) VALUES (?, ?, ?, ?)`,
		chatID, model.SystemSenderID, DisclaimerText, model.MessageTypeSystem); err != nil {
		return 0, err
	}
	return chatID, nil
}

// GetByID returns a channel by id. ErrChatNotFound is returned when no
// row exists.
func (r *ChatRepo) GetByID(ctx context.Context, id uint64) (model.Chat, error) {
	var c model.Chat
	err := r.db.QueryRowContext(ctx,
		`SELECT id, booking_id, brand_id, model_id, chat_enabled, last_message, last_message_time, last_message_sender_id, unread_count, created_at
		 FROM chats WHERE id = ? LIMIT 1`,
		id).Scan(&c.ID, &c.BookingID, &c.BrandID, &c.ModelID, &c.ChatEnabled,
		&c.LastMessage, &c.LastMessageTime, &c.LastMessageSenderID, &c.UnreadCount, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Chat{}, ErrChatNotFound
	}
	return c, err
}

// AppendMessage validates the send preconditions against a fresh read
// of the channel and, when they hold, appends the message and updates
// the summary in one transaction. The unread counter is incremented
// in place (unread_count = unread_count + 1) rather than read back and
// rewritten, so N concurrent sends grow it by exactly N.
//
// Errors: ErrChatNotFound when the channel does not exist,
// ErrForbidden when the sender is not one of the two participants,
// ErrInvalidState when the channel is disabled.
func (r *ChatRepo) AppendMessage(ctx context.Context, chatID, senderID uint64, text, msgType string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Re-check preconditions against the locked row so a concurrent
	// disable cannot slip a message into a closed channel.
	var brandID, modelID uint64
	var enabled bool
	err = tx.QueryRowContext(ctx,
		`SELECT brand_id, model_id, chat_enabled FROM chats WHERE id = ? LIMIT 1 FOR UPDATE`,
		chatID).Scan(&brandID, &modelID, &enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrChatNotFound
	}
	if err != nil {
		return err
	}
	if senderID != brandID && senderID != modelID {
		return ErrForbidden
	}
	if !enabled {
		return ErrInvalidState
	}

	sender := formatSenderID(senderID)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (chat_id, sender_id, text, type) VALUES (?, ?, ?, ?)`,
		chatID, sender, text, msgType); err != nil {
		return err
	}

	summary := text
	if msgType != model.MessageTypeText {
		summary = AttachmentPlaceholder
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE chats SET last_message = ?, last_message_time = NOW(3), last_message_sender_id = ?, unread_count = unread_count + 1
		 WHERE id = ?`,
		summary, sender, chatID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListMessages returns the messages of a channel ordered by their
// server-assigned timestamps (insertion order for ties).
func (r *ChatRepo) ListMessages(ctx context.Context, chatID uint64) ([]model.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, chat_id, sender_id, text, type, created_at
		 FROM messages WHERE chat_id = ? ORDER BY created_at ASC, id ASC`,
		chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	msgs := make([]model.ChatMessage, 0)
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Text, &m.Type, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return msgs, nil
}
