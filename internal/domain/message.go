package domain

import "time"

// MaxMessageLength — лимит длины текста сообщения (в рунах).
const MaxMessageLength = 500

// Message append-only: сообщения не редактируются и не удаляются.
// CreatedAt назначается базой при вставке и определяет порядок в диалоге.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}
