package domain

import "time"

// Conversation — диалог ровно двух участников. ID детерминированно
// выводится из пары ID участников, запись создается лениво и неизменяема.
type Conversation struct {
	ID        string    `json:"id"`
	UserAID   string    `json:"user_a_id"`
	UserBID   string    `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Conversation) HasParticipant(userID string) bool {
	return c.UserAID == userID || c.UserBID == userID
}
