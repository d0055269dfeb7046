package journal

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Session captures one journaling conversation bound to a companion profile.
type Session struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is an immutable turn inside a session. Seq is the monotonic
// position assigned when the message is saved; messages are never mutated
// after creation.
type Message struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	Seq         int       `json:"seq"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Emotion     string    `json:"emotion,omitempty"`
	StressLevel int       `json:"stressLevel,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
