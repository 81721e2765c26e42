package events

import "time"

const UserLifecycleTopic = "accounts.user.lifecycle.v1"

const EventTypeUserRegistered = "user.registered"

type UserRegisteredEvent struct {
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	CompanyID  string    `json:"company_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}
