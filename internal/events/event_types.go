package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered     EventType = "user_registered"
	EventPasswordChanged    EventType = "password_changed"
	EventAccountDeactivated EventType = "account_deactivated"
	EventAccountReactivated EventType = "account_reactivated"
	EventTodoCreated        EventType = "todo_created"
	EventTodoCompleted      EventType = "todo_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// TodoCreatedPayload payload.
type TodoCreatedPayload struct {
	TodoID     string `json:"todo_id"`
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
}

// TodoCompletedPayload payload.
type TodoCompletedPayload struct {
	TodoID string `json:"todo_id"`
	Title  string `json:"title"`
}
