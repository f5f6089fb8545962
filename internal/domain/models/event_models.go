package models

import "time"

// Типы событий телеметрии, публикуемых в Kafka.
const (
	EventCommand    = "command"
	EventTransition = "state_transition"
	EventStatus     = "status"
)

// CommandEvent публикуется после каждой выполненной команды.
type CommandEvent struct {
	Type         string    `json:"type"`
	ID           string    `json:"id"`
	Command      string    `json:"command"`
	Argument     string    `json:"argument,omitempty"`
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	ConnectionID string    `json:"connection_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// TransitionEvent публикуется при каждой смене состояния сессии.
type TransitionEvent struct {
	Type      string       `json:"type"`
	From      SessionState `json:"from"`
	To        SessionState `json:"to"`
	Timestamp time.Time    `json:"timestamp"`
}

// StatusEvent публикуется фоновым опросом состояния.
type StatusEvent struct {
	Type      string      `json:"type"`
	Session   SessionInfo `json:"session"`
	Pose      []float64   `json:"pose,omitempty"` // Живая поза, если сессия READY
	Timestamp time.Time   `json:"timestamp"`
}
