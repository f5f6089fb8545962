package entities

import "time"

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// CommandRecord - журнальная запись об одной выполненной команде робота.
type CommandRecord struct {
	ID           string    `gorm:"primaryKey;not null" json:"id"`
	Command      string    `gorm:"not null;index" json:"command"`
	Argument     string    `json:"argument,omitempty"` // Имя детали/позиции либо сериализованная поза
	Status       string    `gorm:"not null" json:"status"`
	Message      string    `json:"message,omitempty"` // Текст ошибки при status=failed
	DurationMs   int64     `json:"duration_ms"`
	ConnectionID string    `json:"connection_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
