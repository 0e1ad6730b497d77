package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"
)

type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewNotification fills in the id and timestamp.
func NewNotification(level NotificationLevel, title, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Title:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
