package domain

import (
	"strings"
	"time"
)

// Todo is a single task owned by a user. CreatedAt is set once at insert time
// and drives the descending display order.
type Todo struct {
	ID        string
	UserID    string
	Title     string
	Completed bool
	CreatedAt time.Time
}

// ValidateTitle rejects empty or whitespace-only titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidTitle
	}
	return nil
}
