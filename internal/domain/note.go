package domain

import (
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/errors"
)

// Note is freeform text attached to a book, optionally pinned to a page and
// a particular reading pass.
type Note struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	ReadingID *string   `json:"reading_id,omitempty"`
	Page      *int      `json:"page,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote creates a note, rejecting empty content.
func NewNote(id, bookID, content string) (*Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.Validation("note content cannot be empty")
	}
	now := time.Now().UTC()
	return &Note{
		ID:        id,
		BookID:    bookID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetContent replaces the note text, rejecting empty content.
func (n *Note) SetContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.Validation("note content cannot be empty")
	}
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	return nil
}
