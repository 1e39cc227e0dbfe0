package models

import "time"

type Category struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"user_id"`
	Name        string     `json:"name"`
	ParentID    *uint      `json:"parent_id"`
	SortOrder   int        `json:"sort_order"`
	Description *string    `json:"description"`
	NoteCount   int        `json:"note_count,omitempty"`
	Children    []Category `json:"children,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CategoryCreateRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	ParentID    *uint   `json:"parent_id"`
	Description *string `json:"description"`
}

type CategoryUpdateRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	ParentID    *uint   `json:"parent_id"`
	Description *string `json:"description"`
}
