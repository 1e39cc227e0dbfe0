package models

import "time"

type Note struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	CategoryID  *uint     `json:"category_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type"`
	IsPublic    bool      `json:"is_public"`
	ViewCount   int       `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联快照，由服务端展开
	Category    *Category    `json:"category,omitempty"`
	Tags        []Tag        `json:"tags,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type NoteCreateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Content     string `json:"content"`
	ContentType string `json:"content_type" validate:"omitempty,oneof=markdown html"`
	CategoryID  *uint  `json:"category_id"`
	TagIDs      []uint `json:"tag_ids"`
	IsPublic    bool   `json:"is_public"`
}

type NoteUpdateRequest struct {
	Title      string `json:"title" validate:"required,max=255"`
	Content    string `json:"content"`
	CategoryID *uint  `json:"category_id"`
	TagIDs     []uint `json:"tag_ids"`
	IsPublic   bool   `json:"is_public"`
}

type NoteListRequest struct {
	Page       int    `json:"page" validate:"omitempty,min=1"`
	Limit      int    `json:"limit" validate:"omitempty,min=1,max=100"`
	CategoryID *uint  `json:"category_id"`
	TagID      *uint  `json:"tag_id"`
	Search     string `json:"search"`
	Sort       string `json:"sort" validate:"omitempty,oneof=created_at updated_at title view_count"`
	Order      string `json:"order" validate:"omitempty,oneof=asc desc"`
}
