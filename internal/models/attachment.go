package models

import "time"

type Attachment struct {
	ID               uint      `json:"id"`
	NoteID           uint      `json:"note_id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	FileType         string    `json:"file_type"`
	MimeType         *string   `json:"mime_type"`
	IsImage          bool      `json:"is_image"`
	CreatedAt        time.Time `json:"created_at"`

	// 服务端生成的访问地址，图片带缩略图
	URLs *FileURLs `json:"urls,omitempty"`
}

type FileURLs struct {
	Original  string `json:"original"`
	Medium    string `json:"medium,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}
