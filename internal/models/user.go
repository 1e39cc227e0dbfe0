package models

import "time"

type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserStorage struct {
	UsedSpace     int64 `json:"used_space"`
	MaxSpace      int64 `json:"max_space"`
	FileCount     int   `json:"file_count"`
	ImageCount    int   `json:"image_count"`
	DocumentCount int   `json:"document_count"`
}

type UserStats struct {
	TotalNotes      int `json:"total_notes"`
	PublicNotes     int `json:"public_notes"`
	PrivateNotes    int `json:"private_notes"`
	TotalCategories int `json:"total_categories"`
	TotalTags       int `json:"total_tags"`
	TotalViews      int `json:"total_views"`
}

type UserRegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// /auth/login 和 /auth/register 的响应
type UserResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// /auth/me 返回用户信息加存储配额
type MeResponse struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Avatar    *string     `json:"avatar"`
	Role      string      `json:"role"`
	Storage   UserStorage `json:"storage"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
