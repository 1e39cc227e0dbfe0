package models

import "time"

type ShareLinkCreateRequest struct {
	Password   *string    `json:"password"`
	ExpireTime *time.Time `json:"expire_time"`
}

type ShareLinkResponse struct {
	ShareCode  string     `json:"share_code"`
	ShareURL   string     `json:"share_url"`
	Password   *string    `json:"password,omitempty"`
	ExpireTime *time.Time `json:"expire_time,omitempty"`
}
