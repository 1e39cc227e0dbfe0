package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"notes-client/internal/models"
)

// 同一笔记重复创建会覆盖已有分享链接
func (c *Client) CreateShareLink(ctx context.Context, noteID uint, req *models.ShareLinkCreateRequest) (*models.ShareLinkResponse, error) {
	var out models.ShareLinkResponse
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/notes/%d/share", noteID), req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetShareInfo(ctx context.Context, noteID uint) (*models.ShareLinkResponse, error) {
	var out models.ShareLinkResponse
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/notes/%d/share", noteID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteShareLink(ctx context.Context, noteID uint) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/notes/%d/share", noteID), nil, nil, nil)
}

// 无需登录；401 表示需要密码或密码错误，410 表示已过期
func (c *Client) GetPublicNote(ctx context.Context, code, password string) (*models.Note, error) {
	var query url.Values
	if password != "" {
		query = url.Values{"password": {password}}
	}

	var out models.Note
	if err := c.callPublic(ctx, http.MethodGet, "/public/notes/"+code, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
