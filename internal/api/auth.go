package api

import (
	"context"
	"net/http"

	"notes-client/internal/models"
)

func (c *Client) Login(ctx context.Context, req *models.UserLoginRequest) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.call(ctx, http.MethodPost, "/auth/login", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req *models.UserRegisterRequest) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.call(ctx, http.MethodPost, "/auth/register", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMe(ctx context.Context) (*models.MeResponse, error) {
	var out models.MeResponse
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// 服务端无状态，登出只是通知一下，失败不影响本地清理
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}
