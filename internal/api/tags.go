package api

import (
	"context"
	"fmt"
	"net/http"

	"notes-client/internal/models"
)

func (c *Client) GetTags(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	if err := c.call(ctx, http.MethodGet, "/tags", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTag(ctx context.Context, req *models.TagCreateRequest) (*models.Tag, error) {
	var out models.Tag
	if err := c.call(ctx, http.MethodPost, "/tags", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTag(ctx context.Context, id uint, req *models.TagUpdateRequest) (*models.Tag, error) {
	var out models.Tag
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/tags/%d", id), req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTag(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/tags/%d", id), nil, nil, nil)
}
