package api

import (
	"context"
	"fmt"
	"net/http"

	"notes-client/internal/models"
)

// 返回树形结构，children 已嵌套
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.call(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, req *models.CategoryCreateRequest) (*models.Category, error) {
	var out models.Category
	if err := c.call(ctx, http.MethodPost, "/categories", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uint, req *models.CategoryUpdateRequest) (*models.Category, error) {
	var out models.Category
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil, nil)
}
