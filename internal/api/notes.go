package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"notes-client/internal/models"
)

func (c *Client) GetNotes(ctx context.Context, req *models.NoteListRequest) (*models.NoteList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(req.Page))
	query.Set("limit", strconv.Itoa(req.Limit))
	if req.CategoryID != nil {
		query.Set("category_id", strconv.FormatUint(uint64(*req.CategoryID), 10))
	}
	if req.TagID != nil {
		query.Set("tag_id", strconv.FormatUint(uint64(*req.TagID), 10))
	}
	if req.Search != "" {
		query.Set("search", req.Search)
	}
	if req.Sort != "" {
		query.Set("sort", req.Sort)
	}
	if req.Order != "" {
		query.Set("order", req.Order)
	}

	var out models.NoteList
	if err := c.call(ctx, http.MethodGet, "/notes", nil, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetNote(ctx context.Context, id uint) (*models.Note, error) {
	var out models.Note
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/notes/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateNote(ctx context.Context, req *models.NoteCreateRequest) (*models.Note, error) {
	var out models.Note
	if err := c.call(ctx, http.MethodPost, "/notes", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateNote(ctx context.Context, id uint, req *models.NoteUpdateRequest) (*models.Note, error) {
	var out models.Note
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/notes/%d", id), req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteNote(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/notes/%d", id), nil, nil, nil)
}

func (c *Client) GetUserStats(ctx context.Context) (*models.UserStats, error) {
	var out models.UserStats
	if err := c.call(ctx, http.MethodGet, "/notes/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
