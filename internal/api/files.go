package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"notes-client/internal/models"
)

func (c *Client) UploadAttachment(ctx context.Context, noteID uint, filename string, r io.Reader) (*models.Attachment, error) {
	var out models.Attachment
	if err := c.upload(ctx, fmt.Sprintf("/notes/%d/attachments", noteID), filename, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAttachments(ctx context.Context, noteID uint) ([]models.Attachment, error) {
	var out []models.Attachment
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/notes/%d/attachments", noteID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteAttachment(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/attachments/%d", id), nil, nil, nil)
}

func (c *Client) GetUserStorage(ctx context.Context) (*models.UserStorage, error) {
	var out models.UserStorage
	if err := c.call(ctx, http.MethodGet, "/user/storage", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
