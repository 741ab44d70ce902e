package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
)

// Media folders accepted by the upload endpoint.
const (
	FolderAvatars     = "avatars"
	FolderPortfolio   = "portfolio"
	FolderStudioLogos = "studio_logos"
	FolderChat        = "chat"
)

// Upload posts one file to the media endpoint. maxSize is a hint in bytes
// that can only lower the server cap; 0 leaves it unset.
func (c *Client) Upload(ctx context.Context, folder, filename string, r io.Reader, maxSize int64) (*Asset, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("folder", folder); err != nil {
		return nil, err
	}
	if maxSize > 0 {
		if err := mw.WriteField("max_size", strconv.FormatInt(maxSize, 10)); err != nil {
			return nil, err
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/media", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out Asset
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMedia removes an uploaded object. Only the uploader may.
func (c *Client) DeleteMedia(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, idPath("/media/%s", id), nil, nil)
}
