package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) ListFavorites(ctx context.Context, page, perPage int) (*Favorites, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	var out Favorites
	if err := c.get(ctx, "/favorites", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveArtist(ctx context.Context, artistID int64) error {
	return c.do(ctx, http.MethodPost, idPath("/favorites/%d", artistID), nil, nil)
}

func (c *Client) UnsaveArtist(ctx context.Context, artistID int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/favorites/%d", artistID), nil, nil)
}

func (c *Client) IsArtistSaved(ctx context.Context, artistID int64) (bool, error) {
	var out struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := c.get(ctx, idPath("/favorites/%d/check", artistID), nil, &out); err != nil {
		return false, err
	}
	return out.IsFavorite, nil
}
