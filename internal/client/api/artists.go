package api

import (
	"context"
	"net/http"
)

func (c *Client) ListStyles(ctx context.Context) ([]CatalogItem, error) {
	var out []CatalogItem
	err := c.get(ctx, "/catalog/styles", nil, &out)
	return out, err
}

func (c *Client) ListServices(ctx context.Context) ([]CatalogItem, error) {
	var out []CatalogItem
	err := c.get(ctx, "/catalog/services", nil, &out)
	return out, err
}

func (c *Client) ListBodyParts(ctx context.Context) ([]CatalogItem, error) {
	var out []CatalogItem
	err := c.get(ctx, "/catalog/body-parts", nil, &out)
	return out, err
}

func (c *Client) GetArtist(ctx context.Context, userID int64) (*ArtistProfile, error) {
	var out ArtistProfile
	if err := c.get(ctx, idPath("/artists/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMyArtistProfile(ctx context.Context) (*ArtistProfile, error) {
	var out ArtistProfile
	if err := c.get(ctx, "/artist/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRates(ctx context.Context, r Rates) (*ArtistProfile, error) {
	return c.profileWrite(ctx, http.MethodPatch, "/artist/profile/rates", r)
}

func (c *Client) SetArtistStyles(ctx context.Context, styles []StyleChoice) (*ArtistProfile, error) {
	return c.profileWrite(ctx, http.MethodPut, "/artist/profile/styles", map[string]any{"styles": styles})
}

func (c *Client) SetArtistServices(ctx context.Context, ids []int64) (*ArtistProfile, error) {
	return c.profileWrite(ctx, http.MethodPut, "/artist/profile/services", map[string]any{"ids": ids})
}

func (c *Client) SetArtistBodyParts(ctx context.Context, ids []int64) (*ArtistProfile, error) {
	return c.profileWrite(ctx, http.MethodPut, "/artist/profile/body-parts", map[string]any{"ids": ids})
}

func (c *Client) profileWrite(ctx context.Context, method, path string, body any) (*ArtistProfile, error) {
	var out ArtistProfile
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (*Project, error) {
	var out Project
	if err := c.do(ctx, http.MethodPost, "/artist/projects", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id int64, in ProjectInput) (*Project, error) {
	var out Project
	if err := c.do(ctx, http.MethodPut, idPath("/artist/projects/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/artist/projects/%d", id), nil, nil)
}
