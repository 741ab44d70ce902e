package api

import (
	"context"
	"net/url"
	"strconv"
)

type ArtistQuery struct {
	Query      string
	StyleIDs   []int64
	ServiceIDs []int64
	City       string
	Limit      int
	Offset     int
}

type StudioQuery struct {
	Query    string
	StyleIDs []int64
	City     string
	Limit    int
	Offset   int
}

func searchValues(query, city string, limit, offset int) url.Values {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if city != "" {
		v.Set("city", city)
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		v.Set("offset", strconv.Itoa(offset))
	}
	return v
}

func addIDs(v url.Values, key string, ids []int64) {
	for _, id := range ids {
		v.Add(key, strconv.FormatInt(id, 10))
	}
}

func (c *Client) SearchArtists(ctx context.Context, q ArtistQuery) (*Page[ArtistResult], error) {
	v := searchValues(q.Query, q.City, q.Limit, q.Offset)
	addIDs(v, "style_ids", q.StyleIDs)
	addIDs(v, "service_ids", q.ServiceIDs)
	var out Page[ArtistResult]
	if err := c.get(ctx, "/search/artists", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchStudios(ctx context.Context, q StudioQuery) (*Page[StudioResult], error) {
	v := searchValues(q.Query, q.City, q.Limit, q.Offset)
	addIDs(v, "style_ids", q.StyleIDs)
	var out Page[StudioResult]
	if err := c.get(ctx, "/search/studios", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
