package search

import (
	"context"
)

const (
	defaultLimit = 20
	maxLimit     = 50
)

// Service builds discovery queries. Results are filtered and sorted
// alphabetically; there is no relevance ranking.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func clamp(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *Service) SearchArtists(ctx context.Context, f ArtistFilter) (*Page[ArtistResult], error) {
	f.Limit, f.Offset = clamp(f.Limit, f.Offset)
	items, total, err := s.repo.Artists(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ArtistResult{}
	}
	return &Page[ArtistResult]{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (s *Service) SearchStudios(ctx context.Context, f StudioFilter) (*Page[StudioResult], error) {
	f.Limit, f.Offset = clamp(f.Limit, f.Offset)
	items, total, err := s.repo.Studios(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []StudioResult{}
	}
	return &Page[StudioResult]{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}
