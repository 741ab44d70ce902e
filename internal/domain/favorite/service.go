package favorite

import (
	"context"
	"time"
)

// ArtistProfiles is implemented by artist.Service.
type ArtistProfiles interface {
	HasProfile(ctx context.Context, userID int64) (bool, error)
}

type Service struct {
	repo    Repository
	artists ArtistProfiles
}

func NewService(repo Repository, artists ArtistProfiles) *Service {
	return &Service{repo: repo, artists: artists}
}

func (s *Service) Add(ctx context.Context, userID, artistID int64) (*Favorite, error) {
	if userID == artistID {
		return nil, ErrCannotSaveSelf
	}
	ok, err := s.artists.HasProfile(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrArtistNotFound
	}

	f := &Favorite{UserID: userID, ArtistID: artistID, CreatedAt: time.Now().UTC()}
	added, err := s.repo.Add(ctx, f)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrAlreadySaved
	}
	return f, nil
}

func (s *Service) Remove(ctx context.Context, userID, artistID int64) error {
	ok, err := s.repo.Remove(ctx, userID, artistID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotSaved
	}
	return nil
}

func (s *Service) IsSaved(ctx context.Context, userID, artistID int64) (bool, error) {
	return s.repo.Exists(ctx, userID, artistID)
}

func (s *Service) List(ctx context.Context, userID int64, page, perPage int) (*ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	items, total, err := s.repo.List(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []SavedArtist{}
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}
	return &ListResponse{
		Favorites:  items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}
