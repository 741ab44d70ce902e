package user

import (
	"context"
	"regexp"
	"strings"
	"time"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9._]{3,30}$`)

// NormalizeUsername lowercases and strips a leading @.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

// ValidateUsername checks the normalized form.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(NormalizeUsername(username)) {
		return ErrInvalidUsername
	}
	return nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetMe(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// GetByUsername hides invisible users from everyone but themselves.
func (s *Service) GetByUsername(ctx context.Context, viewerID int64, username string) (*PublicProfile, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !u.IsVisible && u.ID != viewerID {
		return nil, ErrUserNotFound
	}
	p := toPublic(u)
	return &p, nil
}

// GetRole is used by chat to decide whether a contact needs approval.
func (s *Service) GetRole(ctx context.Context, userID int64) (string, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return string(u.Role), nil
}

// UsernameAvailable reports whether the normalized username is free.
func (s *Service) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if err := ValidateUsername(username); err != nil {
		return false, err
	}
	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// UpdateProfile applies only the non-nil fields. Concurrent edits are last write wins.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var columns []string
	if req.Username != nil {
		username := NormalizeUsername(*req.Username)
		if username != u.Username {
			if err := ValidateUsername(username); err != nil {
				return nil, err
			}
			taken, err := s.repo.ExistsByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrUsernameTaken
			}
			u.Username = username
			columns = append(columns, "username")
		}
	}
	if req.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*req.DisplayName)
		columns = append(columns, "display_name")
	}
	if req.Bio != nil {
		u.Bio = strings.TrimSpace(*req.Bio)
		columns = append(columns, "bio")
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
		columns = append(columns, "avatar_url")
	}
	if req.City != nil {
		u.City = strings.TrimSpace(*req.City)
		columns = append(columns, "city")
	}
	if req.Socials != nil {
		u.Socials = *req.Socials
		columns = append(columns, "socials")
	}

	if len(columns) == 0 {
		return u, nil
	}
	u.UpdatedAt = time.Now()
	columns = append(columns, "updated_at")
	if err := s.repo.UpdateColumns(ctx, u, columns...); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) SetVisibility(ctx context.Context, userID int64, visible bool) error {
	u := &User{ID: userID, IsVisible: visible, UpdatedAt: time.Now()}
	return s.repo.UpdateColumns(ctx, u, "is_visible", "updated_at")
}
