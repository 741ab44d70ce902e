package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkbook/internal/domain/artist"
	"inkbook/internal/domain/user"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}

// Service handles registration and login. Registration writes the user and,
// for artists, the full profile in one transaction.
type Service struct {
	db      *gorm.DB
	users   user.Repository
	artists *artist.Service
	jwt     jwtService
}

func NewService(db *gorm.DB, users user.Repository, artists *artist.Service, jwt jwtService) *Service {
	return &Service{db: db, users: users, artists: artists, jwt: jwt}
}

func (s *Service) RegisterLover(ctx context.Context, req RegisterLoverRequest) (*AuthResponse, error) {
	var u *user.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		u, err = s.createUser(ctx, s.users.WithTx(tx), req.Account, user.RoleTattooLover)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.issue(u, nil)
}

// RegisterArtist rejects incomplete profiles with *artist.IncompleteError;
// nothing is written in that case.
func (s *Service) RegisterArtist(ctx context.Context, req RegisterArtistRequest) (*AuthResponse, error) {
	var (
		u *user.User
		p *artist.Profile
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		u, err = s.createUser(ctx, s.users.WithTx(tx), req.Account, user.RoleArtist)
		if err != nil {
			return err
		}
		p, err = s.artists.WithTx(tx).CreateProfile(ctx, u.ID, req.Profile, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.issue(u, p)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u, nil)
}

func (s *Service) createUser(ctx context.Context, users user.Repository, acc Account, role user.Role) (*user.User, error) {
	if err := user.ValidateUsername(acc.Username); err != nil {
		return nil, err
	}
	taken, err := users.ExistsByEmail(ctx, acc.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	taken, err = users.ExistsByUsername(ctx, acc.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		Email:        strings.ToLower(strings.TrimSpace(acc.Email)),
		Username:     user.NormalizeUsername(acc.Username),
		PasswordHash: string(hash),
		Role:         role,
		DisplayName:  strings.TrimSpace(acc.DisplayName),
		Bio:          acc.Bio,
		AvatarURL:    acc.AvatarURL,
		City:         strings.TrimSpace(acc.City),
		Socials:      acc.Socials,
		IsVisible:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) issue(u *user.User, p *artist.Profile) (*AuthResponse, error) {
	token, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: u, Profile: p}, nil
}
