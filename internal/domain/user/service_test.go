package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) (*Service, Repository) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	repo := NewRepository(db)
	return NewService(repo), repo
}

func seedUser(t *testing.T, repo Repository, username string, visible bool) *User {
	t.Helper()
	u := &User{
		Email:       username + "@inkbook.test",
		Username:    username,
		Role:        RoleArtist,
		DisplayName: username,
		IsVisible:   visible,
		Socials:     Socials{Instagram: "@" + username},
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUpdateProfile_PartialUpdateKeepsOtherFields(t *testing.T) {
	svc, repo := setupTestService(t)
	u := seedUser(t, repo, "inkmaster", true)

	bio := "  fine line & blackwork "
	updated, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "fine line & blackwork", updated.Bio)
	assert.Equal(t, "inkmaster", updated.DisplayName)

	reloaded, err := svc.GetMe(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "fine line & blackwork", reloaded.Bio)
	assert.Equal(t, "@inkmaster", reloaded.Socials.Instagram)
}

func TestUpdateProfile_Socials(t *testing.T) {
	svc, repo := setupTestService(t)
	u := seedUser(t, repo, "needle", true)

	socials := Socials{TikTok: "@needle.tt", Website: "https://needle.test"}
	_, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileRequest{Socials: &socials})
	require.NoError(t, err)

	reloaded, err := svc.GetMe(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, socials, reloaded.Socials)
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	svc, repo := setupTestService(t)
	seedUser(t, repo, "taken", true)
	u := seedUser(t, repo, "mine", true)

	username := "@Taken"
	_, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileRequest{Username: &username})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestGetByUsername_HiddenUser(t *testing.T) {
	svc, repo := setupTestService(t)
	u := seedUser(t, repo, "ghost", true)
	require.NoError(t, svc.SetVisibility(context.Background(), u.ID, false))

	_, err := svc.GetByUsername(context.Background(), 999, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	self, err := svc.GetByUsername(context.Background(), u.ID, "ghost")
	require.NoError(t, err)
	assert.Equal(t, u.ID, self.ID)
}

func TestUsernameAvailable(t *testing.T) {
	svc, repo := setupTestService(t)
	seedUser(t, repo, "busy", true)

	ok, err := svc.UsernameAvailable(context.Background(), "busy")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.UsernameAvailable(context.Background(), "free_name")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.UsernameAvailable(context.Background(), "x")
	assert.ErrorIs(t, err, ErrInvalidUsername)
}
