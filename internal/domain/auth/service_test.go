package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkbook/internal/domain/artist"
	"inkbook/internal/domain/user"
	"inkbook/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db    *gorm.DB
	svc   *Service
	users *user.Service
	jwt   *jwt.Service
}

func setup(t *testing.T) fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(append([]any{&user.User{}}, artist.Models()...)...))
	require.NoError(t, db.Create(&[]artist.Style{
		{ID: 1, Name: "Blackwork", Slug: "blackwork"},
		{ID: 2, Name: "Dotwork", Slug: "dotwork"},
	}).Error)
	require.NoError(t, db.Create(&[]artist.TattooService{{ID: 1, Name: "Custom", Slug: "custom"}}).Error)
	require.NoError(t, db.Create(&[]artist.BodyPart{{ID: 1, Name: "Arm", Slug: "arm"}}).Error)

	userRepo := user.NewRepository(db)
	tokens := jwt.New("test-secret", time.Hour)
	return fixture{
		db:    db,
		svc:   NewService(db, userRepo, artist.NewService(artist.NewRepository(db), nil), tokens),
		users: user.NewService(userRepo),
		jwt:   tokens,
	}
}

func account(email, username string) Account {
	return Account{
		Email:       email,
		Password:    "correct horse",
		Username:    username,
		DisplayName: "Someone",
		City:        " Bangkok ",
	}
}

func completeProfile() artist.CreateProfileInput {
	return artist.CreateProfileInput{
		HourlyRate:      2500,
		Currency:        "thb",
		WorkArrangement: artist.WorkStudio,
		Styles:          []artist.StyleChoice{{StyleID: 1, IsPrimary: true}, {StyleID: 2}},
		ServiceIDs:      []int64{1},
		BodyPartIDs:     []int64{1},
	}
}

func TestRegisterLover_ThenLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	resp, err := f.svc.RegisterLover(ctx, RegisterLoverRequest{Account: account("Fan@Ink.test", "@Fan_01")})
	require.NoError(t, err)
	assert.Equal(t, "fan@ink.test", resp.User.Email)
	assert.Equal(t, "fan_01", resp.User.Username)
	assert.Equal(t, "Bangkok", resp.User.City)
	assert.Equal(t, user.RoleTattooLover, resp.User.Role)
	assert.Nil(t, resp.Profile)

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "tattoo_lover", claims.Role)

	logged, err := f.svc.Login(ctx, LoginRequest{Email: "fan@ink.test", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, logged.User.ID)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "fan@ink.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, LoginRequest{Email: "nobody@ink.test", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Uniqueness(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.RegisterLover(ctx, RegisterLoverRequest{Account: account("a@ink.test", "alpha")})
	require.NoError(t, err)

	_, err = f.svc.RegisterLover(ctx, RegisterLoverRequest{Account: account("A@ink.test", "beta")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.svc.RegisterLover(ctx, RegisterLoverRequest{Account: account("b@ink.test", "ALPHA")})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = f.svc.RegisterLover(ctx, RegisterLoverRequest{Account: account("c@ink.test", "no spaces")})
	assert.ErrorIs(t, err, user.ErrInvalidUsername)
}

func TestRegisterArtist_CreatesProfileAtomically(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	resp, err := f.svc.RegisterArtist(ctx, RegisterArtistRequest{
		Account: account("artist@ink.test", "needles"),
		Profile: completeProfile(),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, user.RoleArtist, resp.User.Role)
	assert.Equal(t, resp.User.ID, resp.Profile.UserID)

	incomplete := completeProfile()
	incomplete.Styles = incomplete.Styles[:1]
	_, err = f.svc.RegisterArtist(ctx, RegisterArtistRequest{
		Account: account("second@ink.test", "second"),
		Profile: incomplete,
	})
	var ie *artist.IncompleteError
	require.ErrorAs(t, err, &ie)
	assert.Contains(t, ie.Missing, artist.MissingStyles)

	// the user row was rolled back with the profile
	var count int64
	require.NoError(t, f.db.Model(&user.User{}).Where("email = ?", "second@ink.test").Count(&count).Error)
	assert.Zero(t, count)
}

func TestHandler_Routes(t *testing.T) {
	f := setup(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(f.svc, f.users).RegisterPublicRoutes(r.Group("/api/v1"))

	body, _ := json.Marshal(RegisterLoverRequest{Account: account("h@ink.test", "handler")})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register/lover", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register/lover", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/username-available?username=Handler", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var avail struct {
		Data struct {
			Username  string `json:"username"`
			Available bool   `json:"available"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.Equal(t, "handler", avail.Data.Username)
	assert.False(t, avail.Data.Available)

	login, _ := json.Marshal(LoginRequest{Email: "h@ink.test", Password: "nope"})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(login))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
