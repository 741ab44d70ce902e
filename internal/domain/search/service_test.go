package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkbook/internal/domain/artist"
	"inkbook/internal/domain/studio"
	"inkbook/internal/domain/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:search_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	models := append([]any{&user.User{}}, artist.Models()...)
	require.NoError(t, db.AutoMigrate(append(models, studio.Models()...)...))

	now := time.Now()
	users := []user.User{
		{ID: 1, Email: "a@ink.test", Username: "zed", DisplayName: "Zed Black", Role: user.RoleArtist, City: "Bangkok", IsVisible: true},
		{ID: 2, Email: "b@ink.test", Username: "amber", DisplayName: "Amber Lines", Role: user.RoleArtist, City: "Bangkok", IsVisible: true},
		{ID: 3, Email: "c@ink.test", Username: "mika", DisplayName: "Mika Dot", Role: user.RoleArtist, City: "Chiang Mai", IsVisible: true},
		{ID: 4, Email: "d@ink.test", Username: "hidden", DisplayName: "Black Ghost", Role: user.RoleArtist, City: "Bangkok", IsVisible: false},
		{ID: 5, Email: "e@ink.test", Username: "blackfan", Role: user.RoleTattooLover, City: "Bangkok", IsVisible: true},
	}
	for i := range users {
		users[i].CreatedAt, users[i].UpdatedAt = now, now
	}
	require.NoError(t, db.Create(&users).Error)
	require.NoError(t, db.Create(&[]artist.Profile{
		{ID: 11, UserID: 1, HourlyRate: 3000, Currency: "THB", WorkArrangement: artist.WorkStudio},
		{ID: 12, UserID: 2, HourlyRate: 2000, Currency: "THB", WorkArrangement: artist.WorkGuest},
		{ID: 13, UserID: 3, HourlyRate: 1500, Currency: "THB", WorkArrangement: artist.WorkPrivate},
		{ID: 14, UserID: 4, WorkArrangement: artist.WorkStudio},
	}).Error)
	require.NoError(t, db.Create(&[]artist.ProfileStyle{
		{ProfileID: 11, StyleID: 1, IsPrimary: true},
		{ProfileID: 12, StyleID: 2, IsPrimary: true},
		{ProfileID: 13, StyleID: 1, IsPrimary: true},
		{ProfileID: 14, StyleID: 1, IsPrimary: true},
	}).Error)
	require.NoError(t, db.Create(&[]artist.ProfileService{
		{ProfileID: 11, ServiceID: 7},
		{ProfileID: 12, ServiceID: 7},
	}).Error)

	require.NoError(t, db.Create(&[]studio.Studio{
		{ID: 1, OwnerID: 1, Name: "Black Lotus", City: "Bangkok", CreatedAt: now, UpdatedAt: now},
		{ID: 2, OwnerID: 3, Name: "Dot House", City: "Chiang Mai", CreatedAt: now, UpdatedAt: now},
	}).Error)
	require.NoError(t, db.Create(&[]studio.StudioStyle{{StudioID: 1, StyleID: 1}, {StudioID: 2, StyleID: 2}}).Error)
	return db
}

func usernames(items []ArtistResult) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Username)
	}
	return out
}

func TestSearchArtists(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	all, err := svc.SearchArtists(ctx, ArtistFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"amber", "mika", "zed"}, usernames(all.Items))
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, defaultLimit, all.Limit)

	byName, err := svc.SearchArtists(ctx, ArtistFilter{Query: "BLACK"})
	require.NoError(t, err)
	assert.Equal(t, []string{"zed"}, usernames(byName.Items))

	byStyle, err := svc.SearchArtists(ctx, ArtistFilter{StyleIDs: []int64{1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"mika", "zed"}, usernames(byStyle.Items))

	combined, err := svc.SearchArtists(ctx, ArtistFilter{StyleIDs: []int64{1}, ServiceIDs: []int64{7}, City: "bangkok"})
	require.NoError(t, err)
	require.Len(t, combined.Items, 1)
	assert.Equal(t, int64(3000), combined.Items[0].HourlyRate)
	assert.Equal(t, "studio", combined.Items[0].WorkArrangement)

	paged, err := svc.SearchArtists(ctx, ArtistFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"mika"}, usernames(paged.Items))
	assert.Equal(t, int64(3), paged.Total)

	capped, err := svc.SearchArtists(ctx, ArtistFilter{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, maxLimit, capped.Limit)
}

func TestSearchStudios(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	all, err := svc.SearchStudios(ctx, StudioFilter{})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, "Black Lotus", all.Items[0].Name)

	byStyle, err := svc.SearchStudios(ctx, StudioFilter{StyleIDs: []int64{2}})
	require.NoError(t, err)
	require.Len(t, byStyle.Items, 1)
	assert.Equal(t, "Dot House", byStyle.Items[0].Name)

	none, err := svc.SearchStudios(ctx, StudioFilter{Query: "lotus", City: "Chiang Mai"})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.NotNil(t, none.Items)
}

func TestHandler_SearchArtistsQueryBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterPublicRoutes(r.Group("/api/v1"), NewHandler(NewService(NewRepository(setupTestDB(t)))))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/search/artists?style_ids=1&style_ids=2&limit=2", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data Page[ArtistResult] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"amber", "mika"}, usernames(resp.Data.Items))
	assert.Equal(t, int64(3), resp.Data.Total)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/search/artists?limit=many", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
