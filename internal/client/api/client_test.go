package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newServer(t *testing.T, register func(r *gin.Engine)) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/v1", staticToken("tok-123"))
}

func TestClient_DecodesEnvelopeAndSendsToken(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.GET("/api/v1/users/me", func(c *gin.Context) {
			if c.GetHeader("Authorization") != "Bearer tok-123" {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{"code": "UNAUTHORIZED", "message": "unauthorized"}})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": 7, "username": "ink", "role": "artist"}})
		})
	})

	me, err := c.GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), me.ID)
	assert.Equal(t, "ink", me.Username)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.GET("/api/v1/studios/:id", func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "NOT_FOUND", "message": "studio not found"}})
		})
		r.POST("/api/v1/invitations/:token/accept", func(c *gin.Context) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": gin.H{"code": "INVITATION_ALREADY_ACCEPTED", "message": "invitation already accepted"}})
		})
	})

	_, err := c.GetStudio(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "studio not found", err.Error())

	_, err = c.AcceptInvitation(context.Background(), "abc")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.True(t, HasCode(err, "INVITATION_ALREADY_ACCEPTED"))
	assert.True(t, IsRefused(err))
	assert.False(t, IsNotFound(err))
}

func TestIsRefused_OnlyResourceAnswers(t *testing.T) {
	for status, want := range map[int]bool{
		http.StatusForbidden:       true,
		http.StatusNotFound:        true,
		http.StatusConflict:        true,
		http.StatusGone:            true,
		http.StatusUnauthorized:    false,
		http.StatusTooManyRequests: false,
		http.StatusBadRequest:      false,
		http.StatusBadGateway:      false,
	} {
		assert.Equal(t, want, IsRefused(&Error{Status: status}), "status %d", status)
	}
	assert.False(t, IsRefused(errors.New("dial tcp: connection refused")))
}

func validArtist() ArtistRegistration {
	return ArtistRegistration{
		Email:           "ink@example.com",
		Password:        "long enough",
		Username:        "needles",
		DisplayName:     "Needles",
		City:            "Bangkok",
		WorkArrangement: "studio",
		HourlyRate:      2000,
		Styles:          []StyleChoice{{StyleID: 1, IsPrimary: true}, {StyleID: 2}},
		ServiceIDs:      []int64{1},
		BodyPartIDs:     []int64{3},
	}
}

func TestRegisterArtist_ValidatesOnceBeforeWriting(t *testing.T) {
	var calls int32
	var gotProfile map[string]any
	c := newServer(t, func(r *gin.Engine) {
		r.POST("/api/v1/auth/register/artist", func(c *gin.Context) {
			atomic.AddInt32(&calls, 1)
			var body map[string]any
			_ = c.ShouldBindJSON(&body)
			gotProfile, _ = body["profile"].(map[string]any)
			c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"token": "t", "user": gin.H{"id": 1, "username": "needles"}}})
		})
	})
	ctx := context.Background()

	bad := validArtist()
	bad.Styles = []StyleChoice{{StyleID: 1}, {StyleID: 2}}
	bad.BodyPartIDs = nil
	_, err := c.RegisterArtist(ctx, bad)
	var fields FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "one_primary", fields["Styles"])
	assert.Equal(t, "min", fields["BodyPartIDs"])
	assert.Zero(t, atomic.LoadInt32(&calls))

	sess, err := c.RegisterArtist(ctx, validArtist())
	require.NoError(t, err)
	assert.Equal(t, "t", sess.Token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.NotNil(t, gotProfile)
	assert.Equal(t, "studio", gotProfile["work_arrangement"])
}

func TestListMessages_SendsCursor(t *testing.T) {
	var gotBefore, gotID, gotLimit string
	c := newServer(t, func(r *gin.Engine) {
		r.GET("/api/v1/conversations/:id/messages", func(c *gin.Context) {
			gotBefore, gotID, gotLimit = c.Query("before"), c.Query("before_id"), c.Query("limit")
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
				"messages": []gin.H{{"id": "m1", "conversation_id": c.Param("id"), "content": "hi"}},
				"has_more": true,
			}})
		})
	})

	at := time.Date(2026, 3, 1, 10, 0, 0, 123000, time.UTC)
	page, err := c.ListMessages(context.Background(), "conv-1", &Cursor{CreatedAt: at, ID: "m9"}, 20)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.True(t, page.HasMore)
	assert.Equal(t, at.Format(time.RFC3339Nano), gotBefore)
	assert.Equal(t, "m9", gotID)
	assert.Equal(t, "20", gotLimit)
}

func TestUpload_Multipart(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.POST("/api/v1/media", func(c *gin.Context) {
			fh, err := c.FormFile("file")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{"code": "VALIDATION_ERROR", "message": "no file"}})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{
				"id":            "a1",
				"secure_url":    "https://cdn/x/" + c.PostForm("folder") + "/" + c.PostForm("max_size"),
				"resource_type": "image",
				"bytes":         fh.Size,
			}})
		})
	})

	asset, err := c.Upload(context.Background(), FolderAvatars, "me.png", strings.NewReader("pngbytes"), 2048)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x/avatars/2048", asset.SecureURL)
	assert.Equal(t, int64(8), asset.Bytes)
}
