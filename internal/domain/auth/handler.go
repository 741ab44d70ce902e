package auth

import (
	"context"
	"errors"
	"net/http"

	"inkbook/internal/domain/artist"
	"inkbook/internal/domain/user"
	"inkbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// UsernameChecker is implemented by user.Service.
type UsernameChecker interface {
	UsernameAvailable(ctx context.Context, username string) (bool, error)
}

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service   *Service
	usernames UsernameChecker
}

func NewHandler(service *Service, usernames UsernameChecker) *Handler {
	return &Handler{service: service, usernames: usernames}
}

// RegisterLover godoc
// @Summary Register a tattoo lover
// @Description Final submission of the tattoo-lover wizard.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterLoverRequest true "Assembled wizard payload"
// @Success 201 {object} AuthResponse
// @Failure 400,409 {object} map[string]interface{}
// @Router /auth/register/lover [post]
func (h *Handler) RegisterLover(c *gin.Context) {
	var req RegisterLoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	resp, err := h.service.RegisterLover(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// RegisterArtist godoc
// @Summary Register an artist
// @Description Final submission of the artist wizard. The user and the artist profile are created together; an incomplete profile is rejected.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterArtistRequest true "Assembled wizard payload"
// @Success 201 {object} AuthResponse
// @Failure 400,409,422 {object} map[string]interface{}
// @Router /auth/register/artist [post]
func (h *Handler) RegisterArtist(c *gin.Context) {
	var req RegisterArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	resp, err := h.service.RegisterArtist(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// Login godoc
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) UsernameAvailable(c *gin.Context) {
	username := c.Query("username")
	ok, err := h.usernames.UsernameAvailable(c.Request.Context(), username)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"username": user.NormalizeUsername(username), "available": ok})
}

func handleError(c *gin.Context, err error) {
	var incomplete *artist.IncompleteError
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrEmailTaken):
		response.Error(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, ErrUsernameTaken):
		response.Error(c, http.StatusConflict, "USERNAME_TAKEN", err.Error())
	case errors.Is(err, user.ErrInvalidUsername):
		response.Error(c, http.StatusBadRequest, "INVALID_USERNAME", err.Error())
	case errors.As(err, &incomplete):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "PROFILE_INCOMPLETE", err.Error(),
			gin.H{"missing": incomplete.Missing})
	case errors.Is(err, artist.ErrPrimaryStyleRequired),
		errors.Is(err, artist.ErrDuplicateID),
		errors.Is(err, artist.ErrUnknownCatalogID),
		errors.Is(err, artist.ErrInvalidWorkArrangement),
		errors.Is(err, artist.ErrInvalidRates):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
