package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfgraph/shelfgraph/server/auth"
	apierrors "github.com/shelfgraph/shelfgraph/server/internal/errors"
	"github.com/shelfgraph/shelfgraph/store"
)

type signUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        int32  `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	CreatedTs int64  `json:"createdTs"`
}

type tokenResponse struct {
	AccessToken string        `json:"accessToken"`
	User        *userResponse `json:"user"`
}

func convertUser(user *store.User) *userResponse {
	return &userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Nickname:  user.Nickname,
		CreatedTs: user.CreatedTs,
	}
}

func (s *APIV1Service) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	request := &signUpRequest{}
	if err := c.Bind(request); err != nil {
		return apierrors.InvalidArgument("malformed request body")
	}
	if request.Username == "" || request.Password == "" {
		return apierrors.InvalidArgument("username and password are required")
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Username: &request.Username})
	if err != nil {
		return internalError(err)
	}
	if existing != nil {
		return errorResponse(http.StatusConflict, "username already taken")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(err)
	}

	user, err := s.Store.CreateUser(ctx, &store.User{
		Username:     request.Username,
		PasswordHash: string(passwordHash),
		Nickname:     request.Nickname,
	})
	if err != nil {
		return internalError(err)
	}

	return s.issueToken(c, user)
}

func (s *APIV1Service) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	request := &signInRequest{}
	if err := c.Bind(request); err != nil {
		return apierrors.InvalidArgument("malformed request body")
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &request.Username})
	if err != nil {
		return internalError(err)
	}
	if user == nil {
		return apierrors.Unauthorized("incorrect username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return apierrors.Unauthorized("incorrect username or password")
	}

	return s.issueToken(c, user)
}

func (s *APIV1Service) GetCurrentUser(c echo.Context) error {
	return c.JSON(http.StatusOK, convertUser(currentUser(c)))
}

type updateUserRequest struct {
	Nickname *string `json:"nickname"`
	Password *string `json:"password"`
}

// UpdateCurrentUser changes the nickname or password of the caller.
func (s *APIV1Service) UpdateCurrentUser(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	request := &updateUserRequest{}
	if err := c.Bind(request); err != nil {
		return apierrors.InvalidArgument("malformed request body")
	}

	now := time.Now().Unix()
	update := &store.UpdateUser{ID: user.ID, UpdatedTs: &now}
	if request.Nickname != nil {
		update.Nickname = request.Nickname
	}
	if request.Password != nil {
		if *request.Password == "" {
			return apierrors.InvalidArgument("password must not be empty")
		}
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			return internalError(err)
		}
		hash := string(passwordHash)
		update.PasswordHash = &hash
	}

	updated, err := s.Store.UpdateUser(ctx, update)
	if err != nil {
		return internalError(err)
	}
	return c.JSON(http.StatusOK, convertUser(updated))
}

// DeleteCurrentUser removes the caller's account and library.
func (s *APIV1Service) DeleteCurrentUser(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	books, err := s.Store.ListBooks(ctx, &store.FindBook{CreatorID: &user.ID})
	if err != nil {
		return internalError(err)
	}
	for _, book := range books {
		if err := s.deleteBookRecords(ctx, book); err != nil {
			return internalError(err)
		}
	}
	if err := s.Store.DeleteBookSuggestions(ctx, &store.DeleteBookSuggestion{CreatorID: user.ID}); err != nil {
		return internalError(err)
	}
	if err := s.Store.DeleteUser(ctx, &store.DeleteUser{ID: user.ID}); err != nil {
		return internalError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) issueToken(c echo.Context, user *store.User) error {
	expirationTime := time.Now().Add(auth.AccessTokenDuration)
	accessToken, err := auth.GenerateAccessToken(user.Username, user.ID, expirationTime, []byte(s.Secret))
	if err != nil {
		return internalError(err)
	}
	return c.JSON(http.StatusOK, &tokenResponse{
		AccessToken: accessToken,
		User:        convertUser(user),
	})
}
