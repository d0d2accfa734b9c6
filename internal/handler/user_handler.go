package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"authbase/internal/auth"
	errs "authbase/internal/errors"
	"authbase/internal/model"
	"authbase/internal/service"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// UserHandler handles the user authentication endpoints.
type UserHandler struct {
	sessions service.SessionService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(sessions service.SessionService) *UserHandler {
	return &UserHandler{sessions: sessions}
}

// SignupRequest represents a sign-up request.
type SignupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// MessageResponse is the body of a successful mutation.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ProfileResponse carries the profile of the authenticated user.
type ProfileResponse struct {
	Message string         `json:"message"`
	Data    *model.Profile `json:"data"`
}

// SignUp godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Sign-up data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/signup [post]
func (h *UserHandler) SignUp(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_FAILED",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	}

	if _, err := h.sessions.SignUp(c.Request().Context(), req.FullName, req.Email, req.Password); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{
		Message: "user created successfully",
		Success: true,
	})
}

// Login godoc
// @Summary Log in and receive a session cookie
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_FAILED",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	}

	token, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(auth.SessionTokenTTL),
	})

	return c.JSON(http.StatusOK, MessageResponse{
		Message: "login successful",
		Success: true,
	})
}

// Logout godoc
// @Summary Log out by clearing the session cookie
// @Tags users
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /users/logout [get]
func (h *UserHandler) Logout(c echo.Context) error {
	// No server-side session state exists; overwriting the cookie with an
	// already-expired empty value is the whole operation.
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})

	return c.JSON(http.StatusOK, MessageResponse{
		Message: "logout successful",
		Success: true,
	})
}

// Me godoc
// @Summary Return the profile of the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	// The session guard middleware stores the identified profile here.
	profile, ok := c.Get("user").(*model.Profile)
	if !ok {
		return h.fail(c, errs.ErrUnauthenticated)
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		Message: "user found",
		Data:    profile,
	})
}

func (h *UserHandler) fail(c echo.Context, err error) error {
	he := errs.MapToHTTP(err)
	return c.JSON(he.StatusCode, he.ToErrorResponse())
}
