package api

import (
	"errors"

	"github.com/soundia/soundia/auth"
	"github.com/soundia/soundia/httpx"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) login(c httpx.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Email and password are required")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	user, token, err := a.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(httpx.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return a.internalError(c, "login failed", err)
	}

	return c.JSON(httpx.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    renderUser(user),
		"token":   token,
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (a *API) register(c httpx.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Email, password, and name are required")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return badRequest(c, "Email, password, and name are required")
	}

	user, token, err := a.users.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailInUse):
			return badRequest(c, "User already exists with this email")
		case errors.Is(err, auth.ErrInvalidInput),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			return badRequest(c, err.Error())
		}
		return a.internalError(c, "registration failed", err)
	}

	return c.JSON(httpx.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user":    renderUser(user),
		"token":   token,
	})
}

type verifyRequest struct {
	Token string `json:"token"`
}

func (a *API) verify(c httpx.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Token is required")
	}
	if req.Token == "" {
		return badRequest(c, "Token is required")
	}

	payload, err := a.tokens.Verify(req.Token)
	if err != nil {
		return c.JSON(httpx.StatusUnauthorized, map[string]string{"error": "Invalid token"})
	}

	user, err := a.users.Resolve(c.Request().Context(), payload.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(httpx.StatusNotFound, map[string]string{"error": "User not found"})
		}
		return a.internalError(c, "token verification failed", err)
	}

	return c.JSON(httpx.StatusOK, map[string]any{
		"message": "Token valid",
		"user":    renderUser(user),
	})
}
