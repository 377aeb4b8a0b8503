package api

import (
	"errors"

	"github.com/soundia/soundia/auth"
	"github.com/soundia/soundia/httpx"
)

// identity returns the user the gate attached. The gated routes only run
// after Require(), so a missing identity is a wiring bug, not a client
// error.
func (a *API) identity(c httpx.Context) (auth.User, error) {
	user, ok := auth.IdentityFromRequest(c)
	if !ok {
		return auth.User{}, errors.New("api: no identity on gated route")
	}
	return user, nil
}

func (a *API) profile(c httpx.Context) error {
	user, err := a.identity(c)
	if err != nil {
		return a.internalError(c, "profile fetch failed", err)
	}
	return c.JSON(httpx.StatusOK, map[string]any{
		"success": true,
		"user":    renderUser(user),
	})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *API) updateProfile(c httpx.Context) error {
	user, err := a.identity(c)
	if err != nil {
		return a.internalError(c, "profile update failed", err)
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := a.users.UpdateProfile(c.Request().Context(), user, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			return badRequest(c, err.Error())
		case errors.Is(err, auth.ErrEmailInUse):
			return badRequest(c, "User already exists with this email")
		}
		return a.internalError(c, "profile update failed", err)
	}

	return c.JSON(httpx.StatusOK, map[string]any{
		"success": true,
		"message": "Profile updated successfully",
		"user":    renderUser(updated),
	})
}

func (a *API) likeSong(c httpx.Context) error {
	user, err := a.identity(c)
	if err != nil {
		return a.internalError(c, "like song failed", err)
	}

	if err := a.users.LikeSong(c.Request().Context(), user.ID, c.Param("songId")); err != nil {
		if errors.Is(err, auth.ErrInvalidInput) {
			return badRequest(c, "Invalid song ID")
		}
		return a.internalError(c, "like song failed", err)
	}

	return c.JSON(httpx.StatusOK, map[string]any{
		"success": true,
		"message": "Song liked successfully",
	})
}

func (a *API) unlikeSong(c httpx.Context) error {
	user, err := a.identity(c)
	if err != nil {
		return a.internalError(c, "unlike song failed", err)
	}

	if err := a.users.UnlikeSong(c.Request().Context(), user.ID, c.Param("songId")); err != nil {
		if errors.Is(err, auth.ErrInvalidInput) {
			return badRequest(c, "Invalid song ID")
		}
		return a.internalError(c, "unlike song failed", err)
	}

	return c.JSON(httpx.StatusOK, map[string]any{
		"success": true,
		"message": "Song unliked successfully",
	})
}
