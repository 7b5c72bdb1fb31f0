package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talent-booking/internal/model"
	"github.com/iliyamo/talent-booking/internal/repository"
)

// ProfileHandler serves the caller's own profile and the one-shot
// role onboarding step.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
}

func NewProfileHandler(p *repository.ProfileRepo) *ProfileHandler {
	return &ProfileHandler{Profiles: p}
}

type setRoleReq struct {
	Role string `json:"role"`
}

// Me returns the caller's profile. The profile is created at signup,
// so a missing row here means the account predates the bootstrap;
// recover by ensuring it on the fly.
func (h *ProfileHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, uid)
	if err == sql.ErrNoRows {
		if _, err := h.Profiles.EnsureProfile(ctx, uid, ""); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
		}
		p, err = h.Profiles.GetByUserID(ctx, uid)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, profileJSON(p))
}

// SetRole records which side of the marketplace the account is on.
// The choice is permanent: once profile_completed flips to TRUE the
// repository refuses further changes with ErrInvalidState.
func (h *ProfileHandler) SetRole(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req setRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleBrand && role != model.RoleModel {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be BRAND or MODEL"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Profiles.SetRole(ctx, uid, role); err != nil {
		switch err {
		case repository.ErrInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"error": "role already set"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "set role failed"})
		}
	}
	p, err := h.Profiles.GetByUserID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, profileJSON(p))
}
