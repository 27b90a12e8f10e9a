package handler

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"classtrack/internal/activity"
	"classtrack/internal/api"
	"classtrack/internal/auth"
)

type loginRequest struct {
	InstructorID string `json:"instructor_id" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Login verifies credentials and issues an access/refresh token pair.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, api.ValidationFailed(err.Error(), nil))
		return
	}

	instructor, err := h.roster.InstructorByID(c.Request.Context(), req.InstructorID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	if instructor == nil ||
		bcrypt.CompareHashAndPassword([]byte(instructor.PasswordHash), []byte(req.Password)) != nil {
		h.recordAs(c, req.InstructorID, activity.UserInstructor, activity.TypeFailedLogin, "invalid credentials")
		api.Fail(c, api.Unauthorized("Invalid credentials"))
		return
	}

	pair, err := h.tokens.IssuePair(instructor.ID, auth.RoleInstructor, h.accessTTL)
	if err != nil {
		log.Printf("token issue failed for %s: %v", instructor.ID, err)
		api.Fail(c, api.Internal())
		return
	}
	if err := h.roster.SaveRefreshToken(c.Request.Context(), instructor.ID, pair.RefreshToken, pair.RefreshExp); err != nil {
		log.Printf("refresh token save failed for %s: %v", instructor.ID, err)
	}

	h.recordAs(c, instructor.ID, activity.UserInstructor, activity.TypeLogin, "")
	api.OK(c, "Login successful", tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessExp.Unix(),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates a refresh token into a new token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, api.ValidationFailed(err.Error(), nil))
		return
	}

	claims, err := h.tokens.Verify(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpired) {
			api.Fail(c, api.Unauthorized("Token has expired"))
			return
		}
		api.Fail(c, api.Unauthorized("Invalid token"))
		return
	}

	valid, err := h.roster.RefreshTokenValid(c.Request.Context(), req.RefreshToken, time.Now().UTC())
	if err != nil {
		api.Fail(c, err)
		return
	}
	if !valid {
		api.Fail(c, api.Unauthorized("Refresh token revoked or unknown"))
		return
	}

	pair, err := h.tokens.IssuePair(claims.UserID, claims.UserType, h.accessTTL)
	if err != nil {
		api.Fail(c, api.Internal())
		return
	}
	if err := h.roster.RevokeRefreshToken(c.Request.Context(), req.RefreshToken); err != nil {
		log.Printf("refresh token revoke failed: %v", err)
	}
	if err := h.roster.SaveRefreshToken(c.Request.Context(), claims.UserID, pair.RefreshToken, pair.RefreshExp); err != nil {
		log.Printf("refresh token save failed for %s: %v", claims.UserID, err)
	}

	api.OK(c, "Token refreshed", tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessExp.Unix(),
	})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the caller's refresh token.
func (h *Handler) Logout(c *gin.Context) {
	var req logoutRequest
	_ = c.ShouldBindJSON(&req)

	if req.RefreshToken != "" {
		if err := h.roster.RevokeRefreshToken(c.Request.Context(), req.RefreshToken); err != nil {
			log.Printf("refresh token revoke failed: %v", err)
		}
	}
	h.record(c, activity.TypeLogout, "")
	api.OK(c, "Logged out", nil)
}
