package handlers

import (
	"net/http"
	"time"

	"crowdfund/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// TokenRequest carries a refresh token
type TokenRequest struct {
	Token string `json:"token" form:"token"`
}

// Register handles POST /api/auth/register. Accepts JSON or multipart with
// an optional profileImage file.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name      string `json:"name" form:"name"`
		Email     string `json:"email" form:"email"`
		Password  string `json:"password" form:"password"`
		Location  string `json:"location" form:"location"`
		AboutUser string `json:"about_user" form:"about_user"`
		DOB       string `json:"dob" form:"dob"`
	}
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	in := services.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Location:  req.Location,
		AboutUser: req.AboutUser,
	}
	if req.DOB != "" {
		dob, err := parseDate(req.DOB)
		if err != nil {
			badRequest(c, "dob must be YYYY-MM-DD")
			return
		}
		in.DOB = dob
	}

	photo, err := optionalObject(c, "profileImage")
	if err != nil {
		respondError(c, err)
		return
	}
	in.Photo = photo

	result, err := h.authService.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Token handles POST /api/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	_ = c.ShouldBind(&req)

	access, err := h.authService.Refresh(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

// Logout handles DELETE /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req TokenRequest
	_ = c.ShouldBind(&req)

	if err := h.authService.Logout(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout Successful"})
}

func parseDate(raw string) (*time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	_, err := time.Parse("2006-01-02", raw)
	return nil, err
}
