package handlers

import (
	"net/http"

	"crowdfund/internal/repository"
	"crowdfund/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user-related endpoints
type UserHandler struct {
	userService     *services.UserService
	campaignService *services.CampaignService
	donationService *services.DonationService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userService *services.UserService,
	campaignService *services.CampaignService,
	donationService *services.DonationService,
) *UserHandler {
	return &UserHandler{
		userService:     userService,
		campaignService: campaignService,
		donationService: donationService,
	}
}

// GetProfile returns the current user's profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/user/profile (JSON or multipart)
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Name      *string `json:"name" form:"name"`
		Email     *string `json:"email" form:"email"`
		Password  *string `json:"password" form:"password"`
		Location  *string `json:"location" form:"location"`
		AboutUser *string `json:"about_user" form:"about_user"`
	}
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	photo, err := optionalObject(c, "profileImage")
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, services.ProfileUpdate{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Location:  req.Location,
		AboutUser: req.AboutUser,
		Photo:     photo,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated",
		"user":    user,
	})
}

// GetCampaigns returns campaigns the current user created
func (h *UserHandler) GetCampaigns(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	campaigns, err := h.campaignService.ListCampaigns(c.Request.Context(), repository.CampaignFilter{OwnerID: userID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

// GetCampaign handles GET /api/user/campaigns/:id
func (h *UserHandler) GetCampaign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	campaign, err := h.campaignService.GetOwnedCampaign(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// GetDonations returns donations the current user made
func (h *UserHandler) GetDonations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	donations, err := h.donationService.ListByDonor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donations)
}

// DashboardStats handles GET /api/user/dashboard-stats/:id
func (h *UserHandler) DashboardStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.userService.DashboardStats(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
