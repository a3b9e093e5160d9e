package handlers

import (
	"context"
	"net/http"
	"strconv"

	"crowdfund/internal/apperr"
	"crowdfund/internal/auth"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"
	"crowdfund/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService    *services.AdminService
	campaignService *services.CampaignService
	donationService *services.DonationService
}

func NewAdminHandler(
	adminService *services.AdminService,
	campaignService *services.CampaignService,
	donationService *services.DonationService,
) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		campaignService: campaignService,
		donationService: donationService,
	}
}

type adminCredentials struct {
	Name     string `json:"admin_name"`
	Email    string `json:"admin_email"`
	Password string `json:"admin_pass"`
}

// Register handles POST /api/admin/register
func (h *AdminHandler) Register(c *gin.Context) {
	var req adminCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	admin, err := h.adminService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin registered successfully",
		"admin":   admin,
	})
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req adminCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	result, err := h.adminService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUsers handles GET /api/admin/users?limit=&offset=&search=
func (h *AdminHandler) GetUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := h.adminService.GetAllUsers(c.Request.Context(), limit, offset, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetCampaigns handles GET /api/admin/campaigns?status=&category=
func (h *AdminHandler) GetCampaigns(c *gin.Context) {
	h.listCampaigns(c, repository.CampaignFilter{})
}

// GetMyCampaigns lists campaigns assigned to the calling admin
func (h *AdminHandler) GetMyCampaigns(c *gin.Context) {
	adminID, ok := auth.GetAdminID(c)
	if !ok {
		respondError(c, apperr.New(apperr.CodeUnauthorized, "admin not authenticated"))
		return
	}
	h.listCampaigns(c, repository.CampaignFilter{AdminID: adminID})
}

func (h *AdminHandler) listCampaigns(c *gin.Context, filter repository.CampaignFilter) {
	filter.Status = models.CampaignStatus(c.Query("status"))
	filter.CategoryID = c.Query("category")

	campaigns, err := h.campaignService.ListCampaigns(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

// Approve handles PATCH /api/admin/campaign/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	h.decide(c, h.campaignService.Approve)
}

// Reject handles PATCH /api/admin/campaign/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	h.decide(c, h.campaignService.Reject)
}

func (h *AdminHandler) decide(c *gin.Context, apply func(ctx context.Context, campaignID string) error) {
	campaignID := c.Param("id")
	if err := apply(c.Request.Context(), campaignID); err != nil {
		respondError(c, err)
		return
	}

	campaign, err := h.campaignService.GetCampaign(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// SetWarning handles PATCH /api/admin/campaign/:id/warning
func (h *AdminHandler) SetWarning(c *gin.Context) {
	var req struct {
		Warning *bool `json:"warning"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Warning == nil {
		badRequest(c, "warning (bool) is required")
		return
	}

	if err := h.campaignService.SetWarning(c.Request.Context(), c.Param("id"), *req.Warning); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Warning updated"})
}

// GetDonations handles GET /api/admin/donations
func (h *AdminHandler) GetDonations(c *gin.Context) {
	donations, err := h.donationService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donations)
}
