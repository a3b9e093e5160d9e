package handlers

import (
	"net/http"
	"strings"

	"crowdfund/internal/apperr"
	"crowdfund/internal/auth"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"
	"crowdfund/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	maxCampaignImages = 5
	maxCampaignFiles  = 2
)

// CampaignHandler handles campaign and engagement endpoints
type CampaignHandler struct {
	campaignService   *services.CampaignService
	donationService   *services.DonationService
	engagementService *services.EngagementService
	publicURL         string
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(
	campaignService *services.CampaignService,
	donationService *services.DonationService,
	engagementService *services.EngagementService,
	publicURL string,
) *CampaignHandler {
	return &CampaignHandler{
		campaignService:   campaignService,
		donationService:   donationService,
		engagementService: engagementService,
		publicURL:         publicURL,
	}
}

// CreateCampaign handles multipart POST /api/campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Title                  string `form:"title"`
		Category               string `form:"category"`
		Description            string `form:"description"`
		GoalAmount             string `form:"goal_amount"`
		StartDate              string `form:"start_date"`
		EndDate                string `form:"end_date"`
		BeneficiaryName        string `form:"beneficiary_name"`
		BeneficiaryType        string `form:"beneficiary_type"`
		BeneficiaryDescription string `form:"beneficiary_description"`
		BeneficiaryAddress     string `form:"beneficiary_address"`
	}
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	goal, err := decimal.NewFromString(strings.TrimSpace(req.GoalAmount))
	if err != nil {
		badRequest(c, "goal_amount must be a number")
		return
	}

	in := services.CreateCampaignInput{
		OwnerID:      userID,
		Title:        req.Title,
		Description:  req.Description,
		GoalAmount:   goal,
		CategoryName: req.Category,
		Beneficiary: services.BeneficiaryInput{
			Name:        req.BeneficiaryName,
			Type:        models.BeneficiaryType(req.BeneficiaryType),
			Description: req.BeneficiaryDescription,
			Address:     req.BeneficiaryAddress,
		},
	}
	if req.StartDate != "" {
		if in.StartDate, err = parseDate(req.StartDate); err != nil {
			badRequest(c, "start_date must be YYYY-MM-DD")
			return
		}
	}
	if req.EndDate != "" {
		if in.EndDate, err = parseDate(req.EndDate); err != nil {
			badRequest(c, "end_date must be YYYY-MM-DD")
			return
		}
	}

	form, _ := c.MultipartForm()
	if in.Images, err = readObjects(form, "images", maxCampaignImages); err != nil {
		respondError(c, err)
		return
	}
	if in.Files, err = readObjects(form, "files", maxCampaignFiles); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.campaignService.CreateCampaign(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	// The creator is now a fundraiser; hand back a token that says so.
	email, _ := auth.GetEmail(c)
	access, err := auth.GenerateAccessToken(userID, email, string(models.UserRoleBoth))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Campaign created successfully",
		"campaign_id":    result.CampaignID,
		"admin_id":       result.AdminID,
		"beneficiary_id": result.BeneficiaryID,
		"accessToken":    access,
	})
}

// ListCampaigns handles GET /api/campaigns?status=&category=
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	filter := repository.CampaignFilter{
		Status:     models.CampaignStatus(c.Query("status")),
		CategoryID: c.Query("category"),
	}

	campaigns, err := h.campaignService.ListCampaigns(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

// ListCategories handles GET /api/campaigns/categories
func (h *CampaignHandler) ListCategories(c *gin.Context) {
	categories, err := h.campaignService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ListByCategory handles GET /api/campaigns/category/:name
func (h *CampaignHandler) ListByCategory(c *gin.Context) {
	status := models.CampaignStatus(c.Query("status"))
	campaigns, err := h.campaignService.ListByCategory(c.Request.Context(), c.Param("name"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

// GetCampaign handles GET /api/campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.campaignService.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// GetCampaigner handles GET /api/campaigns/:id/campaigner
func (h *CampaignHandler) GetCampaigner(c *gin.Context) {
	campaigner, err := h.campaignService.GetCampaigner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigner)
}

// GetBeneficiary handles GET /api/campaigns/:id/beneficiary
func (h *CampaignHandler) GetBeneficiary(c *gin.Context) {
	beneficiary, err := h.campaignService.GetBeneficiary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, beneficiary)
}

// RecentDonors handles GET /api/campaigns/:id/donors
func (h *CampaignHandler) RecentDonors(c *gin.Context) {
	donations, err := h.donationService.RecentDonors(c.Request.Context(), c.Param("id"), services.RecentDonorLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donations)
}

// ListComments handles GET /api/campaigns/:id/comments
func (h *CampaignHandler) ListComments(c *gin.Context) {
	comments, err := h.engagementService.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// ListUpdates handles GET /api/campaigns/:id/updates
func (h *CampaignHandler) ListUpdates(c *gin.Context) {
	updates, err := h.engagementService.ListUpdates(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updates)
}

// ListShares handles GET /api/campaigns/:id/shares
func (h *CampaignHandler) ListShares(c *gin.Context) {
	shares, err := h.engagementService.ListShares(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shares)
}

// QRCode handles GET /api/campaigns/:id/qrcode
func (h *CampaignHandler) QRCode(c *gin.Context) {
	png, err := h.engagementService.ShareQRCode(c.Request.Context(), c.Param("id"), h.publicURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// PostComment handles POST /api/campaigns/:id/comments
func (h *CampaignHandler) PostComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "comment_text is required")
		return
	}

	comment, err := h.engagementService.PostComment(c.Request.Context(), c.Param("id"), userID, req.CommentText)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// PostShare handles POST /api/campaigns/:id/shares
func (h *CampaignHandler) PostShare(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "share_platform is required")
		return
	}

	share, err := h.engagementService.PostShare(c.Request.Context(), c.Param("id"), userID, req.SharePlatform)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, share)
}

// PostUpdate handles POST /api/campaigns/:id/updates
func (h *CampaignHandler) PostUpdate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "update_text is required")
		return
	}

	update, err := h.engagementService.PostUpdate(c.Request.Context(), c.Param("id"), userID, req.UpdateText)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, update)
}

// Donate handles POST /api/donations/:campaignId
func (h *CampaignHandler) Donate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount and transaction_type are required")
		return
	}

	donation, err := h.donationService.RecordDonation(
		c.Request.Context(),
		c.Param("campaignId"),
		userID,
		req.Amount,
		req.TransactionType,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Donation successful",
		"donation": donation,
	})
}

// ListDonations handles GET /api/donations/:campaignId
func (h *CampaignHandler) ListDonations(c *gin.Context) {
	donations, err := h.donationService.ListByCampaign(c.Request.Context(), c.Param("campaignId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donations)
}

// notFound is the fallback for unknown routes
func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": "route not found",
		"code":  apperr.CodeNotFound,
	})
}
