package handlers

import (
	"crowdfund/internal/logger"
	"crowdfund/internal/realtime"
	"crowdfund/internal/services"

	"github.com/gin-gonic/gin"
)

// LiveHandler upgrades clients onto a campaign's donation feed
type LiveHandler struct {
	hub             *realtime.Hub
	campaignService *services.CampaignService
}

func NewLiveHandler(hub *realtime.Hub, campaignService *services.CampaignService) *LiveHandler {
	return &LiveHandler{hub: hub, campaignService: campaignService}
}

// Stream handles GET /ws/campaigns/:id
func (h *LiveHandler) Stream(c *gin.Context) {
	campaignID := c.Param("id")
	if _, err := h.campaignService.GetCampaign(c.Request.Context(), campaignID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request, campaignID); err != nil {
		// the upgrader has already written the HTTP error
		logger.Warn("websocket upgrade failed for %s: %v", campaignID, err)
	}
}
