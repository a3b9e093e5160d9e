package repository

import (
	"context"
	"errors"

	"crowdfund/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CampaignFilter narrows campaign listings. Zero values match everything.
type CampaignFilter struct {
	Status     models.CampaignStatus
	CategoryID string
	AdminID    string
	OwnerID    uint
}

// DonationTotal is the per-campaign donation aggregate
type DonationTotal struct {
	CampaignID string
	Total      decimal.Decimal
	Count      int64
}

// CreateCampaign inserts a campaign row
func (r *Repository) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// GetCampaign retrieves a campaign with its owner
func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("campaign_id = ?", campaignID).
		First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// CampaignExists reports whether campaignID is stored
func (r *Repository) CampaignExists(ctx context.Context, campaignID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).Error
	return count > 0, err
}

// CampaignTitleTaken reports whether (title, beneficiary) is already used
func (r *Repository) CampaignTitleTaken(ctx context.Context, title, beneficiaryID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("title = ? AND beneficiary_id = ?", title, beneficiaryID).
		Count(&count).Error
	return count > 0, err
}

// LastAssignedAdmin returns the admin on the highest campaign ID. ok is false
// when no campaign exists yet.
func (r *Repository) LastAssignedAdmin(ctx context.Context) (adminID string, ok bool, err error) {
	var campaign models.Campaign
	err = r.db.WithContext(ctx).
		Select("campaign_id", "admin_id").
		Order("LENGTH(campaign_id) DESC, campaign_id DESC").
		First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return campaign.AdminID, true, nil
}

// CreateCampaignImages inserts image rows
func (r *Repository) CreateCampaignImages(ctx context.Context, images []*models.CampaignImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

// CreateCampaignFiles inserts file rows
func (r *Repository) CreateCampaignFiles(ctx context.Context, files []*models.CampaignFile) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&files).Error
}

// TransitionStatus moves a campaign from one status to another and returns
// the number of rows changed.
func (r *Repository) TransitionStatus(ctx context.Context, campaignID string, from, to models.CampaignStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("campaign_id = ? AND status = ?", campaignID, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

// SetWarning updates the warning flag
func (r *Repository) SetWarning(ctx context.Context, campaignID string, warning models.CampaignWarning) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("campaign_id = ?", campaignID).
		Update("warning", warning)
	return result.RowsAffected, result.Error
}

// ListCampaigns returns campaigns matching filter, newest ID first
func (r *Repository) ListCampaigns(ctx context.Context, filter CampaignFilter) ([]*models.Campaign, error) {
	query := r.db.WithContext(ctx).Preload("Owner")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.AdminID != "" {
		query = query.Where("admin_id = ?", filter.AdminID)
	}
	if filter.OwnerID != 0 {
		query = query.Where("user_id = ?", filter.OwnerID)
	}

	var campaigns []*models.Campaign
	err := query.Order("LENGTH(campaign_id) DESC, campaign_id DESC").Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

// DonationTotals sums donations per campaign in one grouped query
func (r *Repository) DonationTotals(ctx context.Context, campaignIDs []string) (map[string]DonationTotal, error) {
	totals := make(map[string]DonationTotal, len(campaignIDs))
	if len(campaignIDs) == 0 {
		return totals, nil
	}

	var rows []DonationTotal
	err := r.db.WithContext(ctx).Model(&models.Donation{}).
		Select("campaign_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("campaign_id IN ?", campaignIDs).
		Group("campaign_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		// sqlite sums NUMERIC columns as floats
		row.Total = row.Total.Round(2)
		totals[row.CampaignID] = row
	}
	return totals, nil
}

// ImageURLs groups image paths by campaign
func (r *Repository) ImageURLs(ctx context.Context, campaignIDs []string) (map[string][]string, error) {
	urls := make(map[string][]string, len(campaignIDs))
	if len(campaignIDs) == 0 {
		return urls, nil
	}

	var images []models.CampaignImage
	err := r.db.WithContext(ctx).
		Where("campaign_id IN ?", campaignIDs).
		Order("LENGTH(image_id) ASC, image_id ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		urls[img.CampaignID] = append(urls[img.CampaignID], img.ImagePath)
	}
	return urls, nil
}

// FileURLs groups document paths by campaign
func (r *Repository) FileURLs(ctx context.Context, campaignIDs []string) (map[string][]string, error) {
	urls := make(map[string][]string, len(campaignIDs))
	if len(campaignIDs) == 0 {
		return urls, nil
	}

	var files []models.CampaignFile
	err := r.db.WithContext(ctx).
		Where("campaign_id IN ?", campaignIDs).
		Order("LENGTH(file_id) ASC, file_id ASC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		urls[f.CampaignID] = append(urls[f.CampaignID], f.FilePath)
	}
	return urls, nil
}
