package repository

import (
	"context"

	"crowdfund/internal/models"
)

func (r *Repository) CreateComment(ctx context.Context, comment *models.CampaignComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *Repository) CreateShare(ctx context.Context, share *models.CampaignShare) error {
	return r.db.WithContext(ctx).Create(share).Error
}

func (r *Repository) CreateUpdate(ctx context.Context, update *models.Update) error {
	return r.db.WithContext(ctx).Create(update).Error
}

// ListComments returns comments with their authors, newest first
func (r *Repository) ListComments(ctx context.Context, campaignID string) ([]*models.CampaignComment, error) {
	var comments []*models.CampaignComment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("campaign_id = ?", campaignID).
		Order("comment_date DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *Repository) ListShares(ctx context.Context, campaignID string) ([]*models.CampaignShare, error) {
	var shares []*models.CampaignShare
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("share_date DESC").
		Find(&shares).Error
	if err != nil {
		return nil, err
	}
	return shares, nil
}

func (r *Repository) ListUpdates(ctx context.Context, campaignID string) ([]*models.Update, error) {
	var updates []*models.Update
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&updates).Error
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// CountComments counts comments on a campaign
func (r *Repository) CountComments(ctx context.Context, campaignID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CampaignComment{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).Error
	return count, err
}

// CountShares counts shares of a campaign
func (r *Repository) CountShares(ctx context.Context, campaignID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CampaignShare{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).Error
	return count, err
}
