package repository

import (
	"context"
	"errors"
	"time"

	"crowdfund/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IncrementRaised adds amount to the campaign's raised total only when the
// result stays within the goal. The sum is computed in decimal and written
// back only if raised_amount still holds the value it was computed from, so a
// concurrent donor forces a reread. It returns false when the goal would be
// exceeded or the campaign does not exist.
func (r *Repository) IncrementRaised(ctx context.Context, campaignID string, amount decimal.Decimal) (bool, error) {
	for {
		var campaign models.Campaign
		err := r.db.WithContext(ctx).
			Select("campaign_id", "goal_amount", "raised_amount").
			Where("campaign_id = ?", campaignID).
			First(&campaign).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		raised := campaign.RaisedAmount.Round(2).Add(amount)
		if raised.GreaterThan(campaign.GoalAmount) {
			return false, nil
		}

		result := r.db.WithContext(ctx).
			Model(&models.Campaign{}).
			Where("campaign_id = ? AND raised_amount = ?", campaignID, campaign.RaisedAmount).
			UpdateColumn("raised_amount", raised)
		if result.Error != nil {
			return false, result.Error
		}
		if result.RowsAffected > 0 {
			return true, nil
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
	}
}

// CreateDonation appends a ledger entry
func (r *Repository) CreateDonation(ctx context.Context, donation *models.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

// SumDonations totals every donation for a campaign
func (r *Repository) SumDonations(ctx context.Context, campaignID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("campaign_id = ?", campaignID).
		Row().Scan(&total)
	return total.Round(2), err
}

// ListDonations returns donations for a campaign, newest first. limit <= 0
// means no limit.
func (r *Repository) ListDonations(ctx context.Context, campaignID string, limit int) ([]*models.Donation, error) {
	query := r.db.WithContext(ctx).
		Preload("Donor").
		Where("campaign_id = ?", campaignID).
		Order("donation_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var donations []*models.Donation
	if err := query.Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

// ListDonationsByDonor returns a user's donations, newest first
func (r *Repository) ListDonationsByDonor(ctx context.Context, userID uint) ([]*models.Donation, error) {
	var donations []*models.Donation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("donation_date DESC").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

// ListAllDonations returns the full ledger, newest first
func (r *Repository) ListAllDonations(ctx context.Context) ([]*models.Donation, error) {
	var donations []*models.Donation
	err := r.db.WithContext(ctx).
		Preload("Donor").
		Order("donation_date DESC").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

// CountDistinctDonors counts unique donors for a campaign
func (r *Repository) CountDistinctDonors(ctx context.Context, campaignID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Donation{}).
		Where("campaign_id = ?", campaignID).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

// CountDonationsSince counts donations made at or after since
func (r *Repository) CountDonationsSince(ctx context.Context, campaignID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Donation{}).
		Where("campaign_id = ? AND donation_date >= ?", campaignID, since).
		Count(&count).Error
	return count, err
}
