package services

import (
	"context"
	"time"

	"crowdfund/internal/apperr"
	"crowdfund/internal/idgen"
	"crowdfund/internal/logger"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecentDonorLimit is how many donors a campaign page shows
const RecentDonorLimit = 5

// DonationPublisher receives accepted donations, e.g. a live feed
type DonationPublisher interface {
	PublishDonation(event models.DonationEvent)
}

// DonationService maintains the donation ledger
type DonationService struct {
	db        *gorm.DB
	repo      *repository.Repository
	publisher DonationPublisher
	now       func() time.Time
}

// NewDonationService creates a new DonationService. publisher may be nil.
func NewDonationService(db *gorm.DB, publisher DonationPublisher) *DonationService {
	return &DonationService{
		db:        db,
		repo:      repository.NewRepository(db),
		publisher: publisher,
		now:       time.Now,
	}
}

// wholeCents reports whether v fits the two-decimal money columns
func wholeCents(v decimal.Decimal) bool {
	return v.Equal(v.Round(2))
}

// RecordDonation appends a donation if it keeps the campaign within its
// goal. The raised total only moves through a compare-and-set on the value
// the goal check saw, so concurrent donors cannot overshoot together.
func (s *DonationService) RecordDonation(
	ctx context.Context,
	campaignID string,
	donorID uint,
	amount decimal.Decimal,
	method models.TransactionType,
) (*models.Donation, error) {
	if !amount.IsPositive() {
		return nil, apperr.New(apperr.CodeValidation, "amount must be positive")
	}
	if !wholeCents(amount) {
		return nil, apperr.New(apperr.CodeValidation, "amount must have at most two decimal places")
	}
	if !method.Valid() {
		return nil, apperr.New(apperr.CodeValidation, "unknown transaction_type %q", method)
	}

	var (
		donation *models.Donation
		campaign *models.Campaign
		donor    *models.User
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		donor, err = repo.GetUserByID(ctx, donorID)
		if err != nil {
			return lookupError(err, apperr.CodeUserNotFound, "user %d not found", donorID)
		}

		accepted, err := repo.IncrementRaised(ctx, campaignID, amount)
		if err != nil {
			return apperr.Persistence(err, "failed to update raised amount")
		}

		campaign, err = repo.GetCampaign(ctx, campaignID)
		if err != nil {
			return lookupError(err, apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
		}
		if !accepted {
			remaining := campaign.GoalAmount.Sub(campaign.RaisedAmount)
			return apperr.New(apperr.CodeGoalExceeded,
				"donation of %s exceeds the remaining goal of %s", amount.StringFixed(2), remaining.StringFixed(2))
		}

		donationID, err := idgen.Next(tx, idgen.Donation)
		if err != nil {
			return err
		}

		donation = &models.Donation{
			DonationID:      donationID,
			UserID:          donorID,
			CampaignID:      campaignID,
			Amount:          amount,
			TransactionType: method,
			DonationDate:    s.now().UTC(),
		}
		if err := repo.CreateDonation(ctx, donation); err != nil {
			return apperr.Persistence(err, "failed to record donation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Donation %s of %s recorded for campaign %s by user %d",
		donation.DonationID, amount.StringFixed(2), campaignID, donorID)

	if s.publisher != nil {
		s.publisher.PublishDonation(models.DonationEvent{
			Type:         "donation",
			CampaignID:   campaignID,
			DonationID:   donation.DonationID,
			DonorName:    donor.Name,
			Amount:       amount,
			RaisedAmount: campaign.RaisedAmount,
			GoalAmount:   campaign.GoalAmount,
			DonationDate: donation.DonationDate,
		})
	}

	return donation, nil
}

// ListByCampaign returns a campaign's donations, newest first
func (s *DonationService) ListByCampaign(ctx context.Context, campaignID string) ([]*models.Donation, error) {
	return s.listForCampaign(ctx, campaignID, 0)
}

// RecentDonors returns the latest limit donations for a campaign
func (s *DonationService) RecentDonors(ctx context.Context, campaignID string, limit int) ([]*models.Donation, error) {
	if limit <= 0 {
		limit = RecentDonorLimit
	}
	return s.listForCampaign(ctx, campaignID, limit)
}

func (s *DonationService) listForCampaign(ctx context.Context, campaignID string, limit int) ([]*models.Donation, error) {
	exists, err := s.repo.CampaignExists(ctx, campaignID)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load campaign")
	}
	if !exists {
		return nil, apperr.New(apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
	}

	donations, err := s.repo.ListDonations(ctx, campaignID, limit)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to list donations")
	}
	return donations, nil
}

// ListByDonor returns a user's donations, newest first
func (s *DonationService) ListByDonor(ctx context.Context, userID uint) ([]*models.Donation, error) {
	donations, err := s.repo.ListDonationsByDonor(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to list donations")
	}
	return donations, nil
}

// ListAll returns the full ledger
func (s *DonationService) ListAll(ctx context.Context) ([]*models.Donation, error) {
	donations, err := s.repo.ListAllDonations(ctx)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to list donations")
	}
	return donations, nil
}
