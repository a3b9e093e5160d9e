package services

import (
	"context"
	"math"
	"strings"
	"time"

	"crowdfund/internal/apperr"
	"crowdfund/internal/auth"
	"crowdfund/internal/blobstore"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProfileUpdate lists profile fields to change. Nil fields are left alone.
type ProfileUpdate struct {
	Name      *string
	Email     *string
	Password  *string
	Location  *string
	AboutUser *string
	Photo     *blobstore.Object
}

// UserService handles user-related business logic
type UserService struct {
	db         *gorm.DB
	repo       *repository.Repository
	store      blobstore.Store
	bcryptCost int
	now        func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB, store blobstore.Store, bcryptCost int) *UserService {
	return &UserService{
		db:         db,
		repo:       repository.NewRepository(db),
		store:      store,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, apperr.CodeUserNotFound, "user %d not found", userID)
	}
	return user, nil
}

// UpdateProfile applies upd. The role is never touched here.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		updates["name"] = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email == "" {
			return nil, apperr.New(apperr.CodeValidation, "email cannot be empty")
		}
		updates["email"] = email
	}
	if upd.Location != nil {
		updates["location"] = *upd.Location
	}
	if upd.AboutUser != nil {
		updates["about_user"] = *upd.AboutUser
	}
	if upd.Password != nil && *upd.Password != "" {
		hash, err := auth.HashPassword(*upd.Password, s.bcryptCost)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeUnknown, err, "failed to hash password")
		}
		updates["password"] = hash
	}

	var newImage string
	if upd.Photo != nil {
		newImage, err = s.store.Store(ctx, *upd.Photo, blobstore.FolderProfile, blobstore.KindImage)
		if err != nil {
			return nil, err
		}
		updates["user_image"] = newImage
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if newImage != "" {
			blobstore.Cleanup(ctx, s.store, []string{newImage})
		}
		if isDuplicateKey(err) {
			return nil, apperr.Wrap(apperr.CodeConflict, err, "email already in use")
		}
		return nil, apperr.Persistence(err, "failed to update profile")
	}

	if newImage != "" && user.ImageURL != nil && *user.ImageURL != newImage {
		blobstore.Cleanup(ctx, s.store, []string{*user.ImageURL})
	}

	return s.GetUserByID(ctx, userID)
}

// DashboardStats summarizes one of the user's campaigns
func (s *UserService) DashboardStats(ctx context.Context, userID uint, campaignID string) (*models.DashboardStats, error) {
	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, lookupError(err, apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
	}
	if campaign.UserID != userID {
		return nil, apperr.New(apperr.CodeForbidden, "campaign %s belongs to another user", campaignID)
	}

	totals, err := s.repo.DonationTotals(ctx, []string{campaignID})
	if err != nil {
		return nil, apperr.Persistence(err, "failed to sum donations")
	}
	total := totals[campaignID]

	donors, err := s.repo.CountDistinctDonors(ctx, campaignID)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to count donors")
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.repo.CountDonationsSince(ctx, campaignID, midnight.UTC())
	if err != nil {
		return nil, apperr.Persistence(err, "failed to count today's donations")
	}

	comments, err := s.repo.CountComments(ctx, campaignID)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to count comments")
	}
	shares, err := s.repo.CountShares(ctx, campaignID)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to count shares")
	}

	avg := decimal.Zero
	if total.Count > 0 {
		avg = total.Total.Div(decimal.NewFromInt(total.Count)).Round(2)
	}

	return &models.DashboardStats{
		CampaignID:     campaignID,
		TotalDonated:   total.Total,
		GoalAmount:     campaign.GoalAmount,
		LeftDonation:   campaign.GoalAmount.Sub(total.Total),
		TotalDonors:    donors,
		DonationsToday: today,
		AvgDonation:    avg,
		TotalComments:  comments,
		TotalShares:    shares,
		DaysLeft:       daysLeft(campaign.EndDate, now),
	}, nil
}

func daysLeft(end *time.Time, now time.Time) int {
	if end == nil {
		return 0
	}
	remaining := end.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}
