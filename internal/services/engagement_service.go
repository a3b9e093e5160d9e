package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crowdfund/internal/apperr"
	"crowdfund/internal/idgen"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"

	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const qrCodeSize = 256

// EngagementService records comments, shares and owner updates
type EngagementService struct {
	db   *gorm.DB
	repo *repository.Repository
	now  func() time.Time
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{
		db:   db,
		repo: repository.NewRepository(db),
		now:  time.Now,
	}
}

// PostComment appends a comment by userID
func (s *EngagementService) PostComment(ctx context.Context, campaignID string, userID uint, text string) (*models.CampaignComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.New(apperr.CodeValidation, "comment_text is required")
	}

	var comment *models.CampaignComment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.GetCampaign(ctx, campaignID); err != nil {
			return lookupError(err, apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
		}

		id, err := idgen.Next(tx, idgen.Comment)
		if err != nil {
			return err
		}

		comment = &models.CampaignComment{
			CommentID:   id,
			CampaignID:  campaignID,
			UserID:      userID,
			CommentText: text,
			CommentDate: s.now().UTC(),
		}
		if err := repo.CreateComment(ctx, comment); err != nil {
			return apperr.Persistence(err, "failed to save comment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// PostShare records that userID shared a campaign on platform
func (s *EngagementService) PostShare(ctx context.Context, campaignID string, userID uint, platform string) (*models.CampaignShare, error) {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return nil, apperr.New(apperr.CodeValidation, "share_platform is required")
	}

	var share *models.CampaignShare
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.GetCampaign(ctx, campaignID); err != nil {
			return lookupError(err, apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
		}

		id, err := idgen.Next(tx, idgen.Share)
		if err != nil {
			return err
		}

		share = &models.CampaignShare{
			ShareID:       id,
			CampaignID:    campaignID,
			UserID:        userID,
			SharePlatform: platform,
			ShareDate:     s.now().UTC(),
		}
		if err := repo.CreateShare(ctx, share); err != nil {
			return apperr.Persistence(err, "failed to save share")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return share, nil
}

// PostUpdate appends a progress note. Only the campaign owner may post.
func (s *EngagementService) PostUpdate(ctx context.Context, campaignID string, userID uint, text string) (*models.Update, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.New(apperr.CodeValidation, "update_text is required")
	}

	var update *models.Update
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		campaign, err := repo.GetCampaign(ctx, campaignID)
		if err != nil {
			return lookupError(err, apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
		}
		if campaign.UserID != userID {
			return apperr.New(apperr.CodeForbidden, "only the campaign owner can post updates")
		}

		id, err := idgen.Next(tx, idgen.Update)
		if err != nil {
			return err
		}

		update = &models.Update{
			UpdateID:   id,
			UpdateText: text,
			CampaignID: campaignID,
			CreatedAt:  s.now().UTC(),
		}
		if err := repo.CreateUpdate(ctx, update); err != nil {
			return apperr.Persistence(err, "failed to save update")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return update, nil
}

func (s *EngagementService) ListComments(ctx context.Context, campaignID string) ([]*models.CampaignComment, error) {
	if err := s.requireCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, campaignID)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to list comments")
	}
	return comments, nil
}

func (s *EngagementService) ListShares(ctx context.Context, campaignID string) ([]*models.CampaignShare, error) {
	if err := s.requireCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	shares, err := s.repo.ListShares(ctx, campaignID)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to list shares")
	}
	return shares, nil
}

func (s *EngagementService) ListUpdates(ctx context.Context, campaignID string) ([]*models.Update, error) {
	if err := s.requireCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	updates, err := s.repo.ListUpdates(ctx, campaignID)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to list updates")
	}
	return updates, nil
}

// ShareQRCode renders a PNG QR code pointing at the public campaign page
func (s *EngagementService) ShareQRCode(ctx context.Context, campaignID, publicURL string) ([]byte, error) {
	if err := s.requireCampaign(ctx, campaignID); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/campaigns/%s", strings.TrimRight(publicURL, "/"), campaignID)
	png, err := qrcode.Encode(link, qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}

func (s *EngagementService) requireCampaign(ctx context.Context, campaignID string) error {
	exists, err := s.repo.CampaignExists(ctx, campaignID)
	if err != nil {
		return apperr.Persistence(err, "failed to load campaign")
	}
	if !exists {
		return apperr.New(apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
	}
	return nil
}
