package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"crowdfund/internal/apperr"
	"crowdfund/internal/blobstore"
	"crowdfund/internal/idgen"
	"crowdfund/internal/logger"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BeneficiaryInput describes who a new campaign raises money for
type BeneficiaryInput struct {
	Name        string
	Type        models.BeneficiaryType
	Description string
	Address     string
}

// CreateCampaignInput carries a campaign submission
type CreateCampaignInput struct {
	OwnerID      uint
	Title        string
	Description  string
	GoalAmount   decimal.Decimal
	StartDate    *time.Time
	EndDate      *time.Time
	CategoryName string
	Beneficiary  BeneficiaryInput
	Images       []blobstore.Object
	Files        []blobstore.Object
}

// CreateCampaignResult identifies the stored campaign and its reviewer
type CreateCampaignResult struct {
	CampaignID    string `json:"campaign_id"`
	AdminID       string `json:"admin_id"`
	BeneficiaryID string `json:"beneficiary_id"`
}

// Campaigner is the public face of a campaign owner
type Campaigner struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"user_image,omitempty"`
}

// CampaignService owns the campaign lifecycle
type CampaignService struct {
	db            *gorm.DB
	repo          *repository.Repository
	store         blobstore.Store
	uploadWorkers int
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(db *gorm.DB, store blobstore.Store, uploadWorkers int) *CampaignService {
	return &CampaignService{
		db:            db,
		repo:          repository.NewRepository(db),
		store:         store,
		uploadWorkers: uploadWorkers,
	}
}

func (in *CreateCampaignInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.CategoryName = strings.TrimSpace(in.CategoryName)
	in.Beneficiary.Name = strings.TrimSpace(in.Beneficiary.Name)
	in.Beneficiary.Address = strings.TrimSpace(in.Beneficiary.Address)

	switch {
	case in.OwnerID == 0:
		return apperr.New(apperr.CodeValidation, "owner is required")
	case in.Title == "":
		return apperr.New(apperr.CodeValidation, "title is required")
	case !in.GoalAmount.IsPositive():
		return apperr.New(apperr.CodeValidation, "goal_amount must be positive")
	case !wholeCents(in.GoalAmount):
		return apperr.New(apperr.CodeValidation, "goal_amount must have at most two decimal places")
	case in.CategoryName == "":
		return apperr.New(apperr.CodeValidation, "category is required")
	case in.Beneficiary.Name == "":
		return apperr.New(apperr.CodeValidation, "beneficiary_name is required")
	case !in.Beneficiary.Type.Valid():
		return apperr.New(apperr.CodeValidation, "unknown beneficiary_type %q", in.Beneficiary.Type)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return apperr.New(apperr.CodeValidation, "end_date must not be before start_date")
	}
	return nil
}

// CreateCampaign stores a new Pending campaign with its media, assigns a
// reviewing admin and promotes the owner to fundraiser. Either everything is
// persisted or nothing is.
func (s *CampaignService) CreateCampaign(ctx context.Context, in CreateCampaignInput) (*CreateCampaignResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	imageURLs, err := blobstore.UploadAll(ctx, s.store, s.uploadWorkers, in.Images, blobstore.FolderCampaignImages, blobstore.KindImage)
	if err != nil {
		return nil, err
	}
	fileURLs, err := blobstore.UploadAll(ctx, s.store, s.uploadWorkers, in.Files, blobstore.FolderCampaignFiles, blobstore.KindRaw)
	if err != nil {
		blobstore.Cleanup(ctx, s.store, imageURLs)
		return nil, err
	}

	var result CreateCampaignResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.GetUserByID(ctx, in.OwnerID); err != nil {
			return lookupError(err, apperr.CodeUserNotFound, "user %d not found", in.OwnerID)
		}

		category, err := repo.GetCategoryByName(ctx, in.CategoryName)
		if err != nil {
			return lookupError(err, apperr.CodeCategoryNotFound, "category %q not found", in.CategoryName)
		}

		beneficiaryID, err := s.resolveBeneficiary(ctx, tx, repo, in.Beneficiary)
		if err != nil {
			return err
		}

		taken, err := repo.CampaignTitleTaken(ctx, in.Title, beneficiaryID)
		if err != nil {
			return apperr.Persistence(err, "failed to check for duplicate campaign")
		}
		if taken {
			return apperr.New(apperr.CodeDuplicateCampaign, "campaign %q already exists for this beneficiary", in.Title)
		}

		campaignID, err := idgen.Next(tx, idgen.Campaign)
		if err != nil {
			return err
		}

		adminID, err := assignNextAdmin(ctx, repo)
		if err != nil {
			return err
		}

		campaign := &models.Campaign{
			CampaignID:    campaignID,
			Title:         in.Title,
			Description:   in.Description,
			GoalAmount:    in.GoalAmount,
			RaisedAmount:  decimal.Zero,
			Status:        models.CampaignStatusPending,
			StartDate:     in.StartDate,
			EndDate:       in.EndDate,
			UserID:        in.OwnerID,
			BeneficiaryID: beneficiaryID,
			CategoryID:    category.CategoryID,
			AdminID:       adminID,
			Warning:       models.CampaignWarningNone,
		}
		if err := repo.CreateCampaign(ctx, campaign); err != nil {
			if isDuplicateKey(err) {
				return apperr.Wrap(apperr.CodeDuplicateCampaign, err, "campaign %q already exists for this beneficiary", in.Title)
			}
			return apperr.Persistence(err, "failed to create campaign")
		}

		if err := s.attachMedia(ctx, tx, repo, campaignID, imageURLs, fileURLs); err != nil {
			return err
		}

		if err := repo.PromoteToFundraiser(ctx, in.OwnerID); err != nil {
			return apperr.Persistence(err, "failed to update user role")
		}

		result = CreateCampaignResult{CampaignID: campaignID, AdminID: adminID, BeneficiaryID: beneficiaryID}
		return nil
	})
	if err != nil {
		blobstore.Cleanup(ctx, s.store, imageURLs)
		blobstore.Cleanup(ctx, s.store, fileURLs)
		return nil, err
	}

	logger.Info("Campaign %s created by user %d, assigned to %s", result.CampaignID, in.OwnerID, result.AdminID)
	return &result, nil
}

// resolveBeneficiary reuses the beneficiary matching (name, address) or
// creates a new one.
func (s *CampaignService) resolveBeneficiary(ctx context.Context, tx *gorm.DB, repo *repository.Repository, in BeneficiaryInput) (string, error) {
	existing, err := repo.FindBeneficiary(ctx, in.Name, in.Address)
	if err == nil {
		return existing.BeneficiaryID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.Persistence(err, "failed to look up beneficiary")
	}

	id, err := idgen.Next(tx, idgen.Beneficiary)
	if err != nil {
		return "", err
	}

	beneficiary := &models.Beneficiary{
		BeneficiaryID: id,
		Name:          in.Name,
		Type:          in.Type,
		Description:   in.Description,
		Address:       in.Address,
	}
	if err := tx.WithContext(ctx).Create(beneficiary).Error; err != nil {
		if isDuplicateKey(err) {
			return "", apperr.Wrap(apperr.CodeConflict, err, "beneficiary was registered concurrently, retry")
		}
		return "", apperr.Persistence(err, "failed to create beneficiary")
	}
	return id, nil
}

func (s *CampaignService) attachMedia(ctx context.Context, tx *gorm.DB, repo *repository.Repository, campaignID string, imageURLs, fileURLs []string) error {
	images := make([]*models.CampaignImage, 0, len(imageURLs))
	for _, url := range imageURLs {
		id, err := idgen.Next(tx, idgen.Image)
		if err != nil {
			return err
		}
		images = append(images, &models.CampaignImage{ImageID: id, CampaignID: campaignID, ImagePath: url})
	}
	if err := repo.CreateCampaignImages(ctx, images); err != nil {
		return apperr.Persistence(err, "failed to save campaign images")
	}

	files := make([]*models.CampaignFile, 0, len(fileURLs))
	for _, url := range fileURLs {
		id, err := idgen.Next(tx, idgen.File)
		if err != nil {
			return err
		}
		files = append(files, &models.CampaignFile{FileID: id, CampaignID: campaignID, FilePath: url})
	}
	if err := repo.CreateCampaignFiles(ctx, files); err != nil {
		return apperr.Persistence(err, "failed to save campaign files")
	}
	return nil
}

// Approve moves a Pending campaign to Approved
func (s *CampaignService) Approve(ctx context.Context, campaignID string) error {
	return s.transition(ctx, campaignID, models.CampaignStatusApproved)
}

// Reject moves a Pending campaign to Rejected
func (s *CampaignService) Reject(ctx context.Context, campaignID string) error {
	return s.transition(ctx, campaignID, models.CampaignStatusRejected)
}

// transition only ever leaves Pending. Repeating a decision, or reversing
// one, is an INVALID_TRANSITION.
func (s *CampaignService) transition(ctx context.Context, campaignID string, to models.CampaignStatus) error {
	changed, err := s.repo.TransitionStatus(ctx, campaignID, models.CampaignStatusPending, to)
	if err != nil {
		return apperr.Persistence(err, "failed to update campaign status")
	}
	if changed > 0 {
		logger.Info("Campaign %s marked %s", campaignID, to)
		return nil
	}

	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return lookupError(err, apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
	}
	return apperr.New(apperr.CodeInvalidTransition, "campaign %s is already %s", campaignID, campaign.Status)
}

// SetWarning raises or clears the admin warning flag
func (s *CampaignService) SetWarning(ctx context.Context, campaignID string, warn bool) error {
	warning := models.CampaignWarningNone
	if warn {
		warning = models.CampaignWarningWarning
	}

	if _, err := s.repo.SetWarning(ctx, campaignID, warning); err != nil {
		return apperr.Persistence(err, "failed to update warning")
	}
	exists, err := s.repo.CampaignExists(ctx, campaignID)
	if err != nil {
		return apperr.Persistence(err, "failed to load campaign")
	}
	if !exists {
		return apperr.New(apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
	}
	return nil
}

// GetRaisedAmount sums the ledger for a campaign at read time
func (s *CampaignService) GetRaisedAmount(ctx context.Context, campaignID string) (decimal.Decimal, error) {
	exists, err := s.repo.CampaignExists(ctx, campaignID)
	if err != nil {
		return decimal.Zero, apperr.Persistence(err, "failed to load campaign")
	}
	if !exists {
		return decimal.Zero, apperr.New(apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
	}

	total, err := s.repo.SumDonations(ctx, campaignID)
	if err != nil {
		return decimal.Zero, apperr.Persistence(err, "failed to sum donations")
	}
	return total, nil
}

// GetCampaign returns one decorated campaign
func (s *CampaignService) GetCampaign(ctx context.Context, campaignID string) (*models.CampaignView, error) {
	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, lookupError(err, apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
	}

	views, err := s.decorate(ctx, []*models.Campaign{campaign})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// GetOwnedCampaign returns a campaign only to its owner
func (s *CampaignService) GetOwnedCampaign(ctx context.Context, userID uint, campaignID string) (*models.CampaignView, error) {
	view, err := s.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if view.UserID != userID {
		return nil, apperr.New(apperr.CodeForbidden, "campaign %s belongs to another user", campaignID)
	}
	return view, nil
}

// ListCampaigns returns decorated campaigns matching filter
func (s *CampaignService) ListCampaigns(ctx context.Context, filter repository.CampaignFilter) ([]*models.CampaignView, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.New(apperr.CodeValidation, "unknown status %q", filter.Status)
	}

	campaigns, err := s.repo.ListCampaigns(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to list campaigns")
	}
	return s.decorate(ctx, campaigns)
}

// ListByCategory lists campaigns in the named category
func (s *CampaignService) ListByCategory(ctx context.Context, categoryName string, status models.CampaignStatus) ([]*models.CampaignView, error) {
	category, err := s.repo.GetCategoryByName(ctx, categoryName)
	if err != nil {
		return nil, lookupError(err, apperr.CodeCategoryNotFound, "category %q not found", categoryName)
	}
	return s.ListCampaigns(ctx, repository.CampaignFilter{CategoryID: category.CategoryID, Status: status})
}

// ListCategories returns the seeded catalog
func (s *CampaignService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to list categories")
	}
	return categories, nil
}

// GetCampaigner returns the owner's public profile
func (s *CampaignService) GetCampaigner(ctx context.Context, campaignID string) (*Campaigner, error) {
	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, lookupError(err, apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
	}
	if campaign.Owner == nil {
		return nil, apperr.New(apperr.CodeUserNotFound, "owner of %s not found", campaignID)
	}
	return &Campaigner{Name: campaign.Owner.Name, ImageURL: campaign.Owner.ImageURL}, nil
}

// GetBeneficiary returns the beneficiary a campaign supports
func (s *CampaignService) GetBeneficiary(ctx context.Context, campaignID string) (*models.Beneficiary, error) {
	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, lookupError(err, apperr.CodeCampaignNotFound, "campaign %s not found", campaignID)
	}

	beneficiary, err := s.repo.GetBeneficiary(ctx, campaign.BeneficiaryID)
	if err != nil {
		return nil, lookupError(err, apperr.CodeNotFound, "beneficiary %s not found", campaign.BeneficiaryID)
	}
	return beneficiary, nil
}

// decorate attaches raised totals, category names and media using one query
// per concern rather than one per campaign.
func (s *CampaignService) decorate(ctx context.Context, campaigns []*models.Campaign) ([]*models.CampaignView, error) {
	views := make([]*models.CampaignView, 0, len(campaigns))
	if len(campaigns) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(campaigns))
	categoryIDs := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.CampaignID)
		categoryIDs = append(categoryIDs, c.CategoryID)
	}

	totals, err := s.repo.DonationTotals(ctx, ids)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to sum donations")
	}
	names, err := s.repo.CategoryNames(ctx, categoryIDs)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to resolve categories")
	}
	images, err := s.repo.ImageURLs(ctx, ids)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load images")
	}
	files, err := s.repo.FileURLs(ctx, ids)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load files")
	}

	for _, c := range campaigns {
		view := &models.CampaignView{
			Campaign:      *c,
			CategoryName:  names[c.CategoryID],
			RaisedAmount:  totals[c.CampaignID].Total,
			DonationCount: totals[c.CampaignID].Count,
			Images:        images[c.CampaignID],
			Files:         files[c.CampaignID],
		}
		if view.CategoryName == "" {
			view.CategoryName = "Unknown"
		}
		if view.Images == nil {
			view.Images = []string{}
		}
		if view.Files == nil {
			view.Files = []string{}
		}
		views = append(views, view)
	}
	return views, nil
}
