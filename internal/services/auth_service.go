package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crowdfund/internal/apperr"
	"crowdfund/internal/auth"
	"crowdfund/internal/blobstore"
	"crowdfund/internal/logger"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"
	"crowdfund/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterInput carries a sign-up request
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Location  string
	AboutUser string
	DOB       *time.Time
	Photo     *blobstore.Object
}

// AuthResult is returned by register and login
type AuthResult struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

// AuthService handles user authentication and refresh-token lifecycle
type AuthService struct {
	db         *gorm.DB
	repo       *repository.Repository
	store      blobstore.Store
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB, store blobstore.Store, bcryptCost int) *AuthService {
	return &AuthService{
		db:         db,
		repo:       repository.NewRepository(db),
		store:      store,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a Donor account and signs it in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperr.New(apperr.CodeValidation, "email and password are required")
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.New(apperr.CodeConflict, "user with email %s already exists", email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence(err, "failed to check email")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		generated, err := utils.GenerateDisplayName()
		if err != nil {
			return nil, err
		}
		name = generated
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Location:     in.Location,
		AboutUser:    in.AboutUser,
		Role:         models.UserRoleDonor,
		PasswordHash: hash,
		DOB:          in.DOB,
	}

	if in.Photo != nil {
		url, err := s.store.Store(ctx, *in.Photo, blobstore.FolderProfile, blobstore.KindImage)
		if err != nil {
			return nil, err
		}
		user.ImageURL = &url
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if user.ImageURL != nil {
			blobstore.Cleanup(ctx, s.store, []string{*user.ImageURL})
		}
		if isDuplicateKey(err) {
			return nil, apperr.Wrap(apperr.CodeConflict, err, "user with email %s already exists", email)
		}
		return nil, apperr.Persistence(err, "failed to create user")
	}

	logger.Info("New user registered: %s (ID: %d)", email, user.ID)
	return s.issueTokens(ctx, user)
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.CodeValidation, "email and password are required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(err, apperr.CodeUserNotFound, "user not found")
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.New(apperr.CodeUnauthorized, "invalid credentials")
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	access, err := auth.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(auth.RefreshTTL()).UTC(),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to persist refresh token")
	}

	refresh, err := auth.GenerateRefreshToken(user.ID, user.Email, record.ID, record.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &AuthResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh exchanges a live refresh token for a new access token. The role
// claim is read fresh, so a newly promoted fundraiser picks it up here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	tokenID, userID, err := s.liveRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", lookupError(err, apperr.CodeUnauthorized, "refresh token owner no longer exists")
	}

	logger.Debug("Refresh token %s used by user %d", tokenID, userID)
	return auth.GenerateAccessToken(user.ID, user.Email, string(user.Role))
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, _, err := s.liveRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.RefreshToken{}, "id = ?", tokenID).Error; err != nil {
		return apperr.Persistence(err, "failed to revoke refresh token")
	}
	return nil
}

func (s *AuthService) liveRefreshToken(ctx context.Context, refreshToken string) (uuid.UUID, uint, error) {
	if refreshToken == "" {
		return uuid.Nil, 0, apperr.New(apperr.CodeUnauthorized, "refresh token required")
	}

	claims, err := auth.ValidateRefreshToken(refreshToken)
	if err != nil {
		return uuid.Nil, 0, apperr.Wrap(apperr.CodeUnauthorized, err, "invalid refresh token")
	}

	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, 0, apperr.Wrap(apperr.CodeUnauthorized, err, "invalid refresh token")
	}

	var record models.RefreshToken
	err = s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", tokenID, s.now().UTC()).
		First(&record).Error
	if err != nil {
		return uuid.Nil, 0, lookupError(err, apperr.CodeUnauthorized, "refresh token revoked or expired")
	}

	return record.ID, record.UserID, nil
}

// PurgeExpiredTokens deletes refresh tokens past their expiry
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", s.now().UTC()).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, apperr.Persistence(result.Error, "failed to purge refresh tokens")
	}
	return result.RowsAffected, nil
}
