package services

import (
	"context"
	"errors"
	"strings"

	"crowdfund/internal/apperr"
	"crowdfund/internal/auth"
	"crowdfund/internal/idgen"
	"crowdfund/internal/logger"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"

	"gorm.io/gorm"
)

// AdminAuthResult is returned by admin login
type AdminAuthResult struct {
	Token string        `json:"token"`
	Admin *models.Admin `json:"admin"`
}

// AdminService handles admin accounts and platform-wide reads
type AdminService struct {
	db         *gorm.DB
	repo       *repository.Repository
	bcryptCost int
}

// NewAdminService creates a new AdminService
func NewAdminService(db *gorm.DB, bcryptCost int) *AdminService {
	return &AdminService{
		db:         db,
		repo:       repository.NewRepository(db),
		bcryptCost: bcryptCost,
	}
}

// Register adds an admin to the review roster
func (s *AdminService) Register(ctx context.Context, name, email, password string) (*models.Admin, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, apperr.New(apperr.CodeValidation, "admin_name, admin_email and admin_pass are required")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnknown, err, "failed to hash password")
	}

	var admin *models.Admin
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.GetAdminByEmail(ctx, email); err == nil {
			return apperr.New(apperr.CodeConflict, "admin with email %s already exists", email)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Persistence(err, "failed to check admin email")
		}

		id, err := idgen.Next(tx, idgen.Admin)
		if err != nil {
			return err
		}

		admin = &models.Admin{AdminID: id, Name: name, Email: email, PasswordHash: hash}
		if err := tx.WithContext(ctx).Create(admin).Error; err != nil {
			if isDuplicateKey(err) {
				return apperr.Wrap(apperr.CodeConflict, err, "admin with email %s already exists", email)
			}
			return apperr.Persistence(err, "failed to create admin")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Admin %s registered (%s)", admin.AdminID, email)
	return admin, nil
}

// Login verifies admin credentials and issues an admin token
func (s *AdminService) Login(ctx context.Context, email, password string) (*AdminAuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.CodeValidation, "admin_email and admin_pass are required")
	}

	admin, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(err, apperr.CodeAdminNotFound, "admin not found")
	}
	if !auth.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, apperr.New(apperr.CodeUnauthorized, "invalid credentials")
	}

	token, err := auth.GenerateAdminToken(admin.AdminID, admin.Email)
	if err != nil {
		return nil, err
	}
	return &AdminAuthResult{Token: token, Admin: admin}, nil
}

// GetAllUsers returns all users with optional name/email search
func (s *AdminService) GetAllUsers(ctx context.Context, limit int, offset int, search string) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	filter := func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		like := "%" + strings.ToLower(search) + "%"
		return db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, apperr.Persistence(err, "failed to count users")
	}
	if limit <= 0 {
		limit = 50
	}
	err := s.db.WithContext(ctx).Scopes(filter).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, apperr.Persistence(err, "failed to list users")
	}

	return users, total, nil
}
