package repository

import (
	"context"

	"crowdfund/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// DB exposes the underlying handle, mostly for transactions
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PromoteToFundraiser moves a Donor to Both. Users already at Both are left
// alone, so the call is safe to repeat.
func (r *Repository) PromoteToFundraiser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND user_role = ?", userID, models.UserRoleDonor).
		Update("user_role", models.UserRoleBoth).Error
}

// ListAdmins returns the roster ordered by numeric admin ID
func (r *Repository) ListAdmins(ctx context.Context) ([]*models.Admin, error) {
	var admins []*models.Admin
	err := r.db.WithContext(ctx).
		Order("LENGTH(admin_id) ASC, admin_id ASC").
		Find(&admins).Error
	if err != nil {
		return nil, err
	}
	return admins, nil
}

// GetAdminByEmail retrieves an admin by email
func (r *Repository) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("admin_email = ?", email).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetCategoryByName resolves a catalog entry by name
func (r *Repository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("category_name = ?", name).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns the catalog in ID order
func (r *Repository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).
		Order("LENGTH(category_id) ASC, category_id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// CategoryNames maps category IDs to names
func (r *Repository) CategoryNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("category_id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	for _, c := range categories {
		names[c.CategoryID] = c.Name
	}
	return names, nil
}

// FindBeneficiary looks up the dedup key (name, address)
func (r *Repository) FindBeneficiary(ctx context.Context, name, address string) (*models.Beneficiary, error) {
	var beneficiary models.Beneficiary
	err := r.db.WithContext(ctx).
		Where("beneficiary_name = ? AND address = ?", name, address).
		First(&beneficiary).Error
	if err != nil {
		return nil, err
	}
	return &beneficiary, nil
}

// GetBeneficiary retrieves a beneficiary by ID
func (r *Repository) GetBeneficiary(ctx context.Context, beneficiaryID string) (*models.Beneficiary, error) {
	var beneficiary models.Beneficiary
	err := r.db.WithContext(ctx).Where("beneficiary_id = ?", beneficiaryID).First(&beneficiary).Error
	if err != nil {
		return nil, err
	}
	return &beneficiary, nil
}
