package database

import (
	"fmt"
	"time"

	"crowdfund/internal/idgen"
	"crowdfund/internal/logger"
	"crowdfund/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// gormWriter routes gorm's log lines into the application logger
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logger.Error(format, args...)
}

func newGormLogger(w gormlogger.Writer) gormlogger.Interface {
	return gormlogger.New(w, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Error,
		IgnoreRecordNotFoundError: true,
	})
}

// Open opens a gorm connection for driver ("postgres" or "sqlite")
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   newGormLogger(gormWriter{}),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Connect establishes the process-wide connection
func Connect(driver, dsn string) error {
	db, err := Open(driver, dsn)
	if err != nil {
		return err
	}
	DB = db

	logger.Info("Database connection established successfully (driver=%s)", driver)
	return nil
}

// Migrate runs automatic migrations for all models
func Migrate(db *gorm.DB) error {
	// Identity and reference data first
	coreModels := []interface{}{
		&models.User{},
		&models.RefreshToken{},
		&models.Admin{},
		&models.Category{},
		&models.IDCounter{},
	}

	for _, model := range coreModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	campaignModels := []interface{}{
		&models.Beneficiary{},
		&models.Campaign{},
		&models.CampaignImage{},
		&models.CampaignFile{},
		&models.Donation{},
	}

	for _, model := range campaignModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	engagementModels := []interface{}{
		&models.Update{},
		&models.CampaignComment{},
		&models.CampaignShare{},
	}

	for _, model := range engagementModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	logger.Debug("Database migrations completed successfully")
	return nil
}

// AutoMigrate migrates the process-wide connection
func AutoMigrate() error {
	return Migrate(DB)
}

// SeedCategories inserts the fixed category catalog. Existing names are left
// untouched so reseeding is safe.
func SeedCategories(db *gorm.DB) error {
	categories := make([]models.Category, 0, len(models.CategoryNames))
	for i, name := range models.CategoryNames {
		categories = append(categories, models.Category{
			CategoryID: idgen.FormatID(idgen.Category.Prefix, int64(i+1)),
			Name:       name,
		})
	}

	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
