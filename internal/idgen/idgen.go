// Package idgen allocates the prefixed, zero-padded business identifiers
// ("CMP001", "DON042") used by every crowdfunding entity.
package idgen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"crowdfund/internal/apperr"
	"crowdfund/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Kind identifies an entity sequence and where its IDs are stored
type Kind struct {
	Prefix string
	Table  string
	Column string
}

var (
	Campaign    = Kind{Prefix: "CMP", Table: "campaigns", Column: "campaign_id"}
	Donation    = Kind{Prefix: "DON", Table: "donations", Column: "donation_id"}
	Image       = Kind{Prefix: "IMG", Table: "campaign_images", Column: "image_id"}
	File        = Kind{Prefix: "FILE", Table: "campaign_files", Column: "file_id"}
	Beneficiary = Kind{Prefix: "BEN", Table: "beneficiaries", Column: "beneficiary_id"}
	Update      = Kind{Prefix: "UPD", Table: "updates", Column: "update_id"}
	Comment     = Kind{Prefix: "COM", Table: "campaign_comments", Column: "comment_id"}
	Share       = Kind{Prefix: "SH", Table: "campaign_shares", Column: "share_id"}
	Admin       = Kind{Prefix: "ADM", Table: "admins", Column: "admin_id"}
	Category    = Kind{Prefix: "CAT", Table: "categories", Column: "category_id"}
)

// FormatID renders n with at least three digits. Values above 999 keep
// every digit.
func FormatID(prefix string, n int64) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// ParseID returns the numeric suffix of id
func ParseID(prefix, id string) (int64, error) {
	if !strings.HasPrefix(id, prefix) {
		return 0, apperr.New(apperr.CodeInvalidIDFormat, "id %q does not start with %s", id, prefix)
	}
	suffix := strings.TrimPrefix(id, prefix)
	if suffix == "" {
		return 0, apperr.New(apperr.CodeInvalidIDFormat, "id %q has no numeric suffix", id)
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, apperr.New(apperr.CodeInvalidIDFormat, "id %q has a non-numeric suffix", id)
		}
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.CodeInvalidIDFormat, err, "id %q suffix out of range", id)
	}
	return n, nil
}

// Next allocates the next ID of kind. tx should be the caller's transaction:
// the counter row stays locked until it commits, and a rollback gives the
// number back.
func Next(tx *gorm.DB, kind Kind) (string, error) {
	if err := ensureCounter(tx, kind); err != nil {
		return "", err
	}

	result := tx.Model(&models.IDCounter{}).
		Where("kind = ?", kind.Prefix).
		UpdateColumn("last_value", gorm.Expr("last_value + ?", 1))
	if result.Error != nil {
		return "", apperr.Persistence(result.Error, "failed to advance %s counter", kind.Prefix)
	}
	if result.RowsAffected == 0 {
		return "", apperr.New(apperr.CodePersistence, "%s counter missing", kind.Prefix)
	}

	var counter models.IDCounter
	if err := tx.Where("kind = ?", kind.Prefix).First(&counter).Error; err != nil {
		return "", apperr.Persistence(err, "failed to read %s counter", kind.Prefix)
	}

	return FormatID(kind.Prefix, counter.LastValue), nil
}

// ensureCounter creates the counter row for kind on first use, starting from
// the highest ID already stored so pre-existing data keeps its sequence.
func ensureCounter(tx *gorm.DB, kind Kind) error {
	var existing models.IDCounter
	err := tx.Where("kind = ?", kind.Prefix).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Persistence(err, "failed to load %s counter", kind.Prefix)
	}

	last, err := maxExisting(tx, kind)
	if err != nil {
		return err
	}

	err = tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.IDCounter{Kind: kind.Prefix, LastValue: last}).Error
	if err != nil {
		return apperr.Persistence(err, "failed to create %s counter", kind.Prefix)
	}
	return nil
}

// maxExisting scans kind's table for its highest ID. Ordering by length first
// keeps CMP1000 above CMP999.
func maxExisting(tx *gorm.DB, kind Kind) (int64, error) {
	var ids []string
	err := tx.Table(kind.Table).
		Order(fmt.Sprintf("LENGTH(%s) DESC, %s DESC", kind.Column, kind.Column)).
		Limit(1).
		Pluck(kind.Column, &ids).Error
	if err != nil {
		return 0, apperr.Persistence(err, "failed to scan %s", kind.Table)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ParseID(kind.Prefix, ids[0])
}
