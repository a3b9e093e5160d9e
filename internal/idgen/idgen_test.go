package idgen_test

import (
	"fmt"
	"testing"

	"crowdfund/internal/apperr"
	"crowdfund/internal/database/dbtest"
	"crowdfund/internal/idgen"
	"crowdfund/internal/models"

	"gorm.io/gorm"
)

func TestFormatID(t *testing.T) {
	tests := []struct {
		prefix string
		n      int64
		want   string
	}{
		{"CMP", 1, "CMP001"},
		{"DON", 42, "DON042"},
		{"SH", 999, "SH999"},
		{"CMP", 1000, "CMP1000"},
		{"FILE", 12345, "FILE12345"},
	}

	for _, tt := range tests {
		if got := idgen.FormatID(tt.prefix, tt.n); got != tt.want {
			t.Errorf("FormatID(%q, %d) = %q, want %q", tt.prefix, tt.n, got, tt.want)
		}
	}
}

func TestParseID(t *testing.T) {
	n, err := idgen.ParseID("CMP", "CMP1000")
	if err != nil {
		t.Fatalf("ParseID returned error: %v", err)
	}
	if n != 1000 {
		t.Errorf("expected 1000, got %d", n)
	}

	for _, bad := range []string{"CMPabc", "CMP", "DON001", "CMP01x", "CMP-01"} {
		if _, err := idgen.ParseID("CMP", bad); !apperr.Is(err, apperr.CodeInvalidIDFormat) {
			t.Errorf("ParseID(%q): expected INVALID_ID_FORMAT, got %v", bad, err)
		}
	}
}

func TestNextSequence(t *testing.T) {
	db := dbtest.New(t)

	for i := 1; i <= 5; i++ {
		var id string
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			id, err = idgen.Next(tx, idgen.Donation)
			return err
		})
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if want := fmt.Sprintf("DON%03d", i); id != want {
			t.Errorf("allocation %d: got %s, want %s", i, id, want)
		}
	}
}

func TestNextKindsAreIndependent(t *testing.T) {
	db := dbtest.New(t)

	cmp, err := idgen.Next(db, idgen.Campaign)
	if err != nil {
		t.Fatalf("Next(Campaign) failed: %v", err)
	}
	don, err := idgen.Next(db, idgen.Donation)
	if err != nil {
		t.Fatalf("Next(Donation) failed: %v", err)
	}
	if cmp != "CMP001" || don != "DON001" {
		t.Errorf("expected CMP001 and DON001, got %s and %s", cmp, don)
	}
}

func TestNextSeedsFromExistingRows(t *testing.T) {
	db := dbtest.New(t)

	for _, id := range []string{"UPD998", "UPD1000", "UPD999"} {
		if err := db.Create(&models.Update{UpdateID: id, UpdateText: "x", CampaignID: "CMP001"}).Error; err != nil {
			t.Fatalf("failed to create update: %v", err)
		}
	}

	id, err := idgen.Next(db, idgen.Update)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if id != "UPD1001" {
		t.Errorf("expected UPD1001, got %s", id)
	}
}

func TestNextRejectsCorruptSuffix(t *testing.T) {
	db := dbtest.New(t)

	if err := db.Create(&models.CampaignShare{ShareID: "SHXYZ", CampaignID: "CMP001", UserID: 1, SharePlatform: "x"}).Error; err != nil {
		t.Fatalf("failed to create share: %v", err)
	}

	_, err := idgen.Next(db, idgen.Share)
	if !apperr.Is(err, apperr.CodeInvalidIDFormat) {
		t.Fatalf("expected INVALID_ID_FORMAT, got %v", err)
	}
}

func TestNextReleasesNumberOnRollback(t *testing.T) {
	db := dbtest.New(t)

	errAbort := fmt.Errorf("abort")
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := idgen.Next(tx, idgen.Comment); err != nil {
			return err
		}
		return errAbort
	})
	if err != errAbort {
		t.Fatalf("expected abort error, got %v", err)
	}

	id, err := idgen.Next(db, idgen.Comment)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if id != "COM001" {
		t.Errorf("expected COM001 after rollback, got %s", id)
	}
}
