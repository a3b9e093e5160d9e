package services

import (
	"bytes"
	"context"
	"testing"

	"crowdfund/internal/apperr"
)

func TestPostComment(t *testing.T) {
	f := newFixture(t)
	f.registerAdmins(t, 1)
	owner := f.user(t, "owner@example.com")
	fan := f.user(t, "fan@example.com")
	ctx := context.Background()
	id := f.createCampaign(t, owner.ID, "School fees")

	for _, text := range []string{"Good luck!", "Shared with my team"} {
		if _, err := f.engage.PostComment(ctx, id, fan.ID, text); err != nil {
			t.Fatalf("PostComment failed: %v", err)
		}
	}

	comments, err := f.engage.ListComments(ctx, id)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Author == nil || comments[0].Author.ID != fan.ID {
		t.Errorf("expected comment author to be preloaded")
	}

	_, err = f.engage.PostComment(ctx, id, fan.ID, "   ")
	wantCode(t, err, apperr.CodeValidation)

	_, err = f.engage.PostComment(ctx, "CMP404", fan.ID, "hello")
	wantCode(t, err, apperr.CodeCampaignNotFound)
}

func TestPostShare(t *testing.T) {
	f := newFixture(t)
	f.registerAdmins(t, 1)
	owner := f.user(t, "owner@example.com")
	ctx := context.Background()
	id := f.createCampaign(t, owner.ID, "School fees")

	share, err := f.engage.PostShare(ctx, id, owner.ID, "whatsapp")
	if err != nil {
		t.Fatalf("PostShare failed: %v", err)
	}
	if share.ShareID != "SH001" {
		t.Errorf("expected SH001, got %s", share.ShareID)
	}

	shares, _ := f.engage.ListShares(ctx, id)
	if len(shares) != 1 {
		t.Errorf("expected 1 share, got %d", len(shares))
	}

	_, err = f.engage.ListShares(ctx, "CMP404")
	wantCode(t, err, apperr.CodeCampaignNotFound)
}

func TestPostUpdateOwnerOnly(t *testing.T) {
	f := newFixture(t)
	f.registerAdmins(t, 1)
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")
	ctx := context.Background()
	id := f.createCampaign(t, owner.ID, "School fees")
	// the other user owns a campaign too, so they hold the fundraiser role
	f.createCampaign(t, other.ID, "Other cause")

	update, err := f.engage.PostUpdate(ctx, id, owner.ID, "Fees paid for term one")
	if err != nil {
		t.Fatalf("PostUpdate failed: %v", err)
	}
	if update.UpdateID != "UPD001" {
		t.Errorf("expected UPD001, got %s", update.UpdateID)
	}

	_, err = f.engage.PostUpdate(ctx, id, other.ID, "Not mine")
	wantCode(t, err, apperr.CodeForbidden)

	updates, _ := f.engage.ListUpdates(ctx, id)
	if len(updates) != 1 {
		t.Errorf("expected 1 update, got %d", len(updates))
	}
}

func TestShareQRCode(t *testing.T) {
	f := newFixture(t)
	f.registerAdmins(t, 1)
	owner := f.user(t, "owner@example.com")
	ctx := context.Background()
	id := f.createCampaign(t, owner.ID, "School fees")

	png, err := f.engage.ShareQRCode(ctx, id, "https://give.example.com/")
	if err != nil {
		t.Fatalf("ShareQRCode failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected PNG output")
	}

	_, err = f.engage.ShareQRCode(ctx, "CMP404", "https://give.example.com")
	wantCode(t, err, apperr.CodeCampaignNotFound)
}
