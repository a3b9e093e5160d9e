package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"crowdfund/internal/apperr"
	"crowdfund/internal/auth"
	"crowdfund/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.auth.Register(ctx, RegisterInput{
		Name:     "Meera",
		Email:    " Meera@Example.com ",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if result.User.Role != models.UserRoleDonor {
		t.Errorf("expected new users to be Donor, got %s", result.User.Role)
	}
	if result.User.Email != "meera@example.com" {
		t.Errorf("expected normalized email, got %s", result.User.Email)
	}

	claims, err := auth.ValidateAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("expected user %d in token, got %d", result.User.ID, claims.UserID)
	}

	_, err = f.auth.Register(ctx, RegisterInput{Email: "meera@example.com", Password: "x"})
	wantCode(t, err, apperr.CodeConflict)

	if _, err := f.auth.Login(ctx, "meera@example.com", "hunter22"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	_, err = f.auth.Login(ctx, "meera@example.com", "wrong")
	wantCode(t, err, apperr.CodeUnauthorized)

	_, err = f.auth.Login(ctx, "nobody@example.com", "hunter22")
	wantCode(t, err, apperr.CodeUserNotFound)
}

func TestRegisterGeneratesDisplayName(t *testing.T) {
	f := newFixture(t)

	result, err := f.auth.Register(context.Background(), RegisterInput{Email: "anon@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !regexp.MustCompile(`^\w+ \w+ \d{4}$`).MatchString(result.User.Name) {
		t.Errorf("unexpected generated name %q", result.User.Name)
	}
}

func TestRefreshPicksUpPromotion(t *testing.T) {
	f := newFixture(t)
	f.registerAdmins(t, 1)
	ctx := context.Background()

	result, err := f.auth.Register(ctx, RegisterInput{Name: "Meera", Email: "meera@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	f.createCampaign(t, result.User.ID, "School fees")

	access, err := f.auth.Refresh(ctx, result.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	claims, err := auth.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("refreshed token invalid: %v", err)
	}
	if claims.Role != string(models.UserRoleBoth) {
		t.Errorf("expected role Both after refresh, got %s", claims.Role)
	}

	// An access token is not a refresh token.
	_, err = f.auth.Refresh(ctx, result.AccessToken)
	wantCode(t, err, apperr.CodeUnauthorized)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.auth.Register(ctx, RegisterInput{Name: "Meera", Email: "meera@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := f.auth.Logout(ctx, result.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	_, err = f.auth.Refresh(ctx, result.RefreshToken)
	wantCode(t, err, apperr.CodeUnauthorized)

	wantCode(t, f.auth.Logout(ctx, result.RefreshToken), apperr.CodeUnauthorized)
	wantCode(t, f.auth.Logout(ctx, ""), apperr.CodeUnauthorized)
}

func TestPurgeExpiredTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := f.auth.Login(ctx, "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	purged, err := f.auth.PurgeExpiredTokens(ctx)
	if err != nil {
		t.Fatalf("PurgeExpiredTokens failed: %v", err)
	}
	if purged != 0 {
		t.Errorf("expected nothing to purge yet, got %d", purged)
	}

	f.auth.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	purged, err = f.auth.PurgeExpiredTokens(ctx)
	if err != nil {
		t.Fatalf("PurgeExpiredTokens failed: %v", err)
	}
	if purged != 2 {
		t.Errorf("expected 2 purged tokens, got %d", purged)
	}
	if n := count(t, f.db, &models.RefreshToken{}); n != 0 {
		t.Errorf("expected no refresh tokens left, got %d", n)
	}
}

func TestAdminRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admins := f.registerAdmins(t, 2)
	if admins[0].AdminID != "ADM001" || admins[1].AdminID != "ADM002" {
		t.Errorf("unexpected admin IDs %s, %s", admins[0].AdminID, admins[1].AdminID)
	}

	_, err := f.admins.Register(ctx, "Dup", "admin1@example.com", "pw")
	wantCode(t, err, apperr.CodeConflict)

	_, err = f.admins.Register(ctx, "", "x@example.com", "pw")
	wantCode(t, err, apperr.CodeValidation)

	result, err := f.admins.Login(ctx, "admin1@example.com", "secret")
	if err != nil {
		t.Fatalf("admin Login failed: %v", err)
	}
	claims, err := auth.ValidateAdminToken(result.Token)
	if err != nil {
		t.Fatalf("admin token invalid: %v", err)
	}
	if claims.AdminID != "ADM001" {
		t.Errorf("expected ADM001 in token, got %s", claims.AdminID)
	}

	_, err = f.admins.Login(ctx, "admin1@example.com", "wrong")
	wantCode(t, err, apperr.CodeUnauthorized)

	_, err = f.admins.Login(ctx, "ghost@example.com", "secret")
	wantCode(t, err, apperr.CodeAdminNotFound)
}

func TestGetAllUsers(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice@example.com")
	f.user(t, "bob@example.com")
	f.user(t, "carol@example.com")

	users, total, err := f.admins.GetAllUsers(context.Background(), 2, 0, "")
	if err != nil {
		t.Fatalf("GetAllUsers failed: %v", err)
	}
	if total != 3 || len(users) != 2 {
		t.Errorf("expected page of 2 out of 3, got %d of %d", len(users), total)
	}

	users, total, _ = f.admins.GetAllUsers(context.Background(), 10, 0, "bob")
	if total != 1 || len(users) != 1 {
		t.Errorf("expected 1 match for bob, got %d", total)
	}
}
