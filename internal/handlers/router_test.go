package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"crowdfund/internal/auth"
	"crowdfund/internal/blobstore"
	"crowdfund/internal/database/dbtest"
	"crowdfund/internal/realtime"
	"crowdfund/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.InitJWT(auth.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		AdminTTL:      time.Hour,
	})
	os.Exit(m.Run())
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := dbtest.New(t)
	dir := t.TempDir()
	store := blobstore.NewLocalStore(dir, "http://localhost/uploads")

	hub := realtime.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	return SetupRouter(RouterConfig{
		AuthService:       services.NewAuthService(db, store, bcrypt.MinCost),
		UserService:       services.NewUserService(db, store, bcrypt.MinCost),
		AdminService:      services.NewAdminService(db, bcrypt.MinCost),
		CampaignService:   services.NewCampaignService(db, store, 2),
		DonationService:   services.NewDonationService(db, hub),
		EngagementService: services.NewEngagementService(db),
		Hub:               hub,
		PublicURL:         "https://give.example.com",
		UploadRoot:        dir,
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) map[string]interface{} {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	if w.Header().Get("Content-Type") == "image/png" {
		return nil
	}
	return decode(t, w)
}

func createCampaignRequest(t *testing.T, router *gin.Engine, token string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	part, err := mw.CreateFormFile("images", "cover.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write([]byte("png-bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/campaigns", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var campaignFields = map[string]string{
	"title":               "School fees",
	"category":            "Education",
	"description":         "Fees for the coming year",
	"goal_amount":         "1000",
	"end_date":            "2030-01-31",
	"beneficiary_name":    "Asha",
	"beneficiary_type":    "Student",
	"beneficiary_address": "12 Lake Road",
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(t)
	body := expectStatus(t, doJSON(t, router, http.MethodGet, "/health", "", nil), http.StatusOK)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestCampaignLifecycle(t *testing.T) {
	router := setupTestRouter(t)

	expectStatus(t, doJSON(t, router, http.MethodPost, "/api/admin/register", "", gin.H{
		"admin_name": "Reviewer", "admin_email": "reviewer@example.com", "admin_pass": "secret",
	}), http.StatusCreated)
	adminLogin := expectStatus(t, doJSON(t, router, http.MethodPost, "/api/admin/login", "", gin.H{
		"admin_email": "reviewer@example.com", "admin_pass": "secret",
	}), http.StatusOK)
	adminToken := adminLogin["token"].(string)

	owner := expectStatus(t, doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Meera", "email": "meera@example.com", "password": "pw",
	}), http.StatusCreated)
	donorToken := owner["accessToken"].(string)

	// Not yet a fundraiser.
	body := expectStatus(t, doJSON(t, router, http.MethodGet, "/api/user/dashboard-stats/CMP001", donorToken, nil), http.StatusForbidden)
	if body["code"] != "FORBIDDEN" {
		t.Errorf("expected FORBIDDEN, got %v", body["code"])
	}

	created := expectStatus(t, createCampaignRequest(t, router, donorToken, campaignFields), http.StatusCreated)
	if created["campaign_id"] != "CMP001" || created["admin_id"] != "ADM001" {
		t.Fatalf("unexpected create response %v", created)
	}
	fundraiserToken := created["accessToken"].(string)

	body = expectStatus(t, createCampaignRequest(t, router, fundraiserToken, campaignFields), http.StatusConflict)
	if body["code"] != "DUPLICATE_CAMPAIGN" {
		t.Errorf("expected DUPLICATE_CAMPAIGN, got %v", body["code"])
	}

	view := expectStatus(t, doJSON(t, router, http.MethodGet, "/api/campaigns/CMP001", "", nil), http.StatusOK)
	if view["status"] != "Pending" {
		t.Errorf("expected Pending, got %v", view["status"])
	}
	if images, _ := view["images"].([]interface{}); len(images) != 1 {
		t.Errorf("expected 1 image, got %v", view["images"])
	}

	donate := func(amount float64) *httptest.ResponseRecorder {
		return doJSON(t, router, http.MethodPost, "/api/donations/CMP001", donorToken, gin.H{
			"amount": amount, "transaction_type": "upi",
		})
	}
	expectStatus(t, donate(950), http.StatusCreated)
	expectStatus(t, donate(40), http.StatusCreated)
	body = expectStatus(t, donate(60), http.StatusBadRequest)
	if body["code"] != "GOAL_EXCEEDED" {
		t.Errorf("expected GOAL_EXCEEDED, got %v", body["code"])
	}

	view = expectStatus(t, doJSON(t, router, http.MethodGet, "/api/campaigns/CMP001", "", nil), http.StatusOK)
	if view["raised_amount"] != "990" {
		t.Errorf("expected raised_amount 990, got %v", view["raised_amount"])
	}

	expectStatus(t, doJSON(t, router, http.MethodPatch, "/api/admin/campaign/CMP001/approve", adminToken, nil), http.StatusOK)
	body = expectStatus(t, doJSON(t, router, http.MethodPatch, "/api/admin/campaign/CMP001/approve", adminToken, nil), http.StatusConflict)
	if body["code"] != "INVALID_TRANSITION" {
		t.Errorf("expected INVALID_TRANSITION, got %v", body["code"])
	}
	body = expectStatus(t, doJSON(t, router, http.MethodPatch, "/api/admin/campaign/CMP404/reject", adminToken, nil), http.StatusNotFound)
	if body["code"] != "CAMPAIGN_NOT_FOUND" {
		t.Errorf("expected CAMPAIGN_NOT_FOUND, got %v", body["code"])
	}

	stats := expectStatus(t, doJSON(t, router, http.MethodGet, "/api/user/dashboard-stats/CMP001", fundraiserToken, nil), http.StatusOK)
	if stats["total_donors"] != float64(1) {
		t.Errorf("expected 1 donor, got %v", stats["total_donors"])
	}

	expectStatus(t, doJSON(t, router, http.MethodPost, "/api/campaigns/CMP001/updates", fundraiserToken, gin.H{
		"update_text": "Term one paid",
	}), http.StatusCreated)
	expectStatus(t, doJSON(t, router, http.MethodPost, "/api/campaigns/CMP001/updates", donorToken, gin.H{
		"update_text": "Term one paid",
	}), http.StatusForbidden)

	w := doJSON(t, router, http.MethodGet, "/api/campaigns/CMP001/qrcode", "", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Errorf("expected PNG QR code, got %d %s", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	router := setupTestRouter(t)

	user := expectStatus(t, doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Meera", "email": "meera@example.com", "password": "pw",
	}), http.StatusCreated)

	expectStatus(t, doJSON(t, router, http.MethodGet, "/api/admin/campaigns", "", nil), http.StatusUnauthorized)
	body := expectStatus(t, doJSON(t, router, http.MethodGet, "/api/admin/campaigns", user["accessToken"].(string), nil), http.StatusUnauthorized)
	if body["code"] != "UNAUTHORIZED" {
		t.Errorf("expected UNAUTHORIZED, got %v", body["code"])
	}
}

func TestCreateCampaignWithoutAdmins(t *testing.T) {
	router := setupTestRouter(t)

	user := expectStatus(t, doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Meera", "email": "meera@example.com", "password": "pw",
	}), http.StatusCreated)

	body := expectStatus(t, createCampaignRequest(t, router, user["accessToken"].(string), campaignFields), http.StatusServiceUnavailable)
	if body["code"] != "NO_ADMINS_AVAILABLE" {
		t.Errorf("expected NO_ADMINS_AVAILABLE, got %v", body["code"])
	}
}

func TestTokenRefreshAndLogout(t *testing.T) {
	router := setupTestRouter(t)

	user := expectStatus(t, doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Meera", "email": "meera@example.com", "password": "pw",
	}), http.StatusCreated)
	refresh := user["refreshToken"].(string)

	body := expectStatus(t, doJSON(t, router, http.MethodPost, "/api/auth/token", "", gin.H{"token": refresh}), http.StatusOK)
	if body["accessToken"] == "" {
		t.Error("expected a new access token")
	}

	expectStatus(t, doJSON(t, router, http.MethodDelete, "/api/auth/logout", "", gin.H{"token": refresh}), http.StatusOK)
	expectStatus(t, doJSON(t, router, http.MethodPost, "/api/auth/token", "", gin.H{"token": refresh}), http.StatusUnauthorized)
}

func TestPublicLookups(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/campaigns/categories", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for categories, got %d", w.Code)
	}
	var categories []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &categories); err != nil || len(categories) == 0 {
		t.Fatalf("expected seeded categories, got %s", w.Body.String())
	}

	body := expectStatus(t, doJSON(t, router, http.MethodGet, "/api/campaigns/CMP999", "", nil), http.StatusNotFound)
	if body["code"] != "CAMPAIGN_NOT_FOUND" {
		t.Errorf("expected CAMPAIGN_NOT_FOUND, got %v", body["code"])
	}

	body = expectStatus(t, doJSON(t, router, http.MethodGet, "/api/campaigns/category/Nope", "", nil), http.StatusNotFound)
	if body["code"] != "CATEGORY_NOT_FOUND" {
		t.Errorf("expected CATEGORY_NOT_FOUND, got %v", body["code"])
	}

	body = expectStatus(t, doJSON(t, router, http.MethodGet, "/api/nowhere", "", nil), http.StatusNotFound)
	if body["code"] != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %v", body["code"])
	}
}

func TestPublicPayloadsHideContactDetails(t *testing.T) {
	router := setupTestRouter(t)

	expectStatus(t, doJSON(t, router, http.MethodPost, "/api/admin/register", "", gin.H{
		"admin_name": "Reviewer", "admin_email": "reviewer@example.com", "admin_pass": "secret",
	}), http.StatusCreated)
	owner := expectStatus(t, doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Meera", "email": "meera@private.example", "password": "pw", "location": "Pune",
	}), http.StatusCreated)
	donor := expectStatus(t, doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ravi", "email": "ravi@private.example", "password": "pw",
	}), http.StatusCreated)

	expectStatus(t, createCampaignRequest(t, router, owner["accessToken"].(string), campaignFields), http.StatusCreated)
	expectStatus(t, doJSON(t, router, http.MethodPost, "/api/donations/CMP001", donor["accessToken"].(string), gin.H{
		"amount": 25, "transaction_type": "card",
	}), http.StatusCreated)

	for _, path := range []string{
		"/api/campaigns",
		"/api/campaigns/CMP001",
		"/api/campaigns/CMP001/donors",
		"/api/donations/CMP001",
	} {
		w := doJSON(t, router, http.MethodGet, path, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, w.Code)
		}
		payload := w.Body.String()
		for _, leak := range []string{"private.example", `"email"`, `"user_role"`, "Pune"} {
			if strings.Contains(payload, leak) {
				t.Errorf("GET %s exposes %s: %s", path, leak, payload)
			}
		}
	}

	view := expectStatus(t, doJSON(t, router, http.MethodGet, "/api/campaigns/CMP001", "", nil), http.StatusOK)
	ownerView, _ := view["owner"].(map[string]interface{})
	if ownerView["name"] != "Meera" {
		t.Errorf("expected owner name Meera, got %v", view["owner"])
	}

	w := doJSON(t, router, http.MethodGet, "/api/campaigns/CMP001/donors", "", nil)
	var donors []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &donors); err != nil || len(donors) != 1 {
		t.Fatalf("expected one donor, got %s", w.Body.String())
	}
	if d, _ := donors[0]["donor"].(map[string]interface{}); d["name"] != "Ravi" {
		t.Errorf("expected donor name Ravi, got %v", donors[0]["donor"])
	}
}

func TestLiveFeedUnknownCampaign(t *testing.T) {
	router := setupTestRouter(t)

	body := expectStatus(t, doJSON(t, router, http.MethodGet, "/ws/campaigns/CMP404", "", nil), http.StatusNotFound)
	if body["code"] != "CAMPAIGN_NOT_FOUND" {
		t.Errorf("expected CAMPAIGN_NOT_FOUND, got %v", body["code"])
	}
}
