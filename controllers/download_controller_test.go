package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/georgmattin/kristlinilehekulg/apperrors"
	"github.com/georgmattin/kristlinilehekulg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePurchaseRepo struct {
	purchase     *models.Purchase
	consumeOK    bool
	consumeCalls int
}

func (f *fakePurchaseRepo) CreateIfAbsent(ctx context.Context, purchase *models.Purchase) (bool, error) {
	return false, nil
}

func (f *fakePurchaseRepo) TransitionByPaymentIntent(ctx context.Context, paymentIntentID, toStatus string) (bool, error) {
	return false, nil
}

func (f *fakePurchaseRepo) MarkDisputedBySession(ctx context.Context, sessionID string) (bool, error) {
	return false, nil
}

func (f *fakePurchaseRepo) GetRedeemableBySession(ctx context.Context, sessionID string) (*models.Purchase, error) {
	if f.purchase == nil || f.purchase.StripeSessionID != sessionID {
		return nil, apperrors.ErrNotFound
	}
	return f.purchase, nil
}

func (f *fakePurchaseRepo) ConsumeDownload(ctx context.Context, id uuid.UUID) (bool, error) {
	f.consumeCalls++
	return f.consumeOK, nil
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newDownloadRouter(repo *fakePurchaseRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	dc := &DownloadController{
		Purchases: repo,
		Logger:    zap.NewNop(),
		Now:       func() time.Time { return testNow },
	}
	r := gin.New()
	r.GET("/download/:sessionId", dc.RedeemDownload)
	return r
}

func redeemablePurchase() *models.Purchase {
	return &models.Purchase{
		ID:                uuid.New(),
		StripeSessionID:   "cs_123",
		Status:            models.PurchaseStatusCompleted,
		DownloadExpiresAt: testNow.Add(24 * time.Hour),
		DownloadCount:     1,
		MaxDownloads:      5,
		Product: &models.Product{
			ID:                  uuid.New(),
			Title:               "Budget Planner",
			DownloadFileURL:     "https://files.example.com/public.pdf",
			DownloadFileURLPaid: "https://files.example.com/paid.pdf",
		},
	}
}

func getDownload(r *gin.Engine, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/download/"+sessionID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRedeemDownload_Success(t *testing.T) {
	repo := &fakePurchaseRepo{purchase: redeemablePurchase(), consumeOK: true}
	r := newDownloadRouter(repo)

	rec := getDownload(r, "cs_123")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		DownloadURL        string `json:"downloadUrl"`
		DownloadsRemaining int    `json:"downloadsRemaining"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://files.example.com/paid.pdf", resp.DownloadURL, "paid file is preferred")
	assert.Equal(t, 3, resp.DownloadsRemaining)
	assert.Equal(t, 1, repo.consumeCalls)
}

func TestRedeemDownload_NotFound(t *testing.T) {
	repo := &fakePurchaseRepo{}
	r := newDownloadRouter(repo)

	rec := getDownload(r, "cs_missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, repo.consumeCalls)
}

func TestRedeemDownload_Expired(t *testing.T) {
	purchase := redeemablePurchase()
	purchase.DownloadExpiresAt = testNow.Add(-time.Hour)
	repo := &fakePurchaseRepo{purchase: purchase, consumeOK: true}
	r := newDownloadRouter(repo)

	rec := getDownload(r, "cs_123")
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Zero(t, repo.consumeCalls, "expired redemption must not touch the counter")
}

func TestRedeemDownload_LimitExceeded(t *testing.T) {
	purchase := redeemablePurchase()
	purchase.DownloadCount = purchase.MaxDownloads
	repo := &fakePurchaseRepo{purchase: purchase, consumeOK: true}
	r := newDownloadRouter(repo)

	rec := getDownload(r, "cs_123")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Zero(t, repo.consumeCalls)
}

func TestRedeemDownload_LostRaceRejected(t *testing.T) {
	// The read saw download_count below the maximum, but a concurrent
	// request consumed the last slot before our conditional update ran.
	repo := &fakePurchaseRepo{purchase: redeemablePurchase(), consumeOK: false}
	r := newDownloadRouter(repo)

	rec := getDownload(r, "cs_123")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, repo.consumeCalls)
}

func TestRedeemDownload_NoFileAvailable(t *testing.T) {
	purchase := redeemablePurchase()
	purchase.Product.DownloadFileURL = ""
	purchase.Product.DownloadFileURLPaid = ""
	repo := &fakePurchaseRepo{purchase: purchase, consumeOK: true}
	r := newDownloadRouter(repo)

	rec := getDownload(r, "cs_123")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, repo.consumeCalls, "missing file must not burn a download")
}
