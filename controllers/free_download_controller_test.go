package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/georgmattin/kristlinilehekulg/models"
	"github.com/georgmattin/kristlinilehekulg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSiteRepo struct {
	freeDownloads []*models.FreeDownload
}

func (f *fakeSiteRepo) Subscribe(ctx context.Context, email string) error { return nil }

func (f *fakeSiteRepo) ListSocialLinks(ctx context.Context) ([]*models.SocialMediaLink, error) {
	return nil, nil
}

func (f *fakeSiteRepo) CreateFreeDownload(ctx context.Context, record *models.FreeDownload) error {
	f.freeDownloads = append(f.freeDownloads, record)
	return nil
}

type fakeEmailSender struct {
	sent []string
}

func (f *fakeEmailSender) SendEmail(ctx context.Context, to, subject, body string) (services.SendResult, error) {
	f.sent = append(f.sent, to)
	return services.SendResult{MessageID: "test"}, nil
}

func newFreeDownloadRouter(products *fakeProductRepo, site *fakeSiteRepo, mailer *fakeEmailSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	fc := &FreeDownloadController{
		Products: products,
		Site:     site,
		Mailer:   mailer,
		Logger:   zap.NewNop(),
	}
	r := gin.New()
	r.POST("/free-download", fc.RequestFreeDownload)
	return r
}

func postFreeDownload(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/free-download", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequestFreeDownload_Success(t *testing.T) {
	productID := uuid.New()
	products := &fakeProductRepo{products: map[uuid.UUID]*models.Product{
		productID: {
			ID:              productID,
			Title:           "Free Guide",
			IsFree:          true,
			Status:          models.ProductStatusActive,
			DownloadFileURL: "https://files.example.com/guide.pdf",
		},
	}}
	site := &fakeSiteRepo{}
	mailer := &fakeEmailSender{}
	r := newFreeDownloadRouter(products, site, mailer)

	before := time.Now()
	rec := postFreeDownload(t, r, `{"productId":"`+productID.String()+`","email":"a@b.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		DownloadURL string `json:"downloadUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://files.example.com/guide.pdf", resp.DownloadURL)

	require.Len(t, site.freeDownloads, 1)
	record := site.freeDownloads[0]
	assert.Equal(t, productID, record.ProductID)
	assert.Equal(t, "a@b.com", record.Email)
	assert.Equal(t, "https://files.example.com/guide.pdf", record.DownloadLink)

	wantExpiry := before.Add(models.DownloadLinkTTL)
	assert.WithinDuration(t, wantExpiry, record.ExpiresAt, time.Minute)

	assert.Equal(t, []string{"a@b.com"}, mailer.sent)
}

func TestRequestFreeDownload_PaidProductRejected(t *testing.T) {
	productID := uuid.New()
	products := &fakeProductRepo{products: map[uuid.UUID]*models.Product{
		productID: {
			ID:              productID,
			Title:           "Budget Planner",
			IsFree:          false,
			Status:          models.ProductStatusActive,
			DownloadFileURL: "https://files.example.com/planner.pdf",
		},
	}}
	site := &fakeSiteRepo{}
	mailer := &fakeEmailSender{}
	r := newFreeDownloadRouter(products, site, mailer)

	rec := postFreeDownload(t, r, `{"productId":"`+productID.String()+`","email":"a@b.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, site.freeDownloads, "paid products are fulfilled through checkout only")
	assert.Empty(t, mailer.sent)
}

func TestRequestFreeDownload_NoFileAvailable(t *testing.T) {
	productID := uuid.New()
	products := &fakeProductRepo{products: map[uuid.UUID]*models.Product{
		productID: {
			ID:     productID,
			Title:  "Free Guide",
			IsFree: true,
			Status: models.ProductStatusActive,
		},
	}}
	site := &fakeSiteRepo{}
	mailer := &fakeEmailSender{}
	r := newFreeDownloadRouter(products, site, mailer)

	rec := postFreeDownload(t, r, `{"productId":"`+productID.String()+`","email":"a@b.com"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, site.freeDownloads)
	assert.Empty(t, mailer.sent)
}

func TestRequestFreeDownload_UnknownProductNotFound(t *testing.T) {
	products := &fakeProductRepo{products: map[uuid.UUID]*models.Product{}}
	site := &fakeSiteRepo{}
	r := newFreeDownloadRouter(products, site, &fakeEmailSender{})

	rec := postFreeDownload(t, r, `{"productId":"`+uuid.NewString()+`","email":"a@b.com"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, site.freeDownloads)
}
