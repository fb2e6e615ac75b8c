package controllers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/georgmattin/kristlinilehekulg/models"
	"github.com/georgmattin/kristlinilehekulg/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type listRecordingRepo struct {
	fakeProductRepo
	lastFilters repository.ProductFilters
	listCalls   int
}

func (f *listRecordingRepo) List(ctx context.Context, filters repository.ProductFilters) ([]*models.Product, error) {
	f.listCalls++
	f.lastFilters = filters
	return []*models.Product{
		{ID: uuid.New(), Title: "Budget Planner", Price: decimal.NewFromFloat(12.50)},
	}, nil
}

func newTestRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: "localhost:0",
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, errors.New("redis disabled in tests")
		},
	})
}

func newProductRouter(repo repository.ProductRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	pc := NewProductController(repo, NewCacheManager(newTestRedisClient(), zap.NewNop()), zap.NewNop())
	r := gin.New()
	r.GET("/products", pc.ListProducts)
	r.GET("/products/:id", pc.GetProduct)
	r.POST("/admin/products", pc.CreateProduct)
	return r
}

func TestListProducts_WithFilters(t *testing.T) {
	repo := &listRecordingRepo{}
	r := newProductRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/products?category=planners&featured=true&sort=price_asc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 1, repo.listCalls)
	assert.Equal(t, "planners", repo.lastFilters.Category)
	require.NotNil(t, repo.lastFilters.Featured)
	assert.True(t, *repo.lastFilters.Featured)
	assert.Equal(t, "price_asc", repo.lastFilters.Sort)
}

func TestListProducts_InvalidSortRejected(t *testing.T) {
	repo := &listRecordingRepo{}
	r := newProductRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/products?sort=bogus", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, repo.listCalls)
}

func TestGetProduct_InvalidID(t *testing.T) {
	r := newProductRouter(&fakeProductRepo{})

	req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct_PaidWithoutPriceRejected(t *testing.T) {
	r := newProductRouter(&fakeProductRepo{})

	body := `{"title": "Planner", "category": "planners", "price": "0", "is_free": false}`
	req := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct_MissingTitleRejected(t *testing.T) {
	r := newProductRouter(&fakeProductRepo{})

	body := `{"category": "planners", "price": "10.00"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
