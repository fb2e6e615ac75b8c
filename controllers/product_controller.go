package controllers

import (
	"net/http"

	"github.com/georgmattin/kristlinilehekulg/models"
	"github.com/georgmattin/kristlinilehekulg/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductController struct {
	Repo      repository.ProductRepository
	Cache     *CacheManager
	Validator *RequestValidator
	Logger    *zap.Logger
}

func NewProductController(repo repository.ProductRepository, cache *CacheManager, logger *zap.Logger) *ProductController {
	return &ProductController{
		Repo:      repo,
		Cache:     cache,
		Validator: NewRequestValidator(),
		Logger:    logger,
	}
}

// ListProducts returns the active catalog, optionally filtered and sorted.
func (pc *ProductController) ListProducts(c *gin.Context) {
	filters, err := pc.Validator.ParseFilters(c)
	if err != nil {
		respondError(c, pc.Logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if products, ok := pc.Cache.GetProductList(c.Request.Context(), filters); ok {
		c.JSON(http.StatusOK, gin.H{"products": products, "cached": true})
		return
	}

	products, err := pc.Repo.List(c.Request.Context(), filters)
	if err != nil {
		respondRepoError(c, pc.Logger, err, "Products not found")
		return
	}

	pc.Cache.SetProductListAsync(filters, products)
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, pc.Logger, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	if product, ok := pc.Cache.GetProduct(c.Request.Context(), id.String()); ok {
		c.JSON(http.StatusOK, product)
		return
	}

	product, err := pc.Repo.GetActiveByID(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, pc.Logger, err, "Product not found")
		return
	}

	pc.Cache.SetProductAsync(product)
	c.JSON(http.StatusOK, product)
}

// CreateProduct is an admin operation.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, pc.Logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := pc.Validator.ValidateStruct(req); err != nil {
		respondError(c, pc.Logger, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if !req.IsFree && !req.Price.IsPositive() {
		respondError(c, pc.Logger, http.StatusBadRequest, "Paid product requires a positive price", nil)
		return
	}

	product := &models.Product{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		CustomLink:      req.CustomLink,
		Featured:        req.Featured,
		Status:          models.ProductStatusActive,
		IsFree:          req.IsFree,
		DownloadFileURL: req.DownloadFileURL,
	}
	if err := pc.Repo.Create(c.Request.Context(), product); err != nil {
		respondRepoError(c, pc.Logger, err, "Product not found")
		return
	}

	pc.Cache.Invalidate(c.Request.Context(), "")
	pc.Logger.Info("Product created", zap.String("product_id", product.ID.String()))
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct is an admin operation applying a partial update.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, pc.Logger, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, pc.Logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := pc.Validator.ValidateStruct(req); err != nil {
		respondError(c, pc.Logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	updates := buildProductUpdates(req)
	if len(updates) == 0 {
		respondError(c, pc.Logger, http.StatusBadRequest, "No fields to update", nil)
		return
	}

	affected, err := pc.Repo.Update(c.Request.Context(), id, updates)
	if err != nil {
		respondRepoError(c, pc.Logger, err, "Product not found")
		return
	}
	if affected == 0 {
		respondError(c, pc.Logger, http.StatusNotFound, "Product not found", nil)
		return
	}

	pc.Cache.Invalidate(c.Request.Context(), id.String())
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteProduct is an admin operation; the row is soft-deleted.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, pc.Logger, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	affected, err := pc.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, pc.Logger, err, "Product not found")
		return
	}
	if affected == 0 {
		respondError(c, pc.Logger, http.StatusNotFound, "Product not found", nil)
		return
	}

	pc.Cache.Invalidate(c.Request.Context(), id.String())
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func buildProductUpdates(req UpdateProductRequest) map[string]interface{} {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = *req.OriginalPrice
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.CustomLink != nil {
		updates["custom_link"] = *req.CustomLink
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.IsFree != nil {
		updates["is_free"] = *req.IsFree
	}
	if req.DownloadFileURL != nil {
		updates["download_file_url"] = *req.DownloadFileURL
	}
	return updates
}
