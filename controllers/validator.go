package controllers

import (
	"errors"

	"github.com/georgmattin/kristlinilehekulg/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var allowedSorts = map[string]bool{
	"":           true,
	"price_asc":  true,
	"price_desc": true,
	"rating":     true,
	"newest":     true,
}

// CreateProductRequest defines the expected structure for creating a product.
type CreateProductRequest struct {
	Title           string           `json:"title" validate:"required"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price"`
	Category        string           `json:"category" validate:"required"`
	ImageURL        string           `json:"image_url" validate:"omitempty,url"`
	CustomLink      string           `json:"custom_link" validate:"omitempty,url"`
	Featured        bool             `json:"featured"`
	IsFree          bool             `json:"is_free"`
	DownloadFileURL string           `json:"download_file_url" validate:"omitempty,url"`
}

// UpdateProductRequest carries partial product updates; nil means unchanged.
type UpdateProductRequest struct {
	Title           *string          `json:"title"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price"`
	Category        *string          `json:"category"`
	ImageURL        *string          `json:"image_url" validate:"omitempty,url"`
	CustomLink      *string          `json:"custom_link"`
	Featured        *bool            `json:"featured"`
	Status          *string          `json:"status" validate:"omitempty,oneof=active inactive"`
	IsFree          *bool            `json:"is_free"`
	DownloadFileURL *string          `json:"download_file_url"`
}

// RequestValidator handles input validation beyond gin's binding tags.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

func (rv *RequestValidator) ValidateStruct(s interface{}) error {
	return rv.validate.Struct(s)
}

// ValidateEmail checks a bare email value outside of struct binding.
func (rv *RequestValidator) ValidateEmail(email string) error {
	return rv.validate.Var(email, "required,email")
}

// ParseFilters validates and parses catalog filter parameters.
func (rv *RequestValidator) ParseFilters(c *gin.Context) (repository.ProductFilters, error) {
	filters := repository.ProductFilters{
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}

	if !allowedSorts[filters.Sort] {
		return filters, errors.New("invalid sort parameter")
	}

	switch c.Query("featured") {
	case "":
	case "true":
		v := true
		filters.Featured = &v
	case "false":
		v := false
		filters.Featured = &v
	default:
		return filters, errors.New("invalid featured parameter")
	}

	return filters, nil
}
