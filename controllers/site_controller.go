package controllers

import (
	"net/http"

	"github.com/georgmattin/kristlinilehekulg/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SiteController serves the optional marketing features. Both endpoints
// tolerate their backing table being absent.
type SiteController struct {
	Site      repository.SiteRepository
	Validator *RequestValidator
	Logger    *zap.Logger
}

func NewSiteController(site repository.SiteRepository, logger *zap.Logger) *SiteController {
	return &SiteController{
		Site:      site,
		Validator: NewRequestValidator(),
		Logger:    logger,
	}
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

func (sc *SiteController) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, sc.Logger, http.StatusBadRequest, "Email is required", err)
		return
	}
	if err := sc.Validator.ValidateEmail(req.Email); err != nil {
		respondError(c, sc.Logger, http.StatusBadRequest, "Invalid email address", nil)
		return
	}

	if err := sc.Site.Subscribe(c.Request.Context(), req.Email); err != nil {
		respondRepoError(c, sc.Logger, err, "Subscription unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribed": true})
}

func (sc *SiteController) GetSocialLinks(c *gin.Context) {
	links, err := sc.Site.ListSocialLinks(c.Request.Context())
	if err != nil {
		respondRepoError(c, sc.Logger, err, "Social links unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}
