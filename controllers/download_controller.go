package controllers

import (
	"net/http"
	"time"

	"github.com/georgmattin/kristlinilehekulg/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DownloadController struct {
	Purchases repository.PurchaseRepository
	Logger    *zap.Logger

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (dc *DownloadController) now() time.Time {
	if dc.Now != nil {
		return dc.Now()
	}
	return time.Now()
}

// RedeemDownload gates file access behind expiry and use-count limits. The
// counter increment is a single conditional UPDATE, so concurrent requests
// can never push the count past the maximum.
func (dc *DownloadController) RedeemDownload(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		respondError(c, dc.Logger, http.StatusBadRequest, "Session ID is required", nil)
		return
	}

	purchase, err := dc.Purchases.GetRedeemableBySession(c.Request.Context(), sessionID)
	if err != nil {
		respondRepoError(c, dc.Logger, err, "Purchase not found")
		return
	}

	if purchase.Expired(dc.now()) {
		respondError(c, dc.Logger, http.StatusGone, "Download link has expired", nil)
		return
	}

	if purchase.Exhausted() {
		respondError(c, dc.Logger, http.StatusTooManyRequests, "Download limit exceeded", nil)
		return
	}

	if purchase.Product == nil || purchase.Product.FileURL() == "" {
		respondError(c, dc.Logger, http.StatusNotFound, "Download file not available", nil)
		return
	}

	consumed, err := dc.Purchases.ConsumeDownload(c.Request.Context(), purchase.ID)
	if err != nil {
		respondRepoError(c, dc.Logger, err, "Purchase not found")
		return
	}
	if !consumed {
		// Lost the race against a concurrent redemption.
		respondError(c, dc.Logger, http.StatusTooManyRequests, "Download limit exceeded", nil)
		return
	}

	dc.Logger.Info("Download redeemed",
		zap.String("session_id", sessionID),
		zap.String("purchase_id", purchase.ID.String()),
		zap.Int("download_count", purchase.DownloadCount+1),
	)

	c.JSON(http.StatusOK, gin.H{
		"downloadUrl":        purchase.Product.FileURL(),
		"product":            purchase.Product,
		"downloadsRemaining": purchase.MaxDownloads - purchase.DownloadCount - 1,
		"expiresAt":          purchase.DownloadExpiresAt,
	})
}
