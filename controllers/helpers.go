package controllers

import (
	"net/http"

	"github.com/georgmattin/kristlinilehekulg/apperrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError logs a warning and writes a JSON error response.
func respondError(c *gin.Context, logger *zap.Logger, status int, msg string, err error) {
	if err != nil {
		logger.Warn(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

// respondRepoError maps a classified data-access error onto the response.
// Not-found keeps its own message; everything else is a server error that
// carries the collaborator's diagnostic text but no secrets.
func respondRepoError(c *gin.Context, logger *zap.Logger, err error, notFoundMsg string) {
	if apperrors.IsNotFound(err) {
		respondError(c, logger, http.StatusNotFound, notFoundMsg, nil)
		return
	}
	logger.Error("Database error", zap.Error(err))
	c.JSON(apperrors.StatusOf(err), gin.H{"error": "Database error", "details": err.Error()})
}
