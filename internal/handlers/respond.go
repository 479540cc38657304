package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Creatishin/flora-knots-be/internal/apperr"
)

// respondError writes the error in the storefront's shape: not-found
// responses carry "message", everything else carries "error". Processing
// failures are logged with their cause; the caller only sees the generic
// message.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	if apperr.KindOf(err) == apperr.KindProcessing {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	status := apperr.HTTPStatus(err)
	if status == http.StatusNotFound {
		c.JSON(status, gin.H{"message": apperr.UserMessage(err)})
		return
	}
	c.JSON(status, gin.H{"error": apperr.UserMessage(err)})
}

const (
	msgImageProcessingFailed  = "Image processing failed"
	msgImageCompressionFailed = "Image compression failed"
)

// respondImageError is respondError with the image pipeline's mapping: a
// processing failure there is a server fault, not a caller fault. Single
// uploads report msgImageProcessingFailed, batch uploads
// msgImageCompressionFailed.
func respondImageError(c *gin.Context, log *zap.Logger, err error, msg string) {
	if apperr.KindOf(err) == apperr.KindProcessing {
		log.Error("image processing failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
		return
	}
	respondError(c, log, err)
}
