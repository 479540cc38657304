package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Creatishin/flora-knots-be/internal/contacts"
	"github.com/Creatishin/flora-knots-be/internal/validation"
)

// RegisterContactRoutes registers the /contact routes. Submissions are
// public; the checks stay field-by-field so the storefront can show the
// exact prompt.
func RegisterContactRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.POST("/contact/add", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req validation.ContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your request could not be processed. Please try again."})
			return
		}
		if req.PhoneNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You must enter a phone number."})
			return
		}
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You must enter your name."})
			return
		}
		if req.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You must enter a message."})
			return
		}

		contact := &contacts.Contact{
			ContactID:   uuid.New().String(),
			Name:        req.Name,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Message:     req.Message,
		}
		if err := cfg.Contacts.Put(ctx, contact); err != nil {
			respondError(c, cfg.Log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "We will reach you soon!",
			"contact": contact,
		})
	})
}
