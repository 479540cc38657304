package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Creatishin/flora-knots-be/internal/auth"
	"github.com/Creatishin/flora-knots-be/internal/images"
	"github.com/Creatishin/flora-knots-be/internal/testimonies"
)

// RegisterTestimonyRoutes registers the /testimony routes.
func RegisterTestimonyRoutes(r *gin.Engine, cfg HandlerConfig) {
	g := r.Group("/testimony")

	g.GET("", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := cfg.Testimonies.List(ctx)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if list == nil {
			list = []testimonies.Testimony{}
		}
		c.JSON(http.StatusOK, list)
	})

	admin := g.Group("", auth.Middleware(), auth.RequireRole(auth.RoleAdmin))

	admin.POST("/add", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		count, err := cfg.Testimonies.Count(ctx)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if count >= testimonies.MaxImages {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum 10 testimony images allowed."})
			return
		}

		upload, ok, err := formUpload(c, "image")
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed!"})
			return
		}

		compressed, err := images.CompressSingle(upload, images.VariantPortrait)
		if err != nil {
			respondImageError(c, cfg.Log, err, msgImageProcessingFailed)
			return
		}
		key, err := cfg.Storage.Upload(ctx, "testimony", compressed)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		cfg.Metrics.ImagesCompressed(ctx, 1)

		t := &testimonies.Testimony{
			TestimonyID: uuid.New().String(),
			ImageKey:    key,
		}
		if err := cfg.Testimonies.Put(ctx, t); err != nil {
			respondError(c, cfg.Log, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":   true,
			"message":   "Testimony image uploaded successfully!",
			"testimony": t,
		})
	})

	admin.DELETE("/delete/:id", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		t, err := cfg.Testimonies.Delete(ctx, c.Param("id"))
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if t == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Testimony not found."})
			return
		}
		if t.ImageKey != "" {
			cfg.Storage.Remove(ctx, t.ImageKey)
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Testimony image deleted successfully!",
		})
	})
}
