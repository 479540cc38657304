package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Creatishin/flora-knots-be/internal/auth"
	"github.com/Creatishin/flora-knots-be/internal/catalog"
	"github.com/Creatishin/flora-knots-be/internal/images"
	"github.com/Creatishin/flora-knots-be/internal/validation"
)

// RegisterCategoryRoutes registers the /category routes.
func RegisterCategoryRoutes(r *gin.Engine, cfg HandlerConfig) {
	g := r.Group("/category")

	g.GET("/list", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		page := queryInt(c, "page", 1)
		limit := queryInt(c, "limit", 100)
		list, total, err := cfg.Categories.List(ctx, true, page, limit)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if list == nil {
			list = []catalog.Category{}
		}
		c.JSON(http.StatusOK, gin.H{
			"categories": list,
			"pagination": gin.H{
				"total":      total,
				"page":       page,
				"limit":      limit,
				"totalPages": int(math.Ceil(float64(total) / float64(limit))),
			},
		})
	})

	// Category page lookup, with the product names the storefront renders
	// as chips.
	g.GET("/id/:id", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		category, err := cfg.Categories.GetByID(ctx, c.Param("id"))
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if category == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "No Category found."})
			return
		}

		products := make([]catalog.NameRef, 0, len(category.ProductIDs))
		for _, id := range category.ProductIDs {
			p, err := cfg.Products.GetByID(ctx, id)
			if err != nil {
				respondError(c, cfg.Log, err)
				return
			}
			if p != nil {
				products = append(products, catalog.NameRef{ProductID: p.ProductID, Name: p.Name})
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"category": category,
			"products": products,
		})
	})

	admin := g.Group("", auth.Middleware(), auth.RequireRole(auth.RoleAdmin))

	admin.GET("", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		list, _, err := cfg.Categories.List(ctx, false, 1, 1000)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if list == nil {
			list = []catalog.Category{}
		}
		c.JSON(http.StatusOK, gin.H{"categories": list})
	})

	admin.POST("/add", func(c *gin.Context) {
		addCategory(c, cfg)
	})

	admin.PUT("/:id", func(c *gin.Context) {
		updateCategory(c, cfg)
	})

	admin.PUT("/:id/active", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req validation.CategoryActiveEnvelope
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}

		// Deactivating a category hides its products too.
		if !req.Category.IsActive {
			category, err := cfg.Categories.GetByID(ctx, c.Param("id"))
			if err != nil {
				respondError(c, cfg.Log, err)
				return
			}
			if category != nil {
				if err := cfg.Products.SetActiveMany(ctx, category.ProductIDs, false); err != nil {
					respondError(c, cfg.Log, err)
					return
				}
			}
		}

		if err := cfg.Categories.SetActive(ctx, c.Param("id"), req.Category.IsActive); err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Category has been updated successfully!",
		})
	})

	admin.DELETE("/delete/:id", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		category, err := cfg.Categories.Delete(ctx, c.Param("id"))
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if category == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found."})
			return
		}
		if category.ImageKey != "" {
			cfg.Storage.Remove(ctx, category.ImageKey)
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Category has been deleted successfully!",
		})
	})
}

func addCategory(c *gin.Context, cfg HandlerConfig) {
	ctx, cancel := requestContext(c)
	defer cancel()

	name := c.PostForm("name")
	description := c.PostForm("description")
	if name == "" || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You must enter description & name."})
		return
	}

	exists, err := cfg.Categories.ExistsByName(ctx, name)
	if err != nil {
		respondError(c, cfg.Log, err)
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category already exists."})
		return
	}

	var imageKey string
	if upload, ok, err := formUpload(c, "image"); err != nil {
		respondError(c, cfg.Log, err)
		return
	} else if ok {
		compressed, err := images.CompressSingle(upload, images.VariantLandscape)
		if err != nil {
			respondImageError(c, cfg.Log, err, msgImageProcessingFailed)
			return
		}
		imageKey, err = cfg.Storage.Upload(ctx, "category/"+name, compressed)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		cfg.Metrics.ImagesCompressed(ctx, 1)
	}

	category := &catalog.Category{
		CategoryID:  uuid.New().String(),
		Name:        name,
		Slug:        catalog.Slugify(name),
		Description: description,
		ImageKey:    imageKey,
		IsActive:    formBool(c, "isActive", true),
		ProductIDs:  c.PostFormArray("products"),
	}
	if err := cfg.Categories.Put(ctx, category); err != nil {
		if err == catalog.ErrAlreadyExists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category already exists."})
			return
		}
		respondError(c, cfg.Log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Category has been added successfully!",
		"category": category,
	})
}

func updateCategory(c *gin.Context, cfg HandlerConfig) {
	ctx, cancel := requestContext(c)
	defer cancel()

	categoryID := c.Param("id")
	name := c.PostForm("name")
	description := c.PostForm("description")
	slug := c.PostForm("slug")

	if slug != "" {
		found, err := cfg.Categories.GetBySlug(ctx, slug)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if found != nil && found.CategoryID != categoryID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Slug is already in use."})
			return
		}
	}

	category, err := cfg.Categories.GetByID(ctx, categoryID)
	if err != nil {
		respondError(c, cfg.Log, err)
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found."})
		return
	}

	if upload, ok, err := formUpload(c, "image"); err != nil {
		respondError(c, cfg.Log, err)
		return
	} else if ok {
		compressed, err := images.CompressSingle(upload, images.VariantLandscape)
		if err != nil {
			respondImageError(c, cfg.Log, err, msgImageProcessingFailed)
			return
		}
		if category.ImageKey != "" {
			cfg.Storage.Remove(ctx, category.ImageKey)
		}
		keyName := name
		if keyName == "" {
			keyName = category.Name
		}
		key, err := cfg.Storage.Upload(ctx, "category/"+keyName, compressed)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		cfg.Metrics.ImagesCompressed(ctx, 1)
		category.ImageKey = key
	}

	if name != "" {
		category.Name = name
	}
	if description != "" {
		category.Description = description
	}
	if slug != "" {
		category.Slug = slug
	}

	if err := cfg.Categories.Save(ctx, category); err != nil {
		respondError(c, cfg.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Category has been updated successfully!",
		"category": category,
	})
}
