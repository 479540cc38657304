package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Creatishin/flora-knots-be/internal/auth"
	"github.com/Creatishin/flora-knots-be/internal/catalog"
	"github.com/Creatishin/flora-knots-be/internal/images"
	"github.com/Creatishin/flora-knots-be/internal/validation"
)

const (
	maxHeroImages    = 2
	maxGalleryImages = 5
)

// RegisterProductRoutes registers the /product routes. Storefront reads are
// public; everything else is role-gated.
func RegisterProductRoutes(r *gin.Engine, cfg HandlerConfig) {
	g := r.Group("/product")

	// Storefront product page lookup. Inactive products are invisible here.
	g.GET("/item/:slug", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		p, err := cfg.Products.GetBySlug(ctx, c.Param("slug"), true)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if p == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "No product found."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": p})
	})

	g.GET("/list/search/:name", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		list, _, err := cfg.Products.List(ctx, catalog.Filter{
			Name:       c.Param("name"),
			ActiveOnly: true,
		})
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": list})
	})

	g.GET("/list", func(c *gin.Context) {
		filter := filterFromQuery(c)
		filter.ActiveOnly = true
		listProducts(c, cfg, filter)
	})

	g.GET("/list/select", auth.Middleware(), func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		names, err := cfg.Products.ListNames(ctx)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": names})
	})

	// Catalog-wide lookup for the admin console, slug without the active
	// filter.
	g.GET("/single/:slug", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		p, err := cfg.Products.GetBySlug(ctx, c.Param("slug"), false)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if p == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "No product found."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": p})
	})

	admin := g.Group("", auth.Middleware(), auth.RequireRole(auth.RoleAdmin))

	admin.GET("", func(c *gin.Context) {
		listProducts(c, cfg, filterFromQuery(c))
	})

	// The admin fetch-by-id lives under /id/ so the param segment does not
	// collide with the static /list and /item routes.
	admin.GET("/id/:id", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		p, err := cfg.Products.GetByID(ctx, c.Param("id"))
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if p == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "No product found."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": p})
	})

	admin.POST("/add", func(c *gin.Context) {
		addProduct(c, cfg)
	})

	admin.PUT("/:id", func(c *gin.Context) {
		updateProduct(c, cfg)
	})

	admin.PUT("/:id/active", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req validation.ProductActiveEnvelope
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}
		if err := cfg.Products.SetActive(ctx, c.Param("id"), req.Product.IsActive); err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product has been updated successfully!",
		})
	})

	admin.DELETE("/delete/:id", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		p, err := cfg.Products.Delete(ctx, c.Param("id"))
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if p == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found."})
			return
		}
		for _, key := range append(p.HeroImage.ImageKeys, p.Images.ImageKeys...) {
			cfg.Storage.Remove(ctx, key)
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product has been deleted successfully!",
			"product": p,
		})
	})
}

func listProducts(c *gin.Context, cfg HandlerConfig, filter catalog.Filter) {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, total, err := cfg.Products.List(ctx, filter)
	if err != nil {
		respondError(c, cfg.Log, err)
		return
	}
	if list == nil {
		list = []catalog.Product{}
	}
	c.JSON(http.StatusOK, gin.H{
		"products": list,
		"pagination": gin.H{
			"total":      total,
			"page":       filter.Page,
			"limit":      filter.Limit,
			"totalPages": int(math.Ceil(float64(total) / float64(filter.Limit))),
		},
	})
}

func filterFromQuery(c *gin.Context) catalog.Filter {
	f := catalog.Filter{
		Name:   c.Query("name"),
		SortBy: sortFromQuery(c.Query("sortBy")),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	}
	if v := c.Query("category_id"); v != "" {
		f.CategoryIDs = strings.Split(v, ",")
	}
	if v := c.Query("product_id"); v != "" {
		f.ProductIDs = strings.Split(v, ",")
	}
	if v := c.Query("featured"); v != "" {
		b := v == "true"
		f.Featured = &b
	}
	if v := c.Query("inStock"); v != "" {
		b := v == "true"
		f.InStock = &b
	}
	return f
}

func sortFromQuery(sortBy string) string {
	switch sortBy {
	case "price_high_to_low":
		return catalog.SortPriceHighToLow
	case "price_low_to_high":
		return catalog.SortPriceLowToHigh
	case "sales_high_to_low":
		return catalog.SortSalesHighToLow
	case "sales_low_to_high", "sales_count":
		return catalog.SortSalesLowToHigh
	default:
		return ""
	}
}

func addProduct(c *gin.Context, cfg HandlerConfig) {
	ctx, cancel := requestContext(c)
	defer cancel()

	name := c.PostForm("name")
	description := c.PostForm("description")
	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)
	if name == "" || description == "" || price == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, description, and price are required."})
		return
	}
	discount, _ := strconv.ParseFloat(c.PostForm("discount"), 64)
	categoryID := c.PostForm("category_id")

	exists, err := cfg.Products.ExistsByName(ctx, name)
	if err != nil {
		respondError(c, cfg.Log, err)
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product already exists."})
		return
	}
	category, err := cfg.Categories.GetByID(ctx, categoryID)
	if err != nil {
		respondError(c, cfg.Log, err)
		return
	}
	if category == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exists."})
		return
	}

	hero, err := formUploads(c, "heroImage")
	if err != nil {
		respondError(c, cfg.Log, err)
		return
	}
	gallery, err := formUploads(c, "images")
	if err != nil {
		respondError(c, cfg.Log, err)
		return
	}
	if len(hero) > maxHeroImages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide 2 hero images."})
		return
	}
	if len(gallery) > maxGalleryImages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide maximum 5 image."})
		return
	}

	batch, err := images.CompressBatch(ctx, hero, gallery)
	if err != nil {
		respondImageError(c, cfg.Log, err, msgImageCompressionFailed)
		return
	}

	heroKeys := make([]string, 0, len(batch.HeroImages))
	for i, img := range batch.HeroImages {
		key, err := cfg.Storage.Upload(ctx, fmt.Sprintf("product/%s/hero-%d", name, i), img)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		heroKeys = append(heroKeys, key)
	}
	galleryKeys := make([]string, 0, len(batch.Images))
	for i, img := range batch.Images {
		key, err := cfg.Storage.Upload(ctx, fmt.Sprintf("product/%s/images-%d", name, i), img)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		galleryKeys = append(galleryKeys, key)
	}
	cfg.Metrics.ImagesCompressed(ctx, len(heroKeys)+len(galleryKeys))

	p := &catalog.Product{
		ProductID:   uuid.New().String(),
		Name:        name,
		Slug:        catalog.Slugify(name),
		Description: description,
		Price:       price,
		Discount:    discount,
		CategoryID:  categoryID,
		HeroImage:   catalog.ImageSet{ImageKeys: heroKeys},
		Images:      catalog.ImageSet{ImageKeys: galleryKeys},
		Attributes: catalog.Attributes{
			Color:    c.PostForm("color"),
			Material: c.PostForm("material"),
			Weight:   c.PostForm("weight"),
		},
		InStock:  formBool(c, "inStock", true),
		IsActive: formBool(c, "isActive", true),
		Featured: formBool(c, "featured", false),
	}
	if err := cfg.Products.Put(ctx, p); err != nil {
		if err == catalog.ErrAlreadyExists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product already exists."})
			return
		}
		respondError(c, cfg.Log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product has been added successfully!",
		"product": p,
	})
}

func updateProduct(c *gin.Context, cfg HandlerConfig) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req validation.ProductEnvelope
	if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
		return
	}
	upd := req.Product

	if len(upd.HeroImage) > 0 && len(upd.HeroImage) != maxHeroImages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide 2 hero images."})
		return
	}
	if len(upd.Images) > maxGalleryImages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide maximum 5 image."})
		return
	}

	p, err := cfg.Products.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, cfg.Log, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No product found."})
		return
	}

	if upd.Name != "" && upd.Name != p.Name {
		p.Name = upd.Name
		p.Slug = catalog.Slugify(upd.Name)
	}
	if upd.Description != "" {
		p.Description = upd.Description
	}
	if upd.Price != 0 {
		p.Price = upd.Price
	}
	if upd.Discount != 0 {
		p.Discount = upd.Discount
	}
	if upd.CategoryID != "" {
		p.CategoryID = upd.CategoryID
	}
	if len(upd.HeroImage) > 0 {
		p.HeroImage = catalog.ImageSet{ImageKeys: upd.HeroImage}
	}
	if len(upd.Images) > 0 {
		p.Images = catalog.ImageSet{ImageKeys: upd.Images}
	}
	if upd.Color != "" {
		p.Attributes.Color = upd.Color
	}
	if upd.Material != "" {
		p.Attributes.Material = upd.Material
	}
	if upd.Weight != "" {
		p.Attributes.Weight = upd.Weight
	}
	if upd.InStock != nil {
		p.InStock = *upd.InStock
	}
	if upd.Featured != nil {
		p.Featured = *upd.Featured
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}

	if err := cfg.Products.Save(ctx, p); err != nil {
		respondError(c, cfg.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product has been updated successfully!",
	})
}

func formBool(c *gin.Context, field string, def bool) bool {
	v := c.PostForm(field)
	if v == "" {
		return def
	}
	return v == "true"
}
