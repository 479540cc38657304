package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Creatishin/flora-knots-be/internal/auth"
	"github.com/Creatishin/flora-knots-be/internal/orders"
	"github.com/Creatishin/flora-knots-be/internal/validation"
)

// RegisterOrderRoutes registers the /order routes. Every route requires a
// signed-in caller.
func RegisterOrderRoutes(r *gin.Engine, cfg HandlerConfig) {
	g := r.Group("/order", auth.Middleware())

	g.POST("/add", auth.RequireRole(auth.RoleMember), func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req validation.PlaceOrderRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}

		id := auth.FromContext(c)
		order, err := cfg.Orders.PlaceOrder(ctx, id.UserID, &req)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		cfg.Metrics.OrderPlaced(ctx, order.Total)

		c.JSON(http.StatusCreated, gin.H{
			"message": "Order created successfully",
			"order":   order,
		})
	})

	g.GET("", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		page := queryInt(c, "page", 1)
		limit := queryInt(c, "limit", 10)

		id := auth.FromContext(c)
		list, count, err := cfg.Orders.ListOrders(ctx, id.UserID, id.Admin(), page, limit)
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		if list == nil {
			list = []orders.Order{}
		}

		c.JSON(http.StatusOK, gin.H{
			"orders":      list,
			"totalPages":  int(math.Ceil(float64(count) / float64(limit))),
			"currentPage": page,
			"count":       count,
		})
	})

	g.GET("/:orderId", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id := auth.FromContext(c)
		order, err := cfg.Orders.GetOrder(ctx, id.UserID, id.Admin(), c.Param("orderId"))
		if err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	})

	g.POST("/cancel/:orderId", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id := auth.FromContext(c)
		if err := cfg.Orders.CancelOrder(ctx, id.UserID, id.Admin(), c.Param("orderId")); err != nil {
			respondError(c, cfg.Log, err)
			return
		}
		cfg.Metrics.OrderCancelled(ctx)

		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	g.PUT("/paymentStatus/:orderId", auth.RequireRole(auth.RoleMember), func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req validation.UpdatePaymentStatusRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}
		status := req.PaymentStatus
		if status == "" {
			status = orders.PaymentPending
		}

		id := auth.FromContext(c)
		if _, err := cfg.Orders.SetPaymentStatus(ctx, id.UserID, id.Admin(), c.Param("orderId"), status); err != nil {
			respondError(c, cfg.Log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Order status has been updated successfully!",
		})
	})

	g.PUT("/status/:orderId", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req validation.UpdateOrderStatusRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}
		status := req.Status
		if status == "" {
			status = orders.StatusCancelled
		}

		if _, err := cfg.Orders.SetStatus(ctx, c.Param("orderId"), status); err != nil {
			respondError(c, cfg.Log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Item status has been updated successfully!",
		})
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}
