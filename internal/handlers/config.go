// Package handlers registers the HTTP routes. Handlers stay thin: bind the
// request, call the stores or services, translate errors to the storefront's
// response shapes.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Creatishin/flora-knots-be/internal/catalog"
	"github.com/Creatishin/flora-knots-be/internal/contacts"
	"github.com/Creatishin/flora-knots-be/internal/metrics"
	"github.com/Creatishin/flora-knots-be/internal/orders"
	"github.com/Creatishin/flora-knots-be/internal/storage"
	"github.com/Creatishin/flora-knots-be/internal/testimonies"
)

// requestTimeout bounds every downstream call a handler makes.
const requestTimeout = 10 * time.Second

// HandlerConfig groups the dependencies the route handlers share.
type HandlerConfig struct {
	Orders      *orders.Service
	Products    *catalog.ProductStore
	Categories  *catalog.CategoryStore
	Testimonies *testimonies.Store
	Contacts    *contacts.Store
	Storage     *storage.Store
	Metrics     *metrics.Recorder
	Validator   *validatorv10.Validate
	Log         *zap.Logger
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}
