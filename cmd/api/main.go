package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Creatishin/flora-knots-be/internal/aws"
	"github.com/Creatishin/flora-knots-be/internal/catalog"
	"github.com/Creatishin/flora-knots-be/internal/contacts"
	"github.com/Creatishin/flora-knots-be/internal/handlers"
	"github.com/Creatishin/flora-knots-be/internal/hooks"
	"github.com/Creatishin/flora-knots-be/internal/logging"
	"github.com/Creatishin/flora-knots-be/internal/metrics"
	"github.com/Creatishin/flora-knots-be/internal/orders"
	"github.com/Creatishin/flora-knots-be/internal/payment"
	"github.com/Creatishin/flora-knots-be/internal/storage"
	"github.com/Creatishin/flora-knots-be/internal/testimonies"
	"github.com/Creatishin/flora-knots-be/internal/validation"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrderRoutes(r, cfg)
	handlers.RegisterProductRoutes(r, cfg)
	handlers.RegisterCategoryRoutes(r, cfg)
	handlers.RegisterTestimonyRoutes(r, cfg)
	handlers.RegisterContactRoutes(r, cfg)

	return r
}

func main() {
	logger := logging.New("flora-knots-api")
	defer logger.Sync()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	products := catalog.NewProductStore(clients.DynamoDB, os.Getenv("PRODUCTS_TABLE"))
	categories := catalog.NewCategoryStore(clients.DynamoDB, os.Getenv("CATEGORIES_TABLE"))
	orderStore := orders.NewStore(clients.DynamoDB, os.Getenv("ORDERS_TABLE"))

	keyID, keySecret := os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		logger.Warn("razorpay credentials missing, order placement will fail")
	}
	gateway := payment.NewRazorpay(keyID, keySecret)

	// Sales-counter hooks run through SQS when a queue is configured,
	// otherwise on an in-process runner.
	var dispatcher hooks.Dispatcher
	if queueURL := os.Getenv("HOOKS_QUEUE_URL"); queueURL != "" {
		dispatcher = hooks.NewSQSDispatcher(clients.SQS, queueURL, logger)
	} else {
		runner := hooks.NewRunner(products, logger)
		runner.Start(context.Background())
		defer runner.Stop()
		dispatcher = runner
	}

	cfg := handlers.HandlerConfig{
		Orders:      orders.NewService(orderStore, products, gateway, dispatcher, logger),
		Products:    products,
		Categories:  categories,
		Testimonies: testimonies.NewStore(clients.DynamoDB, os.Getenv("TESTIMONIES_TABLE")),
		Contacts:    contacts.NewStore(clients.DynamoDB, os.Getenv("CONTACTS_TABLE")),
		Storage:     storage.New(clients.S3, clients.CloudFront, os.Getenv("IMAGE_BUCKET"), os.Getenv("CDN_DISTRIBUTION_ID"), logger),
		Metrics:     metrics.NewRecorder(clients.CloudWatch, "FloraKnots", logger),
		Validator:   validation.New(),
		Log:         logger,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		logger.Info("running local server", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
