package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/Creatishin/flora-knots-be/internal/aws"
	"github.com/Creatishin/flora-knots-be/internal/catalog"
	"github.com/Creatishin/flora-knots-be/internal/logging"
)

func main() {
	logger := logging.New("flora-knots-worker")
	defer logger.Sync()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	products := catalog.NewProductStore(clients.DynamoDB, os.Getenv("PRODUCTS_TABLE"))
	p := NewProcessor(products, logger)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"type":"order.placed","order_id":"local-order-1","adjustments":[{"product_id":"local-product-1","delta":1}]}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{Body: body}},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
