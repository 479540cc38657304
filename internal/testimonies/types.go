// Package testimonies stores the customer photo wall. The wall is capped at
// ten images; the handlers enforce the cap before uploading.
package testimonies

import "time"

// MaxImages is the storefront's testimony wall capacity.
const MaxImages = 10

// Testimony is one wall entry.
type Testimony struct {
	TestimonyID string    `dynamodbav:"testimony_id" json:"testimonyId"` // PK
	ImageKey    string    `dynamodbav:"image_key" json:"imageKey"`
	CreatedAt   time.Time `dynamodbav:"created_at" json:"created"`
}
