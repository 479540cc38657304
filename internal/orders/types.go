package orders

import "time"

// Order statuses. Cancelled is terminal: normal update paths refuse to move
// an order out of it.
const (
	StatusNotProcessed = "Not processed"
	StatusProcessing   = "Processing"
	StatusShipped      = "Shipped"
	StatusDelivered    = "Delivered"
	StatusCancelled    = "Cancelled"
)

// Payment statuses.
const (
	PaymentPending  = "Pending"
	PaymentPaid     = "Paid"
	PaymentFailed   = "Failed"
	PaymentRefunded = "Refunded"
)

// OrderItem is a line item enriched with catalog pricing at placement time.
type OrderItem struct {
	ProductID  string  `dynamodbav:"product_id" json:"productId"`
	Name       string  `dynamodbav:"name" json:"name"`
	Quantity   int     `dynamodbav:"quantity" json:"quantity"`
	UnitPrice  float64 `dynamodbav:"unit_price" json:"unitPrice"`
	Discount   float64 `dynamodbav:"discount" json:"discount"` // percent
	TotalPrice float64 `dynamodbav:"total_price" json:"totalPrice"`
}

// PaymentDetails records the gateway side of the order. OrderID is the
// external reference the gateway returned.
type PaymentDetails struct {
	OrderID              string     `dynamodbav:"order_id" json:"orderId"`
	PaymentMethod        string     `dynamodbav:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	PaymentStatus        string     `dynamodbav:"payment_status" json:"paymentStatus"`
	TransactionDate      *time.Time `dynamodbav:"transaction_date,omitempty" json:"transactionDate,omitempty"`
	TransactionReference string     `dynamodbav:"transaction_reference,omitempty" json:"transactionReference,omitempty"`
}

// ShippingDetails is the order's postal destination plus fulfilment fields
// the admin fills in later.
type ShippingDetails struct {
	AddressLine1     string     `dynamodbav:"address_line1" json:"addressLine1"`
	AddressLine2     string     `dynamodbav:"address_line2,omitempty" json:"addressLine2,omitempty"`
	City             string     `dynamodbav:"city" json:"city"`
	State            string     `dynamodbav:"state" json:"state"`
	ZipCode          string     `dynamodbav:"zip_code" json:"zipCode"`
	Country          string     `dynamodbav:"country" json:"country"`
	Carrier          string     `dynamodbav:"carrier,omitempty" json:"carrier,omitempty"`
	TrackingNumber   string     `dynamodbav:"tracking_number,omitempty" json:"trackingNumber,omitempty"`
	ShipmentDate     *time.Time `dynamodbav:"shipment_date,omitempty" json:"shipmentDate,omitempty"`
	ExpectedDelivery *time.Time `dynamodbav:"expected_delivery,omitempty" json:"expectedDelivery,omitempty"`
	ShippingMethod   string     `dynamodbav:"shipping_method,omitempty" json:"shippingMethod,omitempty"`
	ShippingCost     float64    `dynamodbav:"shipping_cost,omitempty" json:"shippingCost,omitempty"`
}

// Order is the document persisted in the orders table.
type Order struct {
	OrderID             string          `dynamodbav:"order_id" json:"orderId"` // PK
	OwnerID             string          `dynamodbav:"owner_id" json:"user"`
	OrderDate           time.Time       `dynamodbav:"order_date" json:"orderDate"`
	Status              string          `dynamodbav:"status" json:"status"`
	Items               []OrderItem     `dynamodbav:"items" json:"orderItems"`
	PersonalizedMessage string          `dynamodbav:"personalized_message,omitempty" json:"personalizedMessage,omitempty"`
	ShippingDetails     ShippingDetails `dynamodbav:"shipping_details" json:"shippingDetails"`
	PaymentDetails      PaymentDetails  `dynamodbav:"payment_details" json:"paymentDetails"`
	Total               float64         `dynamodbav:"total" json:"total"`
	CreatedAt           time.Time       `dynamodbav:"created_at" json:"created"`
	UpdatedAt           time.Time       `dynamodbav:"updated_at" json:"updated"`
}
