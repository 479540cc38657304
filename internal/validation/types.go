package validation

// OrderItemRequest is a single line in a cart submission. Quantity and
// product resolution are checked by the order service so the response can
// carry the storefront's exact messages.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ShippingDetailsRequest is the postal address of an order. Only line 2 and
// the carrier fields are optional; completeness is enforced by the order
// service.
type ShippingDetailsRequest struct {
	AddressLine1   string  `json:"addressLine1"`
	AddressLine2   string  `json:"addressLine2,omitempty"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	ZipCode        string  `json:"zipCode"`
	Country        string  `json:"country"`
	Carrier        string  `json:"carrier,omitempty"`
	TrackingNumber string  `json:"trackingNumber,omitempty"`
	ShippingMethod string  `json:"shippingMethod,omitempty"`
	ShippingCost   float64 `json:"shippingCost,omitempty"`
}

// PaymentDetailsRequest carries the method the client chose; status and the
// gateway reference are set server-side.
type PaymentDetailsRequest struct {
	PaymentMethod        string `json:"paymentMethod"`
	TransactionReference string `json:"transactionReference,omitempty"`
}

// PlaceOrderRequest is the payload for POST /order/add.
type PlaceOrderRequest struct {
	OrderItems          []OrderItemRequest      `json:"orderItems" validate:"required,min=1"`
	PersonalizedMessage string                  `json:"personalizedMessage,omitempty"`
	ShippingDetails     *ShippingDetailsRequest `json:"shippingDetails"`
	PaymentDetails      *PaymentDetailsRequest  `json:"paymentDetails,omitempty"`
	Total               float64                 `json:"total,omitempty"`
}

// UpdateOrderStatusRequest is the payload for PUT /order/status/:orderId.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePaymentStatusRequest is the payload for PUT /order/paymentStatus/:orderId.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// ProductUpdateRequest is the editable subset for PUT /product/:id.
type ProductUpdateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Discount    float64  `json:"discount"`
	CategoryID  string   `json:"categoryId"`
	HeroImage   []string `json:"heroImage"`
	Images      []string `json:"images"`
	Color       string   `json:"color"`
	Material    string   `json:"material"`
	Weight      string   `json:"weight"`
	InStock     *bool    `json:"inStock"`
	Featured    *bool    `json:"featured"`
	IsActive    *bool    `json:"isActive"`
}

// SetActiveRequest flips an entity's visibility.
type SetActiveRequest struct {
	IsActive bool `json:"isActive"`
}

// ProductEnvelope wraps the update payloads the storefront nests under a
// "product" key.
type ProductEnvelope struct {
	Product ProductUpdateRequest `json:"product"`
}

// ProductActiveEnvelope wraps PUT /product/:id/active payloads.
type ProductActiveEnvelope struct {
	Product SetActiveRequest `json:"product"`
}

// CategoryActiveEnvelope wraps PUT /category/:id/active payloads.
type CategoryActiveEnvelope struct {
	Category SetActiveRequest `json:"category"`
}

// CategoryUpdateRequest is the editable subset for PUT /category/:id.
type CategoryUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

// ContactRequest is the payload for POST /contact/add.
type ContactRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Message     string `json:"message" validate:"required"`
}
