package catalog

import "time"

// BestSellerThreshold is the sales count below which a flagged best seller
// loses the flag when cancellations roll its counter back.
const BestSellerThreshold = 10

// Attributes mirror the storefront's product form fields.
type Attributes struct {
	Color    string `dynamodbav:"color,omitempty" json:"color,omitempty"`
	Material string `dynamodbav:"material,omitempty" json:"material,omitempty"`
	Weight   string `dynamodbav:"weight,omitempty" json:"weight,omitempty"`
}

// ImageSet holds object-store keys; the CDN serves them by key.
type ImageSet struct {
	ImageKeys []string `dynamodbav:"image_keys,omitempty" json:"imageKeys"`
}

// Product is the catalog entry persisted in the products table.
type Product struct {
	ProductID   string     `dynamodbav:"product_id" json:"productId"` // PK
	Name        string     `dynamodbav:"name" json:"name"`
	Slug        string     `dynamodbav:"slug" json:"slug"`
	Description string     `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Price       float64    `dynamodbav:"price" json:"price"`
	Discount    float64    `dynamodbav:"discount" json:"discount"` // percent
	HeroImage   ImageSet   `dynamodbav:"hero_image" json:"heroImage"`
	Images      ImageSet   `dynamodbav:"images" json:"images"`
	CategoryID  string     `dynamodbav:"category_id,omitempty" json:"categoryId,omitempty"`
	Attributes  Attributes `dynamodbav:"attributes" json:"attributes"`
	InStock     bool       `dynamodbav:"in_stock" json:"inStock"`
	IsActive    bool       `dynamodbav:"is_active" json:"isActive"`
	Featured    bool       `dynamodbav:"featured" json:"featured"`
	BestSeller  bool       `dynamodbav:"best_seller" json:"bestSeller"`
	SalesCount  int        `dynamodbav:"sales_count" json:"salesCount"`
	CreatedAt   time.Time  `dynamodbav:"created_at" json:"created"`
	UpdatedAt   time.Time  `dynamodbav:"updated_at" json:"updated"`
}

// NameRef is the projection used by select lists.
type NameRef struct {
	ProductID string `dynamodbav:"product_id" json:"productId"`
	Name      string `dynamodbav:"name" json:"name"`
}

// Category groups products and carries a single storefront image.
type Category struct {
	CategoryID  string    `dynamodbav:"category_id" json:"categoryId"` // PK
	Name        string    `dynamodbav:"name" json:"name"`
	Slug        string    `dynamodbav:"slug" json:"slug"`
	Description string    `dynamodbav:"description,omitempty" json:"description,omitempty"`
	ImageKey    string    `dynamodbav:"image_key,omitempty" json:"imageKey,omitempty"`
	IsActive    bool      `dynamodbav:"is_active" json:"isActive"`
	ProductIDs  []string  `dynamodbav:"product_ids,omitempty" json:"products,omitempty"`
	CreatedAt   time.Time `dynamodbav:"created_at" json:"created"`
	UpdatedAt   time.Time `dynamodbav:"updated_at" json:"updated"`
}

// Sort orders accepted by the product listings.
const (
	SortPriceHighToLow = "price_high_to_low"
	SortPriceLowToHigh = "price_low_to_high"
	SortSalesHighToLow = "sales_high_to_low"
	SortSalesLowToHigh = "sales_low_to_high"
)

// Filter narrows product listings. Nil pointer fields are "don't care".
type Filter struct {
	CategoryIDs []string
	ProductIDs  []string
	Name        string // substring, case-insensitive
	Featured    *bool
	InStock     *bool
	ActiveOnly  bool
	SortBy      string
	Page        int
	Limit       int
}
