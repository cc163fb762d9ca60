package model

// Product is a catalogue product as returned by the commerce backend.
type Product struct {
	ID           string           `json:"id"`
	Handle       string           `json:"handle"`
	Title        string           `json:"title"`
	Subtitle     string           `json:"subtitle,omitempty"`
	Description  string           `json:"description,omitempty"`
	Thumbnail    string           `json:"thumbnail,omitempty"`
	CollectionID string           `json:"collection_id,omitempty"`
	Variants     []ProductVariant `json:"variants,omitempty"`
	Metadata     map[string]any   `json:"metadata,omitempty"`
}

// ProductVariant is a purchasable variant of a product.
type ProductVariant struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	SKU    string         `json:"sku,omitempty"`
	Prices []Price        `json:"prices,omitempty"`
	Meta   map[string]any `json:"metadata,omitempty"`
}

// Price is an amount in minor units for a currency.
type Price struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// Category is a product category.
type Category struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

// Collection is a curated product collection.
type Collection struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Title  string `json:"title"`
}

// Region is a selling region with its currency.
type Region struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CurrencyCode string   `json:"currency_code"`
	Countries    []string `json:"countries,omitempty"`
}

// ProductQuery filters a product listing.
type ProductQuery struct {
	CategoryID   string
	CollectionID string
	RegionID     string
	Limit        int
	Offset       int
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}
