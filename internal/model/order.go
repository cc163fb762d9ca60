package model

import "time"

// Order is the immutable record created when a cart completes.
type Order struct {
	ID                 string              `json:"id"`
	CartID             string              `json:"cart_id,omitempty"`
	DisplayID          int                 `json:"display_id,omitempty"`
	CustomerID         string              `json:"customer_id"`
	Email              string              `json:"email"`
	RegionID           string              `json:"region_id"`
	CurrencyCode       string              `json:"currency_code"`
	Items              []LineItem          `json:"items"`
	ShippingAddress    *Address            `json:"shipping_address,omitempty"`
	PaymentCollections []PaymentCollection `json:"payment_collections,omitempty"`
	Subtotal           int64               `json:"subtotal"`
	ShippingTotal      int64               `json:"shipping_total"`
	TaxTotal           int64               `json:"tax_total"`
	Total              int64               `json:"total"`
	CreatedAt          time.Time           `json:"created_at"`
}

// PaymentCollection groups the payments captured for an order.
type PaymentCollection struct {
	ID       string    `json:"id"`
	Payments []Payment `json:"payments"`
}

// Payment is a single processor payment within a collection.
type Payment struct {
	ID         string         `json:"id"`
	ProviderID string         `json:"provider_id"`
	Amount     int64          `json:"amount"`
	Data       map[string]any `json:"data,omitempty"`
}

// ShippingAddressID returns the id of the order's shipping address, or "".
func (o *Order) ShippingAddressID() string {
	if o == nil || o.ShippingAddress == nil {
		return ""
	}
	return o.ShippingAddress.ID
}

// CompleteCartResult is the commerce backend's answer to a completion request.
// Type is "order" on success; otherwise the cart is returned with an error.
type CompleteCartResult struct {
	Type  string `json:"type"`
	Order *Order `json:"order,omitempty"`
	Cart  *Cart  `json:"cart,omitempty"`
	Error string `json:"error,omitempty"`
}
