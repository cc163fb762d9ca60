package model

// Cart is the commerce backend's pre-order basket.
type Cart struct {
	ID              string           `json:"id"`
	Email           string           `json:"email,omitempty"`
	CustomerID      string           `json:"customer_id,omitempty"`
	RegionID        string           `json:"region_id,omitempty"`
	CurrencyCode    string           `json:"currency_code,omitempty"`
	Items           []LineItem       `json:"items"`
	ShippingAddress *Address         `json:"shipping_address,omitempty"`
	BillingAddress  *Address         `json:"billing_address,omitempty"`
	ShippingMethods []ShippingMethod `json:"shipping_methods,omitempty"`
	PaymentSessions []PaymentSession `json:"payment_sessions"`
	PaymentSession  *PaymentSession  `json:"payment_session,omitempty"`
	Subtotal        int64            `json:"subtotal"`
	ShippingTotal   int64            `json:"shipping_total"`
	TaxTotal        int64            `json:"tax_total"`
	Total           int64            `json:"total"`
}

// LineItem is one variant/quantity entry within a cart or order.
type LineItem struct {
	ID        string         `json:"id"`
	Title     string         `json:"title,omitempty"`
	VariantID string         `json:"variant_id"`
	ProductID string         `json:"product_id,omitempty"`
	Quantity  int            `json:"quantity"`
	UnitPrice int64          `json:"unit_price"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Address is a shipping or billing address as the commerce backend stores it.
type Address struct {
	ID          string `json:"id,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address_1"`
	Address2    string `json:"address_2,omitempty"`
	City        string `json:"city"`
	Province    string `json:"province,omitempty"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone,omitempty"`
}

// ShippingMethod is a shipping option applied to a cart.
type ShippingMethod struct {
	ID               string `json:"id"`
	ShippingOptionID string `json:"shipping_option_id"`
	Price            int64  `json:"price"`
}

// ShippingOption is an option the customer may choose for a cart.
type ShippingOption struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// PaymentSession links a cart to an in-progress payment processor transaction.
type PaymentSession struct {
	ID         string         `json:"id,omitempty"`
	ProviderID string         `json:"provider_id"`
	Status     string         `json:"status,omitempty"`
	IsSelected bool           `json:"is_selected,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// ClientSecret returns the processor client secret carried by the session, if any.
func (p *PaymentSession) ClientSecret() string {
	if p == nil || p.Data == nil {
		return ""
	}
	secret, _ := p.Data["client_secret"].(string)
	return secret
}

// HasPaymentSessions reports whether the cart holds at least one payment session.
func (c *Cart) HasPaymentSessions() bool {
	return c != nil && len(c.PaymentSessions) > 0
}

// FindPaymentSession returns the session for the given provider, or nil.
func (c *Cart) FindPaymentSession(providerID string) *PaymentSession {
	if c == nil {
		return nil
	}
	for i := range c.PaymentSessions {
		if c.PaymentSessions[i].ProviderID == providerID {
			return &c.PaymentSessions[i]
		}
	}
	return nil
}

// CartUpdate is the body for updating cart fields during checkout.
type CartUpdate struct {
	Email           string   `json:"email,omitempty"`
	RegionID        string   `json:"region_id,omitempty"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`
	BillingAddress  *Address `json:"billing_address,omitempty"`
}

// LineItemRequest is a single item to add to a cart.
type LineItemRequest struct {
	VariantID string         `json:"variant_id"`
	Quantity  int            `json:"quantity"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
