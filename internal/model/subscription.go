package model

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionRequest is the payload sent to the companion backend after an
// order containing subscription items completes.
type SubscriptionRequest struct {
	CustomerID        string            `json:"customer_id"`
	Interval          string            `json:"interval"`
	IntervalCount     int               `json:"interval_count"`
	Amount            int64             `json:"amount"`
	CurrencyCode      string            `json:"currency_code"`
	VariantIDs        []string          `json:"variant_ids"`
	ProductIDs        []string          `json:"product_ids"`
	Quantities        map[string]int    `json:"quantities"`
	RegionID          string            `json:"region_id"`
	ShippingAddressID string            `json:"shipping_address_id,omitempty"`
	PaymentMethodID   string            `json:"payment_method_id,omitempty"`
	TrialPeriodDays   int               `json:"trial_period_days"`
	TrialEnd          *time.Time        `json:"trial_end,omitempty"`
	NextBillingDate   time.Time         `json:"next_billing_date"`
	Metadata          map[string]string `json:"metadata"`
}

// Subscription is the companion backend's view of a created subscription.
type Subscription struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	NextBillingDate time.Time `json:"next_billing_date"`
}

// AdminAlert is a best-effort operational notification.
type AdminAlert struct {
	Subject  string         `json:"subject"`
	Message  string         `json:"message"`
	Severity string         `json:"severity"`
	Data     map[string]any `json:"data,omitempty"`
}

// SubscriptionFailure records an order whose subscription could not be created.
type SubscriptionFailure struct {
	ID                   uuid.UUID                 `json:"id" db:"id"`
	OrderID              string                    `json:"orderId" db:"order_id"`
	CustomerID           string                    `json:"customerId" db:"customer_id"`
	CustomerEmail        string                    `json:"customerEmail" db:"customer_email"`
	OrderTotal           int64                     `json:"orderTotal" db:"order_total"`
	CurrencyCode         string                    `json:"currencyCode" db:"currency_code"`
	ErrorMessage         string                    `json:"errorMessage" db:"error_message"`
	RecoveryInstructions string                    `json:"recoveryInstructions" db:"recovery_instructions"`
	CreatedAt            time.Time                 `json:"createdAt" db:"created_at"`
	ResolvedAt           *time.Time                `json:"resolvedAt,omitempty" db:"resolved_at"`
	Items                []SubscriptionFailureItem `json:"items"`
}

// SubscriptionFailureItem is a subscription line item of a failed order.
type SubscriptionFailureItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	FailureID uuid.UUID `json:"-" db:"failure_id"`
	VariantID string    `json:"variantId" db:"variant_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
}
