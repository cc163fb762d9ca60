package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"storefront/internal/archive"
	"storefront/internal/billing"
	"storefront/internal/companion"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Line item metadata keys carrying subscription terms.
const (
	metaIsSubscription = "is_subscription"
	metaInterval       = "subscription_interval"
	metaIntervalCount  = "subscription_interval_count"
	metaTrialDays      = "trial_period_days"
)

const subscriptionSource = "storefront-checkout"

var errNoCustomer = errors.New("order has no customer id")

// subscriptionService implements SubscriptionService.
type subscriptionService struct {
	api        companion.SubscriptionAPI
	alerts     AlertDispatcher
	recovery   RecoveryService
	reports    archive.Writer
	providerID string
	now        func() time.Time
	logger     zerolog.Logger
}

// NewSubscriptionService creates a new subscription side-effect handler.
// providerID is the processor whose payment method token is forwarded.
func NewSubscriptionService(
	api companion.SubscriptionAPI,
	alerts AlertDispatcher,
	recovery RecoveryService,
	reports archive.Writer,
	providerID string,
	logger zerolog.Logger,
) SubscriptionService {
	return &subscriptionService{
		api:        api,
		alerts:     alerts,
		recovery:   recovery,
		reports:    reports,
		providerID: providerID,
		now:        time.Now,
		logger:     logger.With().Str("service", "subscription").Logger(),
	}
}

// AfterOrder creates a subscription when the completed cart had subscription
// items. A cart without them is a silent no-op.
func (s *subscriptionService) AfterOrder(ctx context.Context, cart *model.Cart, order *model.Order) {
	var items []model.LineItem
	if cart != nil {
		items = subscriptionItems(cart.Items)
	}
	if len(items) == 0 {
		s.logger.Debug().Str("order_id", order.ID).Msg("no subscription items in order")
		return
	}

	req, err := s.buildRequest(cart, order, items)
	if err != nil {
		s.handleFailure(ctx, cart, order, items, err)
		return
	}

	sub, err := s.api.CreateSubscription(ctx, req)
	if err != nil {
		s.handleFailure(ctx, cart, order, items, err)
		return
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("subscription_id", sub.ID).
		Str("interval", req.Interval).
		Int("interval_count", req.IntervalCount).
		Time("next_billing_date", req.NextBillingDate).
		Msg("subscription created")
}

func (s *subscriptionService) buildRequest(cart *model.Cart, order *model.Order, items []model.LineItem) (*model.SubscriptionRequest, error) {
	customerID := order.CustomerID
	if customerID == "" {
		customerID = cart.CustomerID
	}
	if customerID == "" {
		return nil, errNoCustomer
	}

	first := items[0].Metadata
	interval := billing.ParseInterval(metaString(first, metaInterval))
	count := metaInt(first, metaIntervalCount, 1)
	trialDays := metaInt(first, metaTrialDays, 0)

	for _, item := range items[1:] {
		if billing.ParseInterval(metaString(item.Metadata, metaInterval)) != interval ||
			metaInt(item.Metadata, metaIntervalCount, 1) != count ||
			metaInt(item.Metadata, metaTrialDays, 0) != trialDays {
			s.logger.Warn().
				Str("order_id", order.ID).
				Str("variant_id", item.VariantID).
				Msg("subscription items have differing terms, using the first item's")
			break
		}
	}

	schedule := billing.NewSchedule(s.now(), interval, count, trialDays)

	req := &model.SubscriptionRequest{
		CustomerID:        customerID,
		Interval:          string(schedule.Interval),
		IntervalCount:     schedule.IntervalCount,
		Amount:            order.Total,
		CurrencyCode:      order.CurrencyCode,
		VariantIDs:        make([]string, 0, len(items)),
		ProductIDs:        make([]string, 0, len(items)),
		Quantities:        make(map[string]int, len(items)),
		RegionID:          order.RegionID,
		ShippingAddressID: order.ShippingAddressID(),
		PaymentMethodID:   paymentMethodToken(order, s.providerID),
		TrialPeriodDays:   schedule.TrialPeriodDays,
		TrialEnd:          schedule.TrialEnd,
		NextBillingDate:   schedule.NextBillingDate,
		Metadata: map[string]string{
			"order_id":       order.ID,
			"customer_id":    customerID,
			"customer_email": order.Email,
			"source":         subscriptionSource,
		},
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = cart.CurrencyCode
	}
	if req.RegionID == "" {
		req.RegionID = cart.RegionID
	}

	for _, item := range items {
		if _, seen := req.Quantities[item.VariantID]; !seen {
			req.VariantIDs = append(req.VariantIDs, item.VariantID)
			if item.ProductID != "" {
				req.ProductIDs = append(req.ProductIDs, item.ProductID)
			}
		}
		req.Quantities[item.VariantID] += item.Quantity
	}

	return req, nil
}

// handleFailure logs, alerts, records and archives a failed subscription.
// Each step is best-effort; the order stays successful.
func (s *subscriptionService) handleFailure(ctx context.Context, cart *model.Cart, order *model.Order, items []model.LineItem, cause error) {
	customerID := order.CustomerID
	if customerID == "" && cart != nil {
		customerID = cart.CustomerID
	}

	failure := &model.SubscriptionFailure{
		ID:            uuid.New(),
		OrderID:       order.ID,
		CustomerID:    customerID,
		CustomerEmail: order.Email,
		OrderTotal:    order.Total,
		CurrencyCode:  order.CurrencyCode,
		ErrorMessage:  cause.Error(),
		CreatedAt:     s.now().UTC(),
		Items:         make([]model.SubscriptionFailureItem, 0, len(items)),
	}
	failure.RecoveryInstructions = recoveryInstructions(failure)
	for _, item := range items {
		failure.Items = append(failure.Items, model.SubscriptionFailureItem{
			ID:        uuid.New(),
			FailureID: failure.ID,
			VariantID: item.VariantID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	s.logger.Error().
		Err(cause).
		Str("stack", string(debug.Stack())).
		Str("failure_id", failure.ID.String()).
		Str("order_id", failure.OrderID).
		Str("customer_id", failure.CustomerID).
		Str("customer_email", failure.CustomerEmail).
		Int64("order_total", failure.OrderTotal).
		Str("currency", failure.CurrencyCode).
		Interface("subscription_items", failure.Items).
		Str("recovery_instructions", failure.RecoveryInstructions).
		Msg("subscription creation failed after successful order")

	s.alerts.Dispatch(ctx, model.AdminAlert{
		Subject:  fmt.Sprintf("Subscription creation failed for order %s", order.ID),
		Message:  failure.RecoveryInstructions,
		Severity: "high",
		Data: map[string]any{
			"failure_id":     failure.ID.String(),
			"order_id":       failure.OrderID,
			"customer_id":    failure.CustomerID,
			"customer_email": failure.CustomerEmail,
			"order_total":    failure.OrderTotal,
			"currency_code":  failure.CurrencyCode,
			"error":          failure.ErrorMessage,
			"items":          failure.Items,
		},
	})

	if err := s.recovery.Record(ctx, failure); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to record subscription failure")
	}

	if location, err := s.reports.Write(ctx, archive.ReportKey(failure), failure); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to archive recovery report")
	} else {
		s.logger.Info().Str("order_id", order.ID).Str("location", location).Msg("recovery report archived")
	}
}

func recoveryInstructions(failure *model.SubscriptionFailure) string {
	return fmt.Sprintf(
		"Payment for order %s succeeded but no subscription was created. "+
			"Create the subscription manually from the order in the admin dashboard, "+
			"then mark this record resolved with POST /admin/subscription-failures/%s/resolve.",
		failure.OrderID, failure.ID,
	)
}

// subscriptionItems returns the line items flagged as subscriptions.
func subscriptionItems(items []model.LineItem) []model.LineItem {
	var flagged []model.LineItem
	for _, item := range items {
		if isSubscription(item.Metadata) {
			flagged = append(flagged, item)
		}
	}
	return flagged
}

func isSubscription(meta map[string]any) bool {
	switch v := meta[metaIsSubscription].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// paymentMethodToken returns the payment method recorded by the processor, or
// "" when the order was paid through another provider.
func paymentMethodToken(order *model.Order, providerID string) string {
	for _, collection := range order.PaymentCollections {
		for _, payment := range collection.Payments {
			if payment.ProviderID != providerID {
				continue
			}
			if token, ok := payment.Data["payment_method"].(string); ok && token != "" {
				return token
			}
		}
	}
	return ""
}

func metaString(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

// metaInt reads an integer that may have been stored as a number or a string.
func metaInt(meta map[string]any, key string, fallback int) int {
	switch v := meta[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}
