package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/commerce"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/transport"

	"github.com/rs/zerolog"
)

// afterOrderTimeout bounds the post-order side effects, which run detached
// from the request so a client disconnect cannot drop a recorded failure.
const afterOrderTimeout = 30 * time.Second

// checkoutService implements CheckoutService.
type checkoutService struct {
	carts         commerce.CartAPI
	states        repository.CheckoutStateRepository
	cartSessions  repository.CartSessionRepository
	subscriptions SubscriptionService
	providerID    string
	logger        zerolog.Logger
}

// NewCheckoutService creates a new checkout service. providerID is the payment
// processor's provider id on the commerce backend.
func NewCheckoutService(
	carts commerce.CartAPI,
	states repository.CheckoutStateRepository,
	cartSessions repository.CartSessionRepository,
	subscriptions SubscriptionService,
	providerID string,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		carts:         carts,
		states:        states,
		cartSessions:  cartSessions,
		subscriptions: subscriptions,
		providerID:    providerID,
		logger:        logger.With().Str("service", "checkout").Logger(),
	}
}

// GetState returns the persisted checkout state with the current cart.
func (s *checkoutService) GetState(ctx context.Context, sessionID string) (*model.ActionResult, error) {
	session, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	result := &model.ActionResult{Success: true, State: session.State(), Order: session.State().Order}

	cartID, err := s.cartSessions.GetCartID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session cart: %w", err)
	}
	if cartID == "" {
		return result, nil
	}

	cart, err := s.carts.RetrieveCart(ctx, cartID)
	if err != nil && !transport.IsNotFound(err) {
		s.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to retrieve cart")
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	result.Cart = cart
	result.ClientSecret = s.clientSecret(cart)

	return result, nil
}

// SubmitInformation stores the customer's contact details on the cart and
// advances to shipping.
func (s *checkoutService) SubmitInformation(ctx context.Context, sessionID string, req *model.InformationRequest) (*model.ActionResult, error) {
	session, cartID, err := s.begin(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state := session.State()

	if err := checkout.Require(state, model.StepInformation); err != nil {
		return s.fail(state, err), nil
	}

	state.CustomerInfo = model.CustomerInfo{
		Email:     strings.TrimSpace(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
	}
	if err := validateCustomerInfo(state.CustomerInfo); err != nil {
		return s.saveAndFail(ctx, session, err)
	}

	cart, err := s.carts.UpdateCart(ctx, cartID, &model.CartUpdate{Email: state.CustomerInfo.Email})
	if err != nil {
		s.logActionError(err, "submit information", cartID)
		return s.saveAndFail(ctx, session, s.userError(err, model.MsgCustomerInfoFailed))
	}

	if err := checkout.Advance(state); err != nil {
		return s.fail(state, err), nil
	}
	if err := session.Save(ctx); err != nil {
		return nil, err
	}

	return &model.ActionResult{Success: true, State: state, Cart: cart}, nil
}

// SubmitAddress stores the shipping (and billing) address and advances to payment.
func (s *checkoutService) SubmitAddress(ctx context.Context, sessionID string, req *model.AddressRequest) (*model.ActionResult, error) {
	session, cartID, err := s.begin(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state := session.State()

	if err := checkout.Require(state, model.StepShipping); err != nil {
		return s.fail(state, err), nil
	}

	state.ShippingAddress = req.Address
	state.UseSameAddress = req.UseSameAddress
	if err := validateAddress(req.Address); err != nil {
		return s.saveAndFail(ctx, session, err)
	}

	shipping := req.Address
	billing := shipping
	if !req.UseSameAddress {
		if req.BillingAddress == nil {
			return s.saveAndFail(ctx, session, model.MissingFieldError("billingAddress"))
		}
		if err := validateAddress(*req.BillingAddress); err != nil {
			return s.saveAndFail(ctx, session, err)
		}
		billing = *req.BillingAddress
	}

	cart, err := s.carts.UpdateCart(ctx, cartID, &model.CartUpdate{
		ShippingAddress: &shipping,
		BillingAddress:  &billing,
	})
	if err != nil {
		s.logActionError(err, "submit address", cartID)
		return s.saveAndFail(ctx, session, s.userError(err, model.MsgAddressFailed))
	}

	if err := checkout.Advance(state); err != nil {
		return s.fail(state, err), nil
	}
	if err := session.Save(ctx); err != nil {
		return nil, err
	}

	return &model.ActionResult{Success: true, State: state, Cart: cart}, nil
}

// SelectShippingMethod applies a shipping option. When the cart has no payment
// sessions they are created, the cart is re-read, and the processor's session
// is selected if present. The step stays at payment.
func (s *checkoutService) SelectShippingMethod(ctx context.Context, sessionID string, req *model.ShippingMethodRequest) (*model.ActionResult, error) {
	session, cartID, err := s.begin(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state := session.State()

	if err := checkout.Require(state, model.StepPayment); err != nil {
		return s.fail(state, err), nil
	}
	if strings.TrimSpace(req.OptionID) == "" {
		return s.fail(state, model.MissingFieldError("optionId")), nil
	}

	cart, err := s.carts.AddShippingMethod(ctx, cartID, req.OptionID)
	if err != nil {
		s.logActionError(err, "add shipping method", cartID)
		return s.fail(state, s.userError(err, model.MsgShippingFailed)), nil
	}
	state.SelectedShippingOption = req.OptionID

	cart, err = s.ensurePaymentSession(ctx, cart)
	if err != nil {
		s.logActionError(err, "prepare payment session", cartID)
		return s.saveAndFail(ctx, session, s.userError(err, model.MsgShippingFailed))
	}

	if err := session.Save(ctx); err != nil {
		return nil, err
	}

	return &model.ActionResult{
		Success:      true,
		State:        state,
		Cart:         cart,
		ClientSecret: s.clientSecret(cart),
	}, nil
}

func (s *checkoutService) ensurePaymentSession(ctx context.Context, cart *model.Cart) (*model.Cart, error) {
	if !cart.HasPaymentSessions() {
		if _, err := s.carts.CreatePaymentSessions(ctx, cart.ID); err != nil {
			return nil, err
		}

		refreshed, err := s.carts.RetrieveCart(ctx, cart.ID)
		if err != nil {
			return nil, err
		}
		cart = refreshed

		s.logger.Debug().
			Str("cart_id", cart.ID).
			Int("session_count", len(cart.PaymentSessions)).
			Msg("payment sessions created")
	} else if cart.PaymentSession != nil && cart.PaymentSession.ProviderID == s.providerID {
		return cart, nil
	}

	if cart.FindPaymentSession(s.providerID) == nil {
		s.logger.Warn().
			Str("cart_id", cart.ID).
			Str("provider_id", s.providerID).
			Msg("processor payment session not available")
		return cart, nil
	}

	return s.carts.SelectPaymentSession(ctx, cart.ID, s.providerID)
}

// ConfirmPayment records the payment form's confirmation event and advances
// to review.
func (s *checkoutService) ConfirmPayment(ctx context.Context, sessionID string, req *model.PaymentConfirmation) (*model.ActionResult, error) {
	session, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state := session.State()

	if err := checkout.ConfirmPayment(state, req.Status); err != nil {
		s.logger.Warn().
			Str("session_id", sessionID).
			Str("status", req.Status).
			Str("step", string(state.CurrentStep)).
			Msg("payment confirmation rejected")
		return s.fail(state, err), nil
	}
	if err := session.Save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("payment_intent_id", req.PaymentIntentID).
		Msg("payment confirmed")

	return &model.ActionResult{Success: true, State: state}, nil
}

// PlaceOrder completes the cart. Without a confirmed payment it is rejected
// before any backend call.
func (s *checkoutService) PlaceOrder(ctx context.Context, sessionID string) (*model.ActionResult, error) {
	session, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state := session.State()

	if err := checkout.CanPlaceOrder(state); err != nil {
		s.logger.Warn().
			Str("session_id", sessionID).
			Str("step", string(state.CurrentStep)).
			Bool("payment_processed", state.PaymentProcessed).
			Msg("order placement rejected")
		return s.fail(state, err), nil
	}

	cartID, err := s.requireCartID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Line item metadata is only available on the cart, so read it before
	// the cart is consumed.
	cart, err := s.carts.RetrieveCart(ctx, cartID)
	if err != nil {
		s.logActionError(err, "retrieve cart", cartID)
		return s.fail(state, s.userError(err, model.MsgOrderFailed)), nil
	}

	result, err := s.carts.CompleteCart(ctx, cartID)
	if err != nil {
		s.logActionError(err, "complete cart", cartID)
		return s.fail(state, s.userError(err, model.MsgOrderFailed)), nil
	}
	if result.Type != "order" || result.Order == nil {
		s.logger.Warn().
			Str("cart_id", cartID).
			Str("result_type", result.Type).
			Str("backend_error", result.Error).
			Msg("cart did not complete into an order")
		return s.fail(state, model.RejectedError(model.MsgOrderFailed)), nil
	}
	order := result.Order
	if order.CartID == "" {
		order.CartID = cartID
	}

	s.logger.Info().
		Str("cart_id", cartID).
		Str("order_id", order.ID).
		Int64("total", order.Total).
		Str("currency", order.CurrencyCode).
		Msg("order placed")

	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterOrderTimeout)
	s.subscriptions.AfterOrder(sideCtx, cart, order)
	cancel()

	if err := s.cartSessions.ClearCartID(ctx, sessionID); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear session cart")
	}

	if err := checkout.Complete(state, order); err != nil {
		return s.fail(state, err), nil
	}
	if err := session.Save(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to persist confirmation state")
	}

	return &model.ActionResult{Success: true, State: state, Order: order}, nil
}

// GoBack returns to an earlier step.
func (s *checkoutService) GoBack(ctx context.Context, sessionID string, req *model.GoBackRequest) (*model.ActionResult, error) {
	session, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state := session.State()

	if err := checkout.GoBack(state, req.Step); err != nil {
		return s.fail(state, err), nil
	}
	if err := session.Save(ctx); err != nil {
		return nil, err
	}

	return &model.ActionResult{Success: true, State: state}, nil
}

func (s *checkoutService) open(ctx context.Context, sessionID string) (*checkout.Session, error) {
	session, err := checkout.Open(ctx, s.states, sessionID, s.logger)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to open checkout session")
		return nil, err
	}
	if err := s.restartAfterConfirmation(ctx, session, sessionID); err != nil {
		return nil, err
	}
	return session, nil
}

// restartAfterConfirmation discards a confirmed checkout once the session has
// moved on to a cart other than the one that was ordered.
func (s *checkoutService) restartAfterConfirmation(ctx context.Context, session *checkout.Session, sessionID string) error {
	state := session.State()
	if state.CurrentStep != model.StepConfirmation {
		return nil
	}

	cartID, err := s.cartSessions.GetCartID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to read session cart: %w", err)
	}
	if cartID == "" || (state.Order != nil && state.Order.CartID == cartID) {
		return nil
	}

	if err := session.Reset(ctx); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to reset confirmed checkout")
		return err
	}
	s.logger.Debug().
		Str("session_id", sessionID).
		Str("cart_id", cartID).
		Msg("started new checkout after confirmation")
	return nil
}

// begin opens the checkout session of a request that needs a cart.
func (s *checkoutService) begin(ctx context.Context, sessionID string) (*checkout.Session, string, error) {
	cartID, err := s.requireCartID(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	session, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	return session, cartID, nil
}

func (s *checkoutService) requireCartID(ctx context.Context, sessionID string) (string, error) {
	cartID, err := s.cartSessions.GetCartID(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to read session cart: %w", err)
	}
	if cartID == "" {
		return "", model.ErrRedirectRequired
	}
	return cartID, nil
}

func (s *checkoutService) clientSecret(cart *model.Cart) string {
	if cart == nil {
		return ""
	}
	if cart.PaymentSession != nil && cart.PaymentSession.ProviderID == s.providerID {
		return cart.PaymentSession.ClientSecret()
	}
	return cart.FindPaymentSession(s.providerID).ClientSecret()
}

// userError maps a backend failure to the fixed message shown to the customer.
// Explicit rejections get the action's message; anything else is transient.
func (s *checkoutService) userError(err error, rejection string) error {
	if transport.IsRejection(err) {
		return model.RejectedError(rejection)
	}
	return model.RejectedError(model.MsgTryAgain)
}

func (s *checkoutService) logActionError(err error, action, cartID string) {
	event := s.logger.Error()
	if transport.IsRejection(err) {
		event = s.logger.Warn()
	}
	event.Err(err).
		Str("action", action).
		Str("cart_id", cartID).
		Int("backend_status", transport.StatusCode(err)).
		Msg("checkout action failed")
}

func (s *checkoutService) fail(state *model.CheckoutState, err error) *model.ActionResult {
	message := model.MsgTryAgain
	var de *model.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}
	return &model.ActionResult{Success: false, Error: message, State: state}
}

// saveAndFail keeps the entered values so a reload shows them, then fails.
func (s *checkoutService) saveAndFail(ctx context.Context, session *checkout.Session, err error) (*model.ActionResult, error) {
	if saveErr := session.Save(ctx); saveErr != nil {
		s.logger.Warn().Err(saveErr).Msg("failed to persist checkout fields")
	}
	return s.fail(session.State(), err), nil
}

func validateCustomerInfo(info model.CustomerInfo) error {
	switch {
	case info.Email == "":
		return model.MissingFieldError("email")
	case !strings.Contains(info.Email, "@"):
		return model.NewDomainError(model.ErrCodeMissingField, "email must be a valid address")
	case info.FirstName == "":
		return model.MissingFieldError("firstName")
	case info.LastName == "":
		return model.MissingFieldError("lastName")
	}
	return nil
}

func validateAddress(addr model.Address) error {
	required := []struct {
		name  string
		value string
	}{
		{"first_name", addr.FirstName},
		{"last_name", addr.LastName},
		{"address_1", addr.Address1},
		{"city", addr.City},
		{"postal_code", addr.PostalCode},
		{"country_code", addr.CountryCode},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return model.MissingFieldError(field.name)
		}
	}
	return nil
}
