package service

import (
	"context"
	"fmt"

	"storefront/internal/commerce"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/transport"

	"github.com/rs/zerolog"
)

// ItemError reports which line item of a batch failed.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// cartService implements CartService.
type cartService struct {
	carts           commerce.CartAPI
	cartSessions    repository.CartSessionRepository
	defaultRegionID string
	logger          zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	carts commerce.CartAPI,
	cartSessions repository.CartSessionRepository,
	defaultRegionID string,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		carts:           carts,
		cartSessions:    cartSessions,
		defaultRegionID: defaultRegionID,
		logger:          logger.With().Str("service", "cart").Logger(),
	}
}

// Get returns the session's cart, or an empty cart when there is none.
func (s *cartService) Get(ctx context.Context, sessionID string) (*model.Cart, error) {
	cartID, err := s.cartSessions.GetCartID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session cart: %w", err)
	}
	if cartID == "" {
		return &model.Cart{Items: []model.LineItem{}}, nil
	}

	cart, err := s.carts.RetrieveCart(ctx, cartID)
	if transport.IsNotFound(err) {
		s.logger.Info().Str("cart_id", cartID).Msg("session cart no longer exists")
		if err := s.cartSessions.ClearCartID(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("failed to clear stale cart: %w", err)
		}
		return &model.Cart{Items: []model.LineItem{}}, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to retrieve cart")
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return cart, nil
}

// AddItems adds line items one at a time, in order, stopping at the first
// failure. A cart is created in the default region when the session has none.
// On failure the returned error is an *ItemError carrying the failed index.
func (s *cartService) AddItems(ctx context.Context, sessionID string, items []model.LineItemRequest) (*model.Cart, error) {
	if len(items) == 0 {
		return nil, model.MissingFieldError("items")
	}
	for i, item := range items {
		if item.VariantID == "" {
			return nil, &ItemError{Index: i, Err: model.MissingFieldError("variant_id")}
		}
		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("variant_id", item.VariantID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return nil, &ItemError{Index: i, Err: model.ErrInvalidQuantity}
		}
	}

	cartID, err := s.ensureCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var cart *model.Cart
	for i, item := range items {
		updated, err := s.carts.AddLineItem(ctx, cartID, item)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("cart_id", cartID).
				Int("item_index", i).
				Str("variant_id", item.VariantID).
				Msg("failed to add line item")
			return cart, &ItemError{Index: i, Err: err}
		}
		cart = updated
	}

	s.logger.Info().
		Str("cart_id", cartID).
		Int("item_count", len(items)).
		Msg("items added to cart")

	return cart, nil
}

// Clear forgets the session's cart.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.cartSessions.ClearCartID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *cartService) ensureCart(ctx context.Context, sessionID string) (string, error) {
	cartID, err := s.cartSessions.GetCartID(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to read session cart: %w", err)
	}
	if cartID != "" {
		return cartID, nil
	}

	cart, err := s.carts.CreateCart(ctx, s.defaultRegionID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create cart")
		return "", fmt.Errorf("failed to create cart: %w", err)
	}
	if err := s.cartSessions.SetCartID(ctx, sessionID, cart.ID); err != nil {
		return "", fmt.Errorf("failed to store cart id: %w", err)
	}

	s.logger.Info().Str("cart_id", cart.ID).Msg("cart created")

	return cart.ID, nil
}
