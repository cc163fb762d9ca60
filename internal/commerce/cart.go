package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/model"
)

type cartEnvelope struct {
	Cart *model.Cart `json:"cart"`
}

type completeEnvelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// CreateCart creates an empty cart in the given region.
func (c *Client) CreateCart(ctx context.Context, regionID string) (*model.Cart, error) {
	body := map[string]string{}
	if regionID != "" {
		body["region_id"] = regionID
	}
	return c.cartCall(ctx, http.MethodPost, "/store/carts", body)
}

// RetrieveCart fetches a cart by its ID.
func (c *Client) RetrieveCart(ctx context.Context, cartID string) (*model.Cart, error) {
	return c.cartCall(ctx, http.MethodGet, cartPath(cartID), nil)
}

// UpdateCart updates customer and address fields of a cart.
func (c *Client) UpdateCart(ctx context.Context, cartID string, update *model.CartUpdate) (*model.Cart, error) {
	return c.cartCall(ctx, http.MethodPost, cartPath(cartID), update)
}

// AddLineItem adds a single line item to a cart.
func (c *Client) AddLineItem(ctx context.Context, cartID string, item model.LineItemRequest) (*model.Cart, error) {
	return c.cartCall(ctx, http.MethodPost, cartPath(cartID)+"/line-items", item)
}

// AddShippingMethod applies a shipping option to a cart.
func (c *Client) AddShippingMethod(ctx context.Context, cartID, optionID string) (*model.Cart, error) {
	return c.cartCall(ctx, http.MethodPost, cartPath(cartID)+"/shipping-methods", map[string]string{
		"option_id": optionID,
	})
}

// CreatePaymentSessions initialises payment sessions for the cart.
func (c *Client) CreatePaymentSessions(ctx context.Context, cartID string) (*model.Cart, error) {
	return c.cartCall(ctx, http.MethodPost, cartPath(cartID)+"/payment-sessions", nil)
}

// SelectPaymentSession selects the session of the given provider.
func (c *Client) SelectPaymentSession(ctx context.Context, cartID, providerID string) (*model.Cart, error) {
	return c.cartCall(ctx, http.MethodPost, cartPath(cartID)+"/payment-session", map[string]string{
		"provider_id": providerID,
	})
}

// CompleteCart converts a cart into an order.
func (c *Client) CompleteCart(ctx context.Context, cartID string) (*model.CompleteCartResult, error) {
	var env completeEnvelope
	if err := c.http.Do(ctx, http.MethodPost, cartPath(cartID)+"/complete", nil, &env); err != nil {
		return nil, err
	}

	result := &model.CompleteCartResult{Type: env.Type, Error: env.Error}
	if len(env.Data) == 0 {
		return result, nil
	}

	if env.Type == "order" {
		var order model.Order
		if err := json.Unmarshal(env.Data, &order); err != nil {
			return nil, fmt.Errorf("failed to decode completed order: %w", err)
		}
		result.Order = &order
		return result, nil
	}

	var cart model.Cart
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart after completion: %w", err)
	}
	result.Cart = &cart
	return result, nil
}

// ListShippingOptions lists the shipping options available to a cart.
func (c *Client) ListShippingOptions(ctx context.Context, cartID string) ([]model.ShippingOption, error) {
	var env struct {
		ShippingOptions []model.ShippingOption `json:"shipping_options"`
	}
	if err := c.http.Do(ctx, http.MethodGet, "/store/shipping-options/"+url.PathEscape(cartID), nil, &env); err != nil {
		return nil, err
	}
	return env.ShippingOptions, nil
}

func (c *Client) cartCall(ctx context.Context, method, path string, body any) (*model.Cart, error) {
	var env cartEnvelope
	if err := c.http.Do(ctx, method, path, body, &env); err != nil {
		return nil, err
	}
	if env.Cart == nil {
		return nil, fmt.Errorf("%s %s: response has no cart", method, path)
	}
	return env.Cart, nil
}

func cartPath(cartID string) string {
	return "/store/carts/" + url.PathEscape(cartID)
}
