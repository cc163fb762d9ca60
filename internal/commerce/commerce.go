package commerce

import (
	"context"

	"storefront/internal/model"
)

// CartAPI defines the commerce backend's cart operations used by checkout.
type CartAPI interface {
	// CreateCart creates an empty cart in the given region.
	CreateCart(ctx context.Context, regionID string) (*model.Cart, error)

	// RetrieveCart fetches a cart by its ID.
	RetrieveCart(ctx context.Context, cartID string) (*model.Cart, error)

	// UpdateCart updates customer and address fields of a cart.
	UpdateCart(ctx context.Context, cartID string, update *model.CartUpdate) (*model.Cart, error)

	// AddLineItem adds a single line item to a cart.
	AddLineItem(ctx context.Context, cartID string, item model.LineItemRequest) (*model.Cart, error)

	// AddShippingMethod applies a shipping option to a cart.
	AddShippingMethod(ctx context.Context, cartID, optionID string) (*model.Cart, error)

	// CreatePaymentSessions initialises payment sessions for every provider of the cart's region.
	CreatePaymentSessions(ctx context.Context, cartID string) (*model.Cart, error)

	// SelectPaymentSession selects the session of the given provider.
	SelectPaymentSession(ctx context.Context, cartID, providerID string) (*model.Cart, error)

	// CompleteCart converts a cart into an order.
	CompleteCart(ctx context.Context, cartID string) (*model.CompleteCartResult, error)

	// ListShippingOptions lists the shipping options available to a cart.
	ListShippingOptions(ctx context.Context, cartID string) ([]model.ShippingOption, error)
}

// CatalogAPI defines the read-only catalogue operations used by page loaders.
type CatalogAPI interface {
	// ListProducts lists products with pagination support.
	ListProducts(ctx context.Context, query model.ProductQuery) (*model.ProductPage, error)

	// GetProductByHandle returns the product with the handle, or nil when none matches.
	GetProductByHandle(ctx context.Context, handle, regionID string) (*model.Product, error)

	// GetCategoryByHandle returns the category with the handle, or nil when none matches.
	GetCategoryByHandle(ctx context.Context, handle string) (*model.Category, error)

	// GetCollectionByHandle returns the collection with the handle, or nil when none matches.
	GetCollectionByHandle(ctx context.Context, handle string) (*model.Collection, error)

	// ListCategories lists top-level categories.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// ListCollections lists collections.
	ListCollections(ctx context.Context) ([]model.Collection, error)

	// ListRegions lists selling regions.
	ListRegions(ctx context.Context) ([]model.Region, error)
}
