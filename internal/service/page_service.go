package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/checkout"
	"storefront/internal/commerce"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/transport"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	// listingPageSize is the number of products on listing pages.
	listingPageSize = 24

	// plansCollectionHandle is the collection whose products are the subscription plans.
	plansCollectionHandle = "plans"
)

// pageService implements PageService.
type pageService struct {
	catalog         commerce.CatalogAPI
	carts           commerce.CartAPI
	cartSessions    repository.CartSessionRepository
	states          repository.CheckoutStateRepository
	defaultRegionID string
	regions         singleflight.Group
	logger          zerolog.Logger
}

// NewPageService creates a new page service.
func NewPageService(
	catalog commerce.CatalogAPI,
	carts commerce.CartAPI,
	cartSessions repository.CartSessionRepository,
	states repository.CheckoutStateRepository,
	defaultRegionID string,
	logger zerolog.Logger,
) PageService {
	return &pageService{
		catalog:         catalog,
		carts:           carts,
		cartSessions:    cartSessions,
		states:          states,
		defaultRegionID: defaultRegionID,
		logger:          logger.With().Str("service", "page").Logger(),
	}
}

// NormalizeSlug strips exactly one trailing slash.
func NormalizeSlug(slug string) string {
	return strings.TrimSuffix(slug, "/")
}

// Resolve maps a catch-all shop slug to the data of one page type. The first
// matching rule wins; unmatched slugs are looked up as product handles.
func (s *pageService) Resolve(ctx context.Context, sessionID, slug, lang string) (*model.PageData, error) {
	slug = NormalizeSlug(slug)
	page := &model.PageData{Lang: lang, Slug: slug}

	var err error
	switch {
	case slug == "" || slug == "products":
		err = s.loadIndex(ctx, page)
	case strings.HasPrefix(slug, "category/"):
		err = s.loadCategory(ctx, page, strings.TrimPrefix(slug, "category/"))
	case strings.HasPrefix(slug, "collection/"):
		err = s.loadCollection(ctx, page, strings.TrimPrefix(slug, "collection/"))
	case strings.HasPrefix(slug, "products/"):
		err = s.loadProduct(ctx, page, strings.TrimPrefix(slug, "products/"))
	case slug == "account":
		page.Type = model.PageAccount
	case slug == "login":
		page.Type = model.PageLogin
	case slug == "register" || slug == "signup":
		page.Type = model.PageRegister
	case slug == "cart":
		err = s.loadCart(ctx, page, sessionID)
	case slug == "plans":
		err = s.loadPlans(ctx, page)
	case slug == "checkout":
		err = s.loadCheckout(ctx, page, sessionID)
	default:
		err = s.loadProduct(ctx, page, slug)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("slug", slug).
		Str("type", string(page.Type)).
		Msg("page resolved")

	return page, nil
}

func (s *pageService) loadIndex(ctx context.Context, page *model.PageData) error {
	page.Type = model.PageIndex

	products, err := s.catalog.ListProducts(ctx, model.ProductQuery{
		RegionID: s.defaultRegionID,
		Limit:    listingPageSize,
	})
	if err != nil {
		return s.backendError(err, "list products")
	}
	page.Products = products

	if page.Categories, err = s.catalog.ListCategories(ctx); err != nil {
		return s.backendError(err, "list categories")
	}
	if page.Collections, err = s.catalog.ListCollections(ctx); err != nil {
		return s.backendError(err, "list collections")
	}
	if page.Regions, err = s.listRegions(ctx); err != nil {
		return s.backendError(err, "list regions")
	}

	return nil
}

func (s *pageService) loadCategory(ctx context.Context, page *model.PageData, handle string) error {
	page.Type = model.PageCategory
	if handle == "" {
		return model.ErrNotFound
	}

	category, err := s.catalog.GetCategoryByHandle(ctx, handle)
	if err != nil {
		return s.backendError(err, "get category")
	}
	if category == nil {
		s.logger.Debug().Str("handle", handle).Msg("category not found")
		return model.ErrNotFound
	}
	page.Category = category

	products, err := s.catalog.ListProducts(ctx, model.ProductQuery{
		CategoryID: category.ID,
		RegionID:   s.defaultRegionID,
		Limit:      listingPageSize,
	})
	if err != nil {
		return s.backendError(err, "list category products")
	}
	page.Products = products

	return nil
}

func (s *pageService) loadCollection(ctx context.Context, page *model.PageData, handle string) error {
	page.Type = model.PageCollection
	if handle == "" {
		return model.ErrNotFound
	}

	collection, err := s.catalog.GetCollectionByHandle(ctx, handle)
	if err != nil {
		return s.backendError(err, "get collection")
	}
	if collection == nil {
		s.logger.Debug().Str("handle", handle).Msg("collection not found")
		return model.ErrNotFound
	}
	page.Collection = collection

	products, err := s.catalog.ListProducts(ctx, model.ProductQuery{
		CollectionID: collection.ID,
		RegionID:     s.defaultRegionID,
		Limit:        listingPageSize,
	})
	if err != nil {
		return s.backendError(err, "list collection products")
	}
	page.Products = products

	return nil
}

func (s *pageService) loadProduct(ctx context.Context, page *model.PageData, handle string) error {
	page.Type = model.PageProduct
	if handle == "" {
		return model.ErrNotFound
	}

	product, err := s.catalog.GetProductByHandle(ctx, handle, s.defaultRegionID)
	if err != nil {
		return s.backendError(err, "get product")
	}
	if product == nil {
		s.logger.Debug().Str("handle", handle).Msg("product not found")
		return model.ErrNotFound
	}
	page.Product = product

	return nil
}

func (s *pageService) loadPlans(ctx context.Context, page *model.PageData) error {
	page.Type = model.PagePlans
	page.Products = &model.ProductPage{Products: []model.Product{}}

	collection, err := s.catalog.GetCollectionByHandle(ctx, plansCollectionHandle)
	if err != nil {
		return s.backendError(err, "get plans collection")
	}
	if collection == nil {
		s.logger.Warn().Msg("plans collection missing, rendering empty plans page")
		return nil
	}
	page.Collection = collection

	products, err := s.catalog.ListProducts(ctx, model.ProductQuery{
		CollectionID: collection.ID,
		RegionID:     s.defaultRegionID,
		Limit:        listingPageSize,
	})
	if err != nil {
		return s.backendError(err, "list plans")
	}
	page.Products = products

	return nil
}

func (s *pageService) loadCart(ctx context.Context, page *model.PageData, sessionID string) error {
	page.Type = model.PageCart

	cart, err := s.sessionCart(ctx, sessionID)
	if err != nil {
		return err
	}
	if cart == nil {
		cart = &model.Cart{Items: []model.LineItem{}}
	}
	page.Cart = cart

	return nil
}

func (s *pageService) loadCheckout(ctx context.Context, page *model.PageData, sessionID string) error {
	page.Type = model.PageCheckout

	cart, err := s.sessionCart(ctx, sessionID)
	if err != nil {
		return err
	}
	if cart == nil {
		return model.ErrRedirectRequired
	}
	page.Cart = cart

	session, err := checkout.Open(ctx, s.states, sessionID, s.logger)
	if err != nil {
		return err
	}
	page.Checkout = session.State()

	if cart.ShippingAddress != nil {
		options, err := s.carts.ListShippingOptions(ctx, cart.ID)
		if err != nil {
			return s.backendError(err, "list shipping options")
		}
		page.ShippingOptions = options
	}

	if page.Regions, err = s.listRegions(ctx); err != nil {
		return s.backendError(err, "list regions")
	}

	return nil
}

// sessionCart returns the session's cart, or nil when the session has none or
// the stored cart no longer exists.
func (s *pageService) sessionCart(ctx context.Context, sessionID string) (*model.Cart, error) {
	cartID, err := s.cartSessions.GetCartID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session cart: %w", err)
	}
	if cartID == "" {
		return nil, nil
	}

	cart, err := s.carts.RetrieveCart(ctx, cartID)
	if transport.IsNotFound(err) {
		s.logger.Info().Str("cart_id", cartID).Msg("session cart no longer exists")
		if err := s.cartSessions.ClearCartID(ctx, sessionID); err != nil {
			s.logger.Warn().Err(err).Msg("failed to clear stale cart id")
		}
		return nil, nil
	}
	if err != nil {
		return nil, s.backendError(err, "retrieve cart")
	}
	return cart, nil
}

// listRegions shares one backend call between concurrent page loads.
func (s *pageService) listRegions(ctx context.Context) ([]model.Region, error) {
	v, err, shared := s.regions.Do("regions", func() (any, error) {
		return s.catalog.ListRegions(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug().Msg("regions lookup shared")
	}
	return v.([]model.Region), nil
}

func (s *pageService) backendError(err error, op string) error {
	s.logger.Error().Err(err).Str("operation", op).Msg("commerce backend request failed")
	return fmt.Errorf("failed to %s: %w", op, err)
}
