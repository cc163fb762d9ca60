package commerce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/model"
)

// ListProducts lists products with pagination support.
func (c *Client) ListProducts(ctx context.Context, query model.ProductQuery) (*model.ProductPage, error) {
	params := url.Values{}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		params.Set("offset", strconv.Itoa(query.Offset))
	}
	if query.CategoryID != "" {
		params.Add("category_id[]", query.CategoryID)
	}
	if query.CollectionID != "" {
		params.Add("collection_id[]", query.CollectionID)
	}
	if query.RegionID != "" {
		params.Set("region_id", query.RegionID)
	}

	var env struct {
		Products []model.Product `json:"products"`
		Count    int             `json:"count"`
		Limit    int             `json:"limit"`
		Offset   int             `json:"offset"`
	}
	if err := c.http.Do(ctx, http.MethodGet, withQuery("/store/products", params), nil, &env); err != nil {
		return nil, err
	}

	return &model.ProductPage{
		Products: env.Products,
		Count:    env.Count,
		Limit:    env.Limit,
		Offset:   env.Offset,
	}, nil
}

// GetProductByHandle returns the product with the handle, or nil when none matches.
func (c *Client) GetProductByHandle(ctx context.Context, handle, regionID string) (*model.Product, error) {
	params := url.Values{"handle": {handle}}
	if regionID != "" {
		params.Set("region_id", regionID)
	}

	var env struct {
		Products []model.Product `json:"products"`
	}
	if err := c.http.Do(ctx, http.MethodGet, withQuery("/store/products", params), nil, &env); err != nil {
		return nil, err
	}
	if len(env.Products) == 0 {
		return nil, nil
	}
	return &env.Products[0], nil
}

// GetCategoryByHandle returns the category with the handle, or nil when none matches.
func (c *Client) GetCategoryByHandle(ctx context.Context, handle string) (*model.Category, error) {
	var env struct {
		Categories []model.Category `json:"product_categories"`
	}
	params := url.Values{"handle": {handle}}
	if err := c.http.Do(ctx, http.MethodGet, withQuery("/store/product-categories", params), nil, &env); err != nil {
		return nil, err
	}
	if len(env.Categories) == 0 {
		return nil, nil
	}
	return &env.Categories[0], nil
}

// GetCollectionByHandle returns the collection with the handle, or nil when none matches.
func (c *Client) GetCollectionByHandle(ctx context.Context, handle string) (*model.Collection, error) {
	var env struct {
		Collections []model.Collection `json:"collections"`
	}
	params := url.Values{"handle[]": {handle}}
	if err := c.http.Do(ctx, http.MethodGet, withQuery("/store/collections", params), nil, &env); err != nil {
		return nil, err
	}
	if len(env.Collections) == 0 {
		return nil, nil
	}
	return &env.Collections[0], nil
}

// ListCategories lists top-level categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var env struct {
		Categories []model.Category `json:"product_categories"`
	}
	params := url.Values{"parent_category_id": {"null"}}
	if err := c.http.Do(ctx, http.MethodGet, withQuery("/store/product-categories", params), nil, &env); err != nil {
		return nil, err
	}
	return env.Categories, nil
}

// ListCollections lists collections.
func (c *Client) ListCollections(ctx context.Context) ([]model.Collection, error) {
	var env struct {
		Collections []model.Collection `json:"collections"`
	}
	if err := c.http.Do(ctx, http.MethodGet, "/store/collections", nil, &env); err != nil {
		return nil, err
	}
	return env.Collections, nil
}

// ListRegions lists selling regions.
func (c *Client) ListRegions(ctx context.Context) ([]model.Region, error) {
	var env struct {
		Regions []model.Region `json:"regions"`
	}
	if err := c.http.Do(ctx, http.MethodGet, "/store/regions", nil, &env); err != nil {
		return nil, err
	}
	return env.Regions, nil
}

func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
