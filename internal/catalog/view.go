// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog implements the public product list views. A view fetches
// one category's full list and filters it purely client-side by a type
// facet; filtering is synchronous and free of network cost.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danatelecom/portal-go/internal/api"
	"github.com/danatelecom/portal-go/internal/model"
)

// View is the list view for one product category.
type View struct {
	category model.Category
	api      *api.Client
	log      *slog.Logger

	products []model.Product
	facet    string
	err      error
}

// NewView creates a catalog view for a product category.
func NewView(category model.Category, client *api.Client, log *slog.Logger) (*View, error) {
	if !category.IsProduct() {
		return nil, fmt.Errorf("catalog: %q is not a product category", category)
	}
	return &View{
		category: category,
		api:      client,
		log:      log,
		facet:    model.TypeAll,
	}, nil
}

// Category returns the view's category.
func (v *View) Category() model.Category {
	return v.category
}

// Load fetches the full list once and rewrites image references to absolute
// URLs. A failed fetch is fail-fast: the single error message is stored and
// no partial results are kept.
func (v *View) Load(ctx context.Context) error {
	products, err := v.api.ListProducts(ctx, v.category)
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			// The interceptor already reset the session; nothing to render.
			v.err = err
			v.products = nil
			return err
		}
		v.log.Warn("catalog fetch failed", "category", "catalog",
			"collection", string(v.category), "error", err)
		v.err = err
		v.products = nil
		return err
	}

	for i := range products {
		products[i].Image = v.api.AbsoluteImageURL(products[i].Image)
	}
	v.products = products
	v.err = nil
	return nil
}

// Err returns the single inline error from the last load, or nil.
func (v *View) Err() error {
	return v.err
}

// SetType selects the active facet. Unknown facets are rejected; "all" is
// the identity filter.
func (v *View) SetType(facet string) error {
	if !v.category.ValidFacet(facet) {
		return fmt.Errorf("catalog: %q is not a %s facet", facet, v.category)
	}
	v.facet = facet
	return nil
}

// Type returns the active facet.
func (v *View) Type() string {
	return v.facet
}

// Filtered returns the products matching the active facet. When the last
// load failed there is nothing to show.
func (v *View) Filtered() []model.Product {
	if v.err != nil {
		return nil
	}
	if v.facet == model.TypeAll {
		return v.products
	}

	var out []model.Product
	for _, p := range v.products {
		if p.TypeDetail == v.facet {
			out = append(out, p)
		}
	}
	return out
}
