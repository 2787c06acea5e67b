// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Category identifies one of the managed portal collections.
type Category string

// Managed collections. The first three are structurally identical product
// catalogs that differ only in endpoint and type facets; News is the blog.
const (
	CategoryCCTV     Category = "cctv"
	CategoryNanoBeam Category = "nanobeam"
	CategoryInternet Category = "internet"
	CategoryNews     Category = "news"
)

// TypeAll is the identity facet: no filtering.
const TypeAll = "all"

// Categories lists all managed collections in dashboard order.
func Categories() []Category {
	return []Category{CategoryCCTV, CategoryNanoBeam, CategoryInternet, CategoryNews}
}

// IsProduct returns true for the three product catalogs.
func (c Category) IsProduct() bool {
	return c == CategoryCCTV || c == CategoryNanoBeam || c == CategoryInternet
}

// APIPath returns the backend collection path for the category.
func (c Category) APIPath() string {
	switch c {
	case CategoryCCTV:
		return "/api/cctv-products"
	case CategoryNanoBeam:
		return "/api/nanobeam-products"
	case CategoryInternet:
		return "/api/internet-packages"
	case CategoryNews:
		return "/api/news"
	}
	return ""
}

// Facets returns the type_detail values valid for the category, excluding
// the implicit "all". News has no type facet.
func (c Category) Facets() []string {
	switch c {
	case CategoryCCTV:
		return []string{"camera", "dvr", "nvr", "accessories"}
	case CategoryNanoBeam:
		return []string{"nano", "loco", "powerbeam"}
	case CategoryInternet:
		return []string{"wifi", "adsl", "vdsl"}
	}
	return nil
}

// ValidFacet reports whether t is "all" or one of the category's facets.
func (c Category) ValidFacet(t string) bool {
	if t == TypeAll {
		return true
	}
	for _, f := range c.Facets() {
		if f == t {
			return true
		}
	}
	return false
}

// Product represents a catalog entry in any of the three product
// collections. The client only ever holds an ephemeral copy fetched per
// view; all mutations go through the backend.
type Product struct {
	ID             string            `json:"_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	TypeDetail     string            `json:"type_detail"`
	IsActive       bool              `json:"isActive"`
	Image          string            `json:"image,omitempty"` // relative path, empty when absent
	Features       []string          `json:"features,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	CreatedAt      time.Time         `json:"createdAt,omitzero"`
}

// HasImage returns true if the product carries an image reference.
// A product without an image is a valid, renderable state.
func (p *Product) HasImage() bool {
	return p.Image != ""
}
