// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danatelecom/portal-go/internal/model"
)

// productPath validates the category and returns its collection path.
func productPath(category model.Category) (string, error) {
	if !category.IsProduct() {
		return "", fmt.Errorf("category %q is not a product catalog", category)
	}
	return category.APIPath(), nil
}

// ListProducts fetches the full list for one product category. No
// client-side filtering happens here; the admin dashboard sees inactive
// entries too.
func (c *Client) ListProducts(ctx context.Context, category model.Category) ([]model.Product, error) {
	path, err := productPath(category)
	if err != nil {
		return nil, err
	}

	var products []model.Product
	if err := c.getJSON(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct submits a new catalog entry as a multipart form.
func (c *Client) CreateProduct(ctx context.Context, category model.Category, upload *ProductUpload) (*model.Product, error) {
	path, err := productPath(category)
	if err != nil {
		return nil, err
	}

	body, contentType, err := upload.encode()
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := c.do(ctx, http.MethodPost, path, contentType, body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct updates an existing catalog entry. Omitting the image keeps
// the stored one.
func (c *Client) UpdateProduct(ctx context.Context, category model.Category, id string, upload *ProductUpload) (*model.Product, error) {
	path, err := productPath(category)
	if err != nil {
		return nil, err
	}

	body, contentType, err := upload.encode()
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := c.do(ctx, http.MethodPut, path+"/"+id, contentType, body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a catalog entry.
func (c *Client) DeleteProduct(ctx context.Context, category model.Category, id string) error {
	path, err := productPath(category)
	if err != nil {
		return err
	}
	return c.delete(ctx, path+"/"+id)
}
