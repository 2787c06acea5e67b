// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

// Package admin implements the management panel for the four backend
// collections: CCTV products, NanoBeam products, internet packages, and
// news posts. Lists are shown unfiltered so inactive products and
// unpublished posts remain editable.
package admin

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/danatelecom/portal-go/internal/api"
	"github.com/danatelecom/portal-go/internal/model"
)

// ConfirmFunc asks the operator to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// ValidationError carries field-keyed messages for an invalid draft. It is
// raised before any request is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "invalid draft: " + strings.Join(keys, ", ")
}

// Draft is an in-progress create or update. The Category tag decides which
// fields are meaningful: product categories use the product fields, news
// uses Title, ContentMarkdown and IsPublished.
type Draft struct {
	Category model.Category
	ID       string // empty for create

	Title          string
	Description    string
	Price          float64
	TypeDetail     string
	IsActive       bool
	Features       []string
	Specifications map[string]string

	ContentMarkdown string
	IsPublished     bool

	// ImagePath points at a local file to upload; empty keeps the current
	// image on update.
	ImagePath string

	hasStoredImage bool
}

// IsCreate reports whether saving the draft will create a new item.
func (d *Draft) IsCreate() bool { return d.ID == "" }

// Validate checks the draft by category tag and returns field-keyed
// messages. An empty map means the draft can be submitted.
func (d *Draft) Validate() map[string]string {
	problems := make(map[string]string)

	if strings.TrimSpace(d.Title) == "" {
		problems["title"] = "title is required"
	}

	if d.Category == model.CategoryNews {
		if strings.TrimSpace(d.ContentMarkdown) == "" {
			problems["content"] = "content is required"
		}
	} else {
		if strings.TrimSpace(d.Description) == "" {
			problems["description"] = "description is required"
		}
		if d.Price <= 0 {
			problems["price"] = "price must be greater than zero"
		}
		if d.TypeDetail == "" {
			problems["type_detail"] = "type is required"
		} else if d.TypeDetail == model.TypeAll || !d.Category.ValidFacet(d.TypeDetail) {
			problems["type_detail"] = fmt.Sprintf("unknown type %q for %s", d.TypeDetail, d.Category)
		}
	}

	// A new item must ship with an image; updates keep the stored one.
	if d.ImagePath == "" && d.IsCreate() && !d.hasStoredImage {
		problems["image"] = "image is required"
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

// Panel manages the admin collections. One category is active at a time;
// switching categories is the reset point that discards any open draft.
type Panel struct {
	api     *api.Client
	log     *slog.Logger
	confirm ConfirmFunc

	category model.Category
	products []model.Product
	posts    []model.NewsPost
	draft    *Draft
	err      error
}

// New creates an admin panel. confirm gates deletes and may be nil, in
// which case every delete is declined.
func New(client *api.Client, confirm ConfirmFunc, log *slog.Logger) *Panel {
	return &Panel{
		api:     client,
		confirm: confirm,
		log:     log.With("component", "admin"),
	}
}

// Select switches the active category, unconditionally discarding any
// in-progress draft, and fetches the category's full list.
func (p *Panel) Select(ctx context.Context, category model.Category) error {
	p.category = category
	p.draft = nil
	p.products = nil
	p.posts = nil
	return p.refetch(ctx)
}

func (p *Panel) refetch(ctx context.Context) error {
	var err error
	if p.category == model.CategoryNews {
		p.posts, err = p.api.ListNews(ctx)
	} else {
		p.products, err = p.api.ListProducts(ctx, p.category)
	}
	if err != nil {
		p.err = err
		p.log.Warn("admin list fetch failed", "category", p.category, "error", err)
		return err
	}
	p.err = nil
	return nil
}

// Category returns the active category.
func (p *Panel) Category() model.Category { return p.category }

// Products returns the loaded product list for the active category.
func (p *Panel) Products() []model.Product { return p.products }

// Posts returns the loaded news list.
func (p *Panel) Posts() []model.NewsPost { return p.posts }

// Err returns the last inline operation error, if any.
func (p *Panel) Err() error { return p.err }

// Draft returns the open draft, or nil.
func (p *Panel) Draft() *Draft { return p.draft }

// NewDraft opens an empty create draft for the active category, replacing
// any open draft.
func (p *Panel) NewDraft() *Draft {
	p.draft = &Draft{Category: p.category, IsActive: true}
	return p.draft
}

// EditDraft opens an update draft pre-filled from the loaded item with the
// given id.
func (p *Panel) EditDraft(id string) (*Draft, error) {
	if p.category == model.CategoryNews {
		for i := range p.posts {
			if p.posts[i].ID != id {
				continue
			}
			post := &p.posts[i]
			p.draft = &Draft{
				Category:        p.category,
				ID:              post.ID,
				Title:           post.Title,
				ContentMarkdown: post.Content,
				IsPublished:     post.IsPublished,
				hasStoredImage:  post.Image != "",
			}
			return p.draft, nil
		}
		return nil, fmt.Errorf("news post %s not loaded", id)
	}

	for i := range p.products {
		if p.products[i].ID != id {
			continue
		}
		prod := &p.products[i]
		p.draft = &Draft{
			Category:       p.category,
			ID:             prod.ID,
			Title:          prod.Title,
			Description:    prod.Description,
			Price:          prod.Price,
			TypeDetail:     prod.TypeDetail,
			IsActive:       prod.IsActive,
			Features:       append([]string(nil), prod.Features...),
			Specifications: copySpecs(prod.Specifications),
			hasStoredImage: prod.HasImage(),
		}
		return p.draft, nil
	}
	return nil, fmt.Errorf("product %s not loaded", id)
}

// DiscardDraft drops the open draft without saving.
func (p *Panel) DiscardDraft() { p.draft = nil }

// Save validates and submits the open draft. Validation failures return a
// *ValidationError before any network traffic. On success the draft is
// closed and the active list is refetched in full.
func (p *Panel) Save(ctx context.Context) error {
	if p.draft == nil {
		return fmt.Errorf("no open draft")
	}
	if problems := p.draft.Validate(); problems != nil {
		return &ValidationError{Fields: problems}
	}

	var image *api.FileUpload
	if p.draft.ImagePath != "" {
		var err error
		image, err = prepareImage(p.draft.ImagePath)
		if err != nil {
			p.err = err
			return err
		}
	}

	var err error
	if p.draft.Category == model.CategoryNews {
		err = p.saveNews(ctx, image)
	} else {
		err = p.saveProduct(ctx, image)
	}
	if err != nil {
		p.err = err
		p.log.Warn("admin save failed", "category", p.draft.Category, "error", err)
		return err
	}

	p.draft = nil
	return p.refetch(ctx)
}

func (p *Panel) saveProduct(ctx context.Context, image *api.FileUpload) error {
	upload := &api.ProductUpload{
		Title:          p.draft.Title,
		Description:    p.draft.Description,
		Price:          p.draft.Price,
		TypeDetail:     p.draft.TypeDetail,
		IsActive:       p.draft.IsActive,
		Features:       p.draft.Features,
		Specifications: p.draft.Specifications,
		Image:          image,
	}
	var err error
	if p.draft.IsCreate() {
		_, err = p.api.CreateProduct(ctx, p.draft.Category, upload)
	} else {
		_, err = p.api.UpdateProduct(ctx, p.draft.Category, p.draft.ID, upload)
	}
	return err
}

func (p *Panel) saveNews(ctx context.Context, image *api.FileUpload) error {
	html, err := renderMarkdown(p.draft.ContentMarkdown)
	if err != nil {
		return err
	}
	upload := &api.NewsUpload{
		Title:       p.draft.Title,
		Content:     html,
		IsPublished: p.draft.IsPublished,
		Image:       image,
	}
	if p.draft.IsCreate() {
		_, err = p.api.CreateNews(ctx, upload)
	} else {
		_, err = p.api.UpdateNews(ctx, p.draft.ID, upload)
	}
	return err
}

// Delete removes an item after operator confirmation. A confirmed,
// successful delete drops the item from the in-memory list without a
// refetch; a failed delete keeps the item and records the error.
func (p *Panel) Delete(ctx context.Context, id string) error {
	if p.confirm == nil || !p.confirm(fmt.Sprintf("Delete %s item %s?", p.category, id)) {
		return nil
	}

	var err error
	if p.category == model.CategoryNews {
		err = p.api.DeleteNews(ctx, id)
	} else {
		err = p.api.DeleteProduct(ctx, p.category, id)
	}
	if err != nil {
		p.err = err
		p.log.Warn("admin delete failed", "category", p.category, "id", id, "error", err)
		return err
	}

	p.err = nil
	if p.category == model.CategoryNews {
		for i := range p.posts {
			if p.posts[i].ID == id {
				p.posts = append(p.posts[:i], p.posts[i+1:]...)
				break
			}
		}
		return nil
	}
	for i := range p.products {
		if p.products[i].ID == id {
			p.products = append(p.products[:i], p.products[i+1:]...)
			break
		}
	}
	return nil
}

// renderMarkdown converts authored Markdown to the HTML the backend
// stores.
func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

func copySpecs(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
