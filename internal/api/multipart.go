// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"sort"
	"strconv"
)

// FileUpload is an optional image attached to a create/update submission.
type FileUpload struct {
	Name    string
	Content []byte
}

// ProductUpload is the multipart payload for product create/update calls.
// Image is optional on update; the backend keeps the prior image when it is
// omitted.
type ProductUpload struct {
	Title          string
	Description    string
	Price          float64
	TypeDetail     string
	IsActive       bool
	Features       []string
	Specifications map[string]string
	Image          *FileUpload
}

// NewsUpload is the multipart payload for news create/update calls.
type NewsUpload struct {
	Title       string
	Content     string // HTML
	IsPublished bool
	Image       *FileUpload
}

// encode serializes the product form the way the backend expects: plain
// fields, features as indexed sub-fields, specifications as keyed
// sub-fields, and an optional image file part.
func (p *ProductUpload) encode() (body *bytes.Buffer, contentType string, err error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"title":       p.Title,
		"description": p.Description,
		"price":       strconv.FormatFloat(p.Price, 'f', -1, 64),
		"type_detail": p.TypeDetail,
		"isActive":    strconv.FormatBool(p.IsActive),
	}
	if err := writeFields(w, fields); err != nil {
		return nil, "", err
	}

	for i, feature := range p.Features {
		if err := w.WriteField(fmt.Sprintf("features[%d]", i), feature); err != nil {
			return nil, "", fmt.Errorf("writing feature %d: %w", i, err)
		}
	}

	// Sorted for a deterministic wire order.
	keys := make([]string, 0, len(p.Specifications))
	for k := range p.Specifications {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(fmt.Sprintf("specifications[%s]", k), p.Specifications[k]); err != nil {
			return nil, "", fmt.Errorf("writing specification %q: %w", k, err)
		}
	}

	if err := writeImage(w, p.Image); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing form: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// encode serializes the news form.
func (n *NewsUpload) encode() (body *bytes.Buffer, contentType string, err error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"title":       n.Title,
		"content":     n.Content,
		"isPublished": strconv.FormatBool(n.IsPublished),
	}
	if err := writeFields(w, fields); err != nil {
		return nil, "", err
	}

	if err := writeImage(w, n.Image); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing form: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func writeFields(w *multipart.Writer, fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return fmt.Errorf("writing field %q: %w", k, err)
		}
	}
	return nil
}

func writeImage(w *multipart.Writer, img *FileUpload) error {
	if img == nil {
		return nil
	}
	part, err := w.CreateFormFile("image", img.Name)
	if err != nil {
		return fmt.Errorf("creating image part: %w", err)
	}
	if _, err := part.Write(img.Content); err != nil {
		return fmt.Errorf("writing image part: %w", err)
	}
	return nil
}
