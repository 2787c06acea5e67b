// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render formats domain models for terminal output.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/danatelecom/portal-go/internal/model"
	"github.com/danatelecom/portal-go/internal/state"
)

// ImagePlaceholder is printed where an item has no image.
const ImagePlaceholder = "(no image)"

// textPolicy strips every tag, turning backend HTML into terminal text.
var textPolicy = bluemonday.StrictPolicy()

// PlainText reduces an HTML fragment to its text content.
func PlainText(html string) string {
	return strings.TrimSpace(textPolicy.Sanitize(html))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func imageLine(url string) string {
	if url == "" {
		return ImagePlaceholder
	}
	return url
}

// ProductTable writes the catalog as an aligned table.
func ProductTable(w io.Writer, products []model.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "no products")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tPRICE\tACTIVE\tIMAGE")
	for i := range products {
		p := &products[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%t\t%s\n",
			p.ID, p.Title, p.TypeDetail, p.Price, p.IsActive, imageLine(p.Image))
	}
	tw.Flush()
}

// ProductCard writes one product in full, features and specifications
// included.
func ProductCard(w io.Writer, p *model.Product) {
	fmt.Fprintf(w, "%s  (%s, %.2f)\n", p.Title, p.TypeDetail, p.Price)
	fmt.Fprintf(w, "image: %s\n", imageLine(p.Image))
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	for _, f := range p.Features {
		fmt.Fprintf(w, "  - %s\n", f)
	}
	if len(p.Specifications) > 0 {
		fmt.Fprintln(w, "specifications:")
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		for k, v := range p.Specifications {
			fmt.Fprintf(tw, "  %s\t%s\n", k, v)
		}
		tw.Flush()
	}
}

// NewsList writes a one-line-per-post summary of the feed.
func NewsList(w io.Writer, posts []model.NewsPost) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "no news")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tLIKES\tCOMMENTS")
	for i := range posts {
		p := &posts[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			p.ID, formatDate(p.CreatedAt), p.Title, p.LikeCount(), len(p.Comments))
	}
	tw.Flush()
}

// NewsPost writes a full post with its comment tree. content is the
// sanitized HTML body; replies render indented one level under their
// comment.
func NewsPost(w io.Writer, post *model.NewsPost, content string) {
	fmt.Fprintln(w, post.Title)
	if post.Author != nil {
		fmt.Fprintf(w, "by %s, %s\n", post.Author.DisplayName(), formatDate(post.CreatedAt))
	} else {
		fmt.Fprintf(w, "%s\n", formatDate(post.CreatedAt))
	}
	fmt.Fprintf(w, "image: %s\n", imageLine(post.Image))
	fmt.Fprintf(w, "likes: %d\n\n", post.LikeCount())
	fmt.Fprintln(w, PlainText(content))

	if len(post.Comments) == 0 {
		return
	}
	fmt.Fprintf(w, "\ncomments (%d):\n", len(post.Comments))
	for i := range post.Comments {
		c := &post.Comments[i]
		fmt.Fprintf(w, "[%s] %s (%s): %s\n",
			c.ID, c.User.DisplayName(), formatDate(c.CreatedAt), c.Content)
		for j := range c.Replies {
			r := &c.Replies[j]
			fmt.Fprintf(w, "    [%s] %s (%s): %s\n",
				r.ID, r.User.DisplayName(), formatDate(r.CreatedAt), r.Content)
		}
	}
}

// Profile writes the account view.
func Profile(w io.Writer, u *model.User) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "name\t%s\n", u.DisplayName())
	fmt.Fprintf(tw, "email\t%s\n", u.Email)
	fmt.Fprintf(tw, "role\t%s\n", u.Role)
	if u.Phone != "" {
		fmt.Fprintf(tw, "phone\t%s\n", u.Phone)
	}
	if u.Address != "" {
		fmt.Fprintf(tw, "address\t%s\n", u.Address)
	}
	tw.Flush()
}

// Events writes the local event log, newest first.
func Events(w io.Writer, events []state.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "no events")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tLEVEL\tCATEGORY\tMESSAGE")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.Level, ev.Category, ev.Message)
	}
	tw.Flush()
}
