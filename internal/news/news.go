// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

// Package news implements the news feed and post detail views with the
// like/comment/reply interactions.
//
// Every mutating call follows the whole-aggregate replace contract: the
// backend returns the complete updated NewsPost and the local copy is
// replaced wholesale. Nothing is field-patched, so the view can never
// render a stale partial merge.
package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/danatelecom/portal-go/internal/api"
	"github.com/danatelecom/portal-go/internal/model"
)

// ErrNotAllowed is the inline authorization error for delete attempts by
// someone who is neither an administrator nor the author. The request is
// not issued; the backend enforces the same rule authoritatively.
var ErrNotAllowed = errors.New("news: only an administrator or the author may delete this")

// ErrEmptyContent rejects blank comments and replies before submission.
var ErrEmptyContent = errors.New("news: content must not be empty")

// CanDeleteComment reports whether the delete affordance is shown for a
// comment: the current identity is an administrator or the comment's author.
func CanDeleteComment(user *model.User, comment *model.Comment) bool {
	if user == nil || comment == nil {
		return false
	}
	return user.IsAdmin() || user.ID == comment.User.ID
}

// CanDeleteReply reports whether the delete affordance is shown for a reply.
func CanDeleteReply(user *model.User, reply *model.Reply) bool {
	if user == nil || reply == nil {
		return false
	}
	return user.IsAdmin() || user.ID == reply.User.ID
}

// sanitizer strips scripts and other active content from backend-supplied
// HTML before it reaches a renderer.
var sanitizer = bluemonday.UGCPolicy()

// Feed is the news list view.
type Feed struct {
	api   *api.Client
	log   *slog.Logger
	posts []model.NewsPost
	err   error
}

// NewFeed creates the feed view.
func NewFeed(client *api.Client, log *slog.Logger) *Feed {
	return &Feed{api: client, log: log}
}

// Load fetches the feed. Fail-fast: on error nothing is kept.
func (f *Feed) Load(ctx context.Context) error {
	posts, err := f.api.ListNews(ctx)
	if err != nil {
		if !errors.Is(err, api.ErrSessionExpired) {
			f.log.Warn("news feed fetch failed", "category", "news", "error", err)
		}
		f.err = err
		f.posts = nil
		return err
	}

	for i := range posts {
		posts[i].Image = f.api.AbsoluteImageURL(posts[i].Image)
	}
	f.posts = posts
	f.err = nil
	return nil
}

// Posts returns the loaded feed.
func (f *Feed) Posts() []model.NewsPost {
	if f.err != nil {
		return nil
	}
	return f.posts
}

// Err returns the single inline error from the last load, or nil.
func (f *Feed) Err() error {
	return f.err
}

// ToggleLike flips the current identity's like on one feed post and
// replaces that post with the returned aggregate.
func (f *Feed) ToggleLike(ctx context.Context, id string) error {
	updated, err := f.api.ToggleLike(ctx, id)
	if err != nil {
		return err
	}

	updated.Image = f.api.AbsoluteImageURL(updated.Image)
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts[i] = *updated
			return nil
		}
	}
	return fmt.Errorf("news: post %s not in feed", id)
}

// Detail is the single-post view with the comment tree.
type Detail struct {
	api  *api.Client
	log  *slog.Logger
	post *model.NewsPost

	// replyTo is the id of the comment with an open reply draft. At most
	// one draft is open at a time; opening another discards this one.
	replyTo string
}

// NewDetail creates the post detail view.
func NewDetail(client *api.Client, log *slog.Logger) *Detail {
	return &Detail{api: client, log: log}
}

// Load fetches the post aggregate.
func (d *Detail) Load(ctx context.Context, id string) error {
	post, err := d.api.GetNews(ctx, id)
	if err != nil {
		if !errors.Is(err, api.ErrSessionExpired) {
			d.log.Warn("news fetch failed", "category", "news", "post", id, "error", err)
		}
		return err
	}
	d.replace(post)
	return nil
}

// replace applies the whole-aggregate replace: the entire local copy is
// swapped for the returned post.
func (d *Detail) replace(post *model.NewsPost) {
	post.Image = d.api.AbsoluteImageURL(post.Image)
	d.post = post
}

// Post returns the loaded aggregate, or nil before Load.
func (d *Detail) Post() *model.NewsPost {
	return d.post
}

// RenderedContent returns the post body sanitized for display.
func (d *Detail) RenderedContent() string {
	if d.post == nil {
		return ""
	}
	return sanitizer.Sanitize(d.post.Content)
}

// ToggleLike flips the current identity's like on the post.
func (d *Detail) ToggleLike(ctx context.Context) error {
	if d.post == nil {
		return errors.New("news: no post loaded")
	}
	updated, err := d.api.ToggleLike(ctx, d.post.ID)
	if err != nil {
		return err
	}
	d.replace(updated)
	return nil
}

// AddComment appends a comment to the post.
func (d *Detail) AddComment(ctx context.Context, content string) error {
	if d.post == nil {
		return errors.New("news: no post loaded")
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}

	updated, err := d.api.AddComment(ctx, d.post.ID, content)
	if err != nil {
		return err
	}
	d.replace(updated)
	return nil
}

// DeleteComment removes a comment after the local authorization check.
// Deleting a comment cascades over its replies server-side; the refetched
// aggregate reflects that.
func (d *Detail) DeleteComment(ctx context.Context, user *model.User, commentID string) error {
	if d.post == nil {
		return errors.New("news: no post loaded")
	}
	comment := d.post.FindComment(commentID)
	if comment == nil {
		return fmt.Errorf("news: comment %s not found", commentID)
	}
	if !CanDeleteComment(user, comment) {
		return ErrNotAllowed
	}

	updated, err := d.api.DeleteComment(ctx, d.post.ID, commentID)
	if err != nil {
		return err
	}
	if d.replyTo == commentID {
		d.replyTo = ""
	}
	d.replace(updated)
	return nil
}

// StartReply opens the reply composition box under a comment, implicitly
// discarding any other open draft.
func (d *Detail) StartReply(commentID string) error {
	if d.post == nil || d.post.FindComment(commentID) == nil {
		return fmt.Errorf("news: comment %s not found", commentID)
	}
	d.replyTo = commentID
	return nil
}

// ReplyingTo returns the comment id with an open reply draft, or "".
func (d *Detail) ReplyingTo() string {
	return d.replyTo
}

// CancelReply discards the open reply draft.
func (d *Detail) CancelReply() {
	d.replyTo = ""
}

// SubmitReply sends the open reply draft and closes it.
func (d *Detail) SubmitReply(ctx context.Context, content string) error {
	if d.replyTo == "" {
		return errors.New("news: no reply in progress")
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}

	updated, err := d.api.AddReply(ctx, d.post.ID, d.replyTo, content)
	if err != nil {
		return err
	}
	d.replyTo = ""
	d.replace(updated)
	return nil
}

// DeleteReply removes a reply after the local authorization check.
func (d *Detail) DeleteReply(ctx context.Context, user *model.User, commentID, replyID string) error {
	if d.post == nil {
		return errors.New("news: no post loaded")
	}
	comment := d.post.FindComment(commentID)
	if comment == nil {
		return fmt.Errorf("news: comment %s not found", commentID)
	}
	reply := comment.FindReply(replyID)
	if reply == nil {
		return fmt.Errorf("news: reply %s not found", replyID)
	}
	if !CanDeleteReply(user, reply) {
		return ErrNotAllowed
	}

	updated, err := d.api.DeleteReply(ctx, d.post.ID, commentID, replyID)
	if err != nil {
		return err
	}
	d.replace(updated)
	return nil
}
