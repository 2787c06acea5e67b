// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/danatelecom/portal-go/internal/model"
)

// Social mutations follow the whole-aggregate replace contract: every call
// returns the complete updated NewsPost and the caller replaces its local
// copy wholesale. Deletes are the indirect case: the backend returns only a
// confirmation, so the client refetches the post to obtain the new
// aggregate.

// ListNews fetches the news feed.
func (c *Client) ListNews(ctx context.Context) ([]model.NewsPost, error) {
	var posts []model.NewsPost
	if err := c.getJSON(ctx, "/api/news", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetNews fetches a single post aggregate.
func (c *Client) GetNews(ctx context.Context, id string) (*model.NewsPost, error) {
	var post model.NewsPost
	if err := c.getJSON(ctx, "/api/news/"+id, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreateNews submits a new post as a multipart form.
func (c *Client) CreateNews(ctx context.Context, upload *NewsUpload) (*model.NewsPost, error) {
	body, contentType, err := upload.encode()
	if err != nil {
		return nil, err
	}

	var post model.NewsPost
	if err := c.do(ctx, http.MethodPost, "/api/news", contentType, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateNews updates an existing post.
func (c *Client) UpdateNews(ctx context.Context, id string, upload *NewsUpload) (*model.NewsPost, error) {
	body, contentType, err := upload.encode()
	if err != nil {
		return nil, err
	}

	var post model.NewsPost
	if err := c.do(ctx, http.MethodPut, "/api/news/"+id, contentType, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeleteNews removes a post.
func (c *Client) DeleteNews(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/news/"+id)
}

// ToggleLike flips the current identity's membership in the likers set and
// returns the updated post.
func (c *Client) ToggleLike(ctx context.Context, id string) (*model.NewsPost, error) {
	var post model.NewsPost
	if err := c.do(ctx, http.MethodPost, "/api/news/"+id+"/like", "", nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

type commentBody struct {
	Content string `json:"content"`
}

// AddComment appends a comment and returns the updated post.
func (c *Client) AddComment(ctx context.Context, id, content string) (*model.NewsPost, error) {
	var post model.NewsPost
	if err := c.postJSON(ctx, "/api/news/"+id+"/comment", commentBody{Content: content}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeleteComment removes a comment (and its replies, cascading server-side)
// then refetches the post.
func (c *Client) DeleteComment(ctx context.Context, newsID, commentID string) (*model.NewsPost, error) {
	if err := c.delete(ctx, "/api/news/"+newsID+"/comment/"+commentID); err != nil {
		return nil, err
	}
	return c.GetNews(ctx, newsID)
}

// AddReply appends a reply under the given comment and returns the updated
// post.
func (c *Client) AddReply(ctx context.Context, newsID, commentID, content string) (*model.NewsPost, error) {
	var post model.NewsPost
	path := "/api/news/" + newsID + "/comment/" + commentID + "/reply"
	if err := c.postJSON(ctx, path, commentBody{Content: content}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeleteReply removes a reply then refetches the post.
func (c *Client) DeleteReply(ctx context.Context, newsID, commentID, replyID string) (*model.NewsPost, error) {
	path := "/api/news/" + newsID + "/comment/" + commentID + "/reply/" + replyID
	if err := c.delete(ctx, path); err != nil {
		return nil, err
	}
	return c.GetNews(ctx, newsID)
}
