// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// NewsPost is the news aggregate. Comments and replies exist only inside
// their parent post: there is no standalone fetch or update path for a
// single comment, and every social mutation yields the full updated post.
type NewsPost struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"` // HTML, sanitize before rendering
	Image       string    `json:"image,omitempty"`
	Author      *UserRef  `json:"author,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	IsPublished bool      `json:"isPublished"`
	Likes       []string  `json:"likes"` // user IDs, set semantics
	Comments    []Comment `json:"comments"`
}

// Comment is a top-level comment on a news post with one level of nesting.
type Comment struct {
	ID        string    `json:"_id"`
	User      UserRef   `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	Replies   []Reply   `json:"replies,omitempty"`
}

// Reply is a nested reply under a specific comment.
type Reply struct {
	ID        string    `json:"_id"`
	User      UserRef   `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// LikedBy reports whether the given user ID is in the likers set.
func (n *NewsPost) LikedBy(userID string) bool {
	for _, id := range n.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// LikeCount is always derived from the likers set, never tracked separately.
func (n *NewsPost) LikeCount() int {
	return len(n.Likes)
}

// FindComment returns the comment with the given ID, or nil.
func (n *NewsPost) FindComment(id string) *Comment {
	for i := range n.Comments {
		if n.Comments[i].ID == id {
			return &n.Comments[i]
		}
	}
	return nil
}

// FindReply returns the reply with the given ID within the comment, or nil.
func (c *Comment) FindReply(id string) *Reply {
	for i := range c.Replies {
		if c.Replies[i].ID == id {
			return &c.Replies[i]
		}
	}
	return nil
}
