// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleUser, false},
		{"", false},
		{"Admin", false}, // roles are case-sensitive
	}
	for _, tt := range tests {
		u := User{Role: tt.role}
		if got := u.IsAdmin(); got != tt.want {
			t.Errorf("IsAdmin() with role %q = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestUserDisplayName(t *testing.T) {
	u := User{FirstName: "Dana", LastName: "Haddad", Email: "dana@example.com"}
	if got := u.DisplayName(); got != "Dana Haddad" {
		t.Errorf("DisplayName() = %q, want %q", got, "Dana Haddad")
	}

	u = User{Email: "dana@example.com"}
	if got := u.DisplayName(); got != "dana@example.com" {
		t.Errorf("DisplayName() without names = %q, want email fallback", got)
	}
}

func TestCategoryAPIPath(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{CategoryCCTV, "/api/cctv-products"},
		{CategoryNanoBeam, "/api/nanobeam-products"},
		{CategoryInternet, "/api/internet-packages"},
		{CategoryNews, "/api/news"},
		{Category("bogus"), ""},
	}
	for _, tt := range tests {
		if got := tt.category.APIPath(); got != tt.want {
			t.Errorf("APIPath(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestCategoryValidFacet(t *testing.T) {
	if !CategoryCCTV.ValidFacet(TypeAll) {
		t.Error("ValidFacet(all) should hold for every category")
	}
	if !CategoryCCTV.ValidFacet("dvr") {
		t.Error("ValidFacet(dvr) should hold for cctv")
	}
	if CategoryCCTV.ValidFacet("wifi") {
		t.Error("ValidFacet(wifi) should not hold for cctv")
	}
	if CategoryNews.ValidFacet("camera") {
		t.Error("news has no type facets")
	}
	if !CategoryNews.ValidFacet(TypeAll) {
		t.Error("ValidFacet(all) should hold for news")
	}
}

func TestNewsPostLikes(t *testing.T) {
	post := NewsPost{Likes: []string{"u1", "u2"}}

	if !post.LikedBy("u1") {
		t.Error("LikedBy(u1) = false, want true")
	}
	if post.LikedBy("u3") {
		t.Error("LikedBy(u3) = true, want false")
	}
	if got := post.LikeCount(); got != 2 {
		t.Errorf("LikeCount() = %d, want 2", got)
	}
}

func TestFindCommentAndReply(t *testing.T) {
	post := NewsPost{
		Comments: []Comment{
			{ID: "c1", Content: "first"},
			{ID: "c2", Content: "second", Replies: []Reply{
				{ID: "r1", Content: "nested"},
			}},
		},
	}

	c := post.FindComment("c2")
	if c == nil || c.Content != "second" {
		t.Fatalf("FindComment(c2) = %+v, want second comment", c)
	}
	if post.FindComment("missing") != nil {
		t.Error("FindComment(missing) should return nil")
	}

	r := c.FindReply("r1")
	if r == nil || r.Content != "nested" {
		t.Fatalf("FindReply(r1) = %+v, want nested reply", r)
	}
	if c.FindReply("r9") != nil {
		t.Error("FindReply(r9) should return nil")
	}
}

// The backend uses Mongo-style "_id" keys and snake_case type_detail; the
// struct tags must keep that wire shape.
func TestProductWireFormat(t *testing.T) {
	raw := `{"_id":"p1","title":"Dome Camera","description":"Indoor","price":99.5,` +
		`"type_detail":"camera","isActive":true,"image":"/uploads/dome.jpg",` +
		`"features":["night vision","1080p"],"specifications":{"lens":"2.8mm"}}`

	var p Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != "p1" || p.TypeDetail != "camera" || !p.IsActive {
		t.Errorf("unexpected product: %+v", p)
	}
	if len(p.Features) != 2 || p.Specifications["lens"] != "2.8mm" {
		t.Errorf("nested fields not decoded: %+v", p)
	}
	if !p.HasImage() {
		t.Error("HasImage() = false, want true")
	}

	p.Image = ""
	if p.HasImage() {
		t.Error("HasImage() on empty image = true, want false")
	}
}
