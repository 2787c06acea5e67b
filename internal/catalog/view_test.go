// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danatelecom/portal-go/internal/api"
	"github.com/danatelecom/portal-go/internal/model"
	"github.com/danatelecom/portal-go/internal/testutil"
)

func newView(t *testing.T, backend *testutil.Backend, category model.Category) *View {
	t.Helper()

	client, err := api.NewClient(backend.URL(), testutil.TestSession(t), &testutil.NavRecorder{}, testutil.TestLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	view, err := NewView(category, client, testutil.TestLogger())
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	return view
}

func serveProducts(backend *testutil.Backend, path string, products []model.Product) {
	backend.Router.Get(path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(products)
	})
}

func TestNewViewRejectsNews(t *testing.T) {
	backend := testutil.NewBackend(t)
	client, err := api.NewClient(backend.URL(), testutil.TestSession(t), &testutil.NavRecorder{}, testutil.TestLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := NewView(model.CategoryNews, client, testutil.TestLogger()); err == nil {
		t.Fatal("NewView(news) should fail")
	}
}

func TestFacetFiltering(t *testing.T) {
	backend := testutil.NewBackend(t)
	serveProducts(backend, "/api/cctv-products", []model.Product{
		{ID: "p1", Title: "Bullet Cam", TypeDetail: "camera"},
		{ID: "p2", Title: "Dome Cam", TypeDetail: "camera"},
		{ID: "p3", Title: "8ch DVR", TypeDetail: "dvr"},
	})

	view := newView(t, backend, model.CategoryCCTV)
	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// "all" is the identity filter.
	if got := len(view.Filtered()); got != 3 {
		t.Errorf("Filtered(all) = %d products, want 3", got)
	}

	// Filter set to dvr on 2 camera + 1 dvr entries yields exactly 1 card.
	if err := view.SetType("dvr"); err != nil {
		t.Fatalf("SetType: %v", err)
	}
	filtered := view.Filtered()
	if len(filtered) != 1 || filtered[0].ID != "p3" {
		t.Errorf("Filtered(dvr) = %+v, want only p3", filtered)
	}

	// Filtering is idempotent and has no network cost: swapping back to all
	// restores the full list without a refetch.
	if err := view.SetType(model.TypeAll); err != nil {
		t.Fatalf("SetType: %v", err)
	}
	if got := len(view.Filtered()); got != 3 {
		t.Errorf("Filtered(all) after facet change = %d, want 3", got)
	}
}

func TestSetTypeRejectsForeignFacet(t *testing.T) {
	backend := testutil.NewBackend(t)
	view := newView(t, backend, model.CategoryNanoBeam)

	if err := view.SetType("dvr"); err == nil {
		t.Fatal("SetType(dvr) on nanobeam should fail")
	}
	if err := view.SetType("loco"); err != nil {
		t.Fatalf("SetType(loco): %v", err)
	}
}

func TestImageRewrite(t *testing.T) {
	backend := testutil.NewBackend(t)
	serveProducts(backend, "/api/internet-packages", []model.Product{
		{ID: "p1", Title: "ADSL Basic", TypeDetail: "adsl", Image: "/uploads/adsl.png"},
		{ID: "p2", Title: "WiFi Home", TypeDetail: "wifi"}, // no image: valid, renderable
	})

	view := newView(t, backend, model.CategoryInternet)
	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	products := view.Filtered()
	if products[0].Image != backend.URL()+"/uploads/adsl.png" {
		t.Errorf("image = %q, want absolute URL", products[0].Image)
	}
	if products[1].Image != "" {
		t.Errorf("missing image rewritten to %q, want empty", products[1].Image)
	}
}

func TestFailFastOnFetchError(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Router.Get("/api/cctv-products", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	view := newView(t, backend, model.CategoryCCTV)
	if err := view.Load(context.Background()); err == nil {
		t.Fatal("Load should fail")
	}
	if view.Err() == nil {
		t.Error("Err() = nil after failed load")
	}
	// No partial results are rendered.
	if got := view.Filtered(); got != nil {
		t.Errorf("Filtered() after failure = %v, want nil", got)
	}
}

func TestReloadClearsPreviousError(t *testing.T) {
	backend := testutil.NewBackend(t)
	fail := true
	backend.Router.Get("/api/cctv-products", func(w http.ResponseWriter, _ *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]model.Product{{ID: "p1", TypeDetail: "camera"}})
	})

	view := newView(t, backend, model.CategoryCCTV)
	_ = view.Load(context.Background())
	if view.Err() == nil {
		t.Fatal("expected first load to fail")
	}

	fail = false
	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if view.Err() != nil {
		t.Errorf("Err() = %v after successful reload", view.Err())
	}
	if len(view.Filtered()) != 1 {
		t.Errorf("Filtered() = %v", view.Filtered())
	}
}
