// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danatelecom/portal-go/internal/api"
	"github.com/danatelecom/portal-go/internal/model"
	"github.com/danatelecom/portal-go/internal/testutil"
)

func newPanel(t *testing.T, backend *testutil.Backend, confirm ConfirmFunc) *Panel {
	t.Helper()

	client, err := api.NewClient(backend.URL(), testutil.TestSession(t), &testutil.NavRecorder{}, testutil.TestLogger())
	require.NoError(t, err)
	return New(client, confirm, testutil.TestLogger())
}

func serveList(backend *testutil.Backend, category model.Category, payload any, calls *int) {
	backend.Router.Get(category.APIPath(), func(w http.ResponseWriter, _ *http.Request) {
		if calls != nil {
			*calls++
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
}

// writePNG writes a solid test image of the given size and returns its path.
func writePNG(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "upload.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestSelectDiscardsDraft(t *testing.T) {
	backend := testutil.NewBackend(t)
	serveList(backend, model.CategoryCCTV, []model.Product{}, nil)
	serveList(backend, model.CategoryNews, []model.NewsPost{}, nil)

	panel := newPanel(t, backend, nil)
	require.NoError(t, panel.Select(context.Background(), model.CategoryCCTV))

	draft := panel.NewDraft()
	draft.Title = "half-finished camera"
	require.NotNil(t, panel.Draft())

	require.NoError(t, panel.Select(context.Background(), model.CategoryNews))
	assert.Nil(t, panel.Draft(), "switching categories must discard the draft")
	assert.Equal(t, model.CategoryNews, panel.Category())
}

func TestValidateProductDraft(t *testing.T) {
	draft := &Draft{Category: model.CategoryCCTV}

	problems := draft.Validate()
	require.NotNil(t, problems)
	assert.Contains(t, problems, "title")
	assert.Contains(t, problems, "description")
	assert.Contains(t, problems, "price")
	assert.Contains(t, problems, "type_detail")
	assert.Contains(t, problems, "image")

	draft.Title = "Dome Camera"
	draft.Description = "1080p indoor dome"
	draft.Price = 129.9
	draft.TypeDetail = "scanner"
	draft.ImagePath = "cam.png"
	problems = draft.Validate()
	require.NotNil(t, problems)
	assert.Contains(t, problems, "type_detail", "facet must belong to the category")
	assert.NotContains(t, problems, "title")

	draft.TypeDetail = model.TypeAll
	problems = draft.Validate()
	assert.Contains(t, problems, "type_detail", "the identity facet is not a product type")

	draft.TypeDetail = "camera"
	assert.Nil(t, draft.Validate())
}

func TestValidateNewsImageOnlyRequiredOnCreate(t *testing.T) {
	draft := &Draft{Category: model.CategoryNews, Title: "Outage notice", ContentMarkdown: "# Planned work"}

	problems := draft.Validate()
	require.NotNil(t, problems)
	assert.Contains(t, problems, "image")

	draft.ID = "n1"
	assert.Nil(t, draft.Validate(), "updates keep the stored image")
}

func TestSaveValidationFailsBeforeNetwork(t *testing.T) {
	// No routes registered: any request would surface as an API error.
	backend := testutil.NewBackend(t)
	panel := newPanel(t, backend, nil)
	panel.category = model.CategoryCCTV

	panel.NewDraft()
	err := panel.Save(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
}

func TestSaveCreateConvertsMarkdownAndRefetches(t *testing.T) {
	backend := testutil.NewBackend(t)

	listCalls := 0
	serveList(backend, model.CategoryNews, []model.NewsPost{}, &listCalls)

	var gotContent string
	var gotImageNames []string
	backend.Router.Post("/api/news", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotContent = r.FormValue("content")
		for _, fh := range r.MultipartForm.File["image"] {
			gotImageNames = append(gotImageNames, fh.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.NewsPost{ID: "n1"})
	})

	panel := newPanel(t, backend, nil)
	require.NoError(t, panel.Select(context.Background(), model.CategoryNews))
	require.Equal(t, 1, listCalls)

	draft := panel.NewDraft()
	draft.Title = "Fiber rollout"
	draft.ContentMarkdown = "# New areas\n\nCoverage is *expanding*."
	draft.IsPublished = true
	draft.ImagePath = writePNG(t, 400, 300)

	require.NoError(t, panel.Save(context.Background()))

	assert.Contains(t, gotContent, "<h1>New areas</h1>")
	assert.Contains(t, gotContent, "<em>expanding</em>")
	assert.Equal(t, []string{"upload.png"}, gotImageNames)
	assert.Nil(t, panel.Draft(), "saved draft is closed")
	assert.Equal(t, 2, listCalls, "a successful save refetches the list")
}

func TestSaveUpdateOmitsImageWhenUnchanged(t *testing.T) {
	backend := testutil.NewBackend(t)
	serveList(backend, model.CategoryCCTV, []model.Product{
		{ID: "p1", Title: "Dome Camera", Description: "indoor", Price: 100, TypeDetail: "camera", Image: "/uploads/p1.jpg"},
	}, nil)

	imageParts := -1
	backend.Router.Put("/api/cctv-products/p1", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		imageParts = len(r.MultipartForm.File["image"])
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.Product{ID: "p1"})
	})

	panel := newPanel(t, backend, nil)
	require.NoError(t, panel.Select(context.Background(), model.CategoryCCTV))

	draft, err := panel.EditDraft("p1")
	require.NoError(t, err)
	draft.Price = 120

	require.NoError(t, panel.Save(context.Background()))
	assert.Zero(t, imageParts, "update without a new file keeps the stored image")
}

func TestDeleteDeclinedMakesNoRequest(t *testing.T) {
	backend := testutil.NewBackend(t)
	serveList(backend, model.CategoryCCTV, []model.Product{{ID: "p1", Title: "Dome Camera"}}, nil)

	deleteCalls := 0
	backend.Router.Delete("/api/cctv-products/p1", func(w http.ResponseWriter, _ *http.Request) {
		deleteCalls++
		w.WriteHeader(http.StatusOK)
	})

	panel := newPanel(t, backend, func(string) bool { return false })
	require.NoError(t, panel.Select(context.Background(), model.CategoryCCTV))

	require.NoError(t, panel.Delete(context.Background(), "p1"))
	assert.Zero(t, deleteCalls)
	assert.Len(t, panel.Products(), 1)
}

func TestDeleteRemovesItemWithoutRefetch(t *testing.T) {
	backend := testutil.NewBackend(t)

	listCalls := 0
	serveList(backend, model.CategoryCCTV, []model.Product{
		{ID: "p1", Title: "Dome Camera"},
		{ID: "p2", Title: "8ch DVR"},
	}, &listCalls)
	backend.Router.Delete("/api/cctv-products/p1", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var prompted string
	panel := newPanel(t, backend, func(prompt string) bool {
		prompted = prompt
		return true
	})
	require.NoError(t, panel.Select(context.Background(), model.CategoryCCTV))

	require.NoError(t, panel.Delete(context.Background(), "p1"))

	assert.Contains(t, prompted, "p1")
	require.Len(t, panel.Products(), 1)
	assert.Equal(t, "p2", panel.Products()[0].ID)
	assert.Equal(t, 1, listCalls, "delete must not refetch")
}

func TestDeleteFailureKeepsItem(t *testing.T) {
	backend := testutil.NewBackend(t)
	serveList(backend, model.CategoryNews, []model.NewsPost{{ID: "n1", Title: "Outage notice"}}, nil)
	backend.Router.Delete("/api/news/n1", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"storage unavailable"}`))
	})

	panel := newPanel(t, backend, func(string) bool { return true })
	require.NoError(t, panel.Select(context.Background(), model.CategoryNews))

	err := panel.Delete(context.Background(), "n1")
	require.Error(t, err)
	assert.Len(t, panel.Posts(), 1, "failed delete keeps the item")
	assert.ErrorIs(t, panel.Err(), err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestPrepareImageDownscalesWideFiles(t *testing.T) {
	path := writePNG(t, 3200, 200)

	upload, err := prepareImage(path)
	require.NoError(t, err)
	assert.Equal(t, "upload.jpg", upload.Name)

	img, err := imaging.Decode(bytes.NewReader(upload.Content))
	require.NoError(t, err)
	assert.Equal(t, 1600, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy(), "aspect ratio is preserved")
}

func TestPrepareImageKeepsSmallFiles(t *testing.T) {
	path := writePNG(t, 640, 480)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	upload, err := prepareImage(path)
	require.NoError(t, err)
	assert.Equal(t, "upload.png", upload.Name)
	assert.True(t, bytes.Equal(original, upload.Content), "small files upload untouched")
}

func TestPrepareImageRejectsNonImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))

	_, err := prepareImage(path)
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}
