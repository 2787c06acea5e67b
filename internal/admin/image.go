// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/danatelecom/portal-go/internal/api"
)

const (
	// maxImageWidth is the widest image the backend needs; anything wider
	// gets downscaled before upload.
	maxImageWidth = 1600
	jpegQuality   = 85
)

// prepareImage loads an image file for upload. Images wider than
// maxImageWidth are downscaled with Lanczos and re-encoded as JPEG;
// smaller files are uploaded as-is.
func prepareImage(path string) (*api.FileUpload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}

	name := filepath.Base(path)
	if img.Bounds().Dx() <= maxImageWidth {
		return &api.FileUpload{Name: name, Content: data}, nil
	}

	resized := imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encoding image %s: %w", path, err)
	}

	ext := filepath.Ext(name)
	name = strings.TrimSuffix(name, ext) + ".jpg"
	return &api.FileUpload{Name: name, Content: buf.Bytes()}, nil
}
