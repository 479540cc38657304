// Package images normalizes uploaded pictures before they reach object
// storage: cover-fit resize to a fixed frame, then JPEG re-encode at a fixed
// quality. Callers own the storage lifecycle of the returned buffers.
package images

import (
	"bytes"
	"context"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/Creatishin/flora-knots-be/internal/apperr"
)

// Variant selects the target frame.
type Variant int

const (
	// VariantLandscape is the default frame for catalog imagery.
	VariantLandscape Variant = iota
	// VariantPortrait is used by testimony uploads.
	VariantPortrait
)

const (
	landscapeWidth  = 1440
	landscapeHeight = 1080
	portraitWidth   = 720
	portraitHeight  = 1280
	jpegQuality     = 50
)

// OutputMimeType is the canonical type of every compressed buffer, whatever
// the input codec was.
const OutputMimeType = "image/jpeg"

// Upload is one multipart file as received from the client.
type Upload struct {
	Name     string
	MimeType string
	Data     []byte
}

// Compressed is the normalized result handed to the object store.
type Compressed struct {
	SourceName string
	MimeType   string
	Buffer     []byte
}

// CompressSingle resizes one upload to the variant's frame with a cover fit
// (crop-to-fill, centered) and re-encodes it as JPEG. Non-image MIME types
// are rejected before any decode attempt.
func CompressSingle(upload Upload, variant Variant) (*Compressed, error) {
	if !strings.HasPrefix(upload.MimeType, "image/") {
		return nil, apperr.New(apperr.KindUnsupportedMedia, "Only image files are allowed!")
	}

	src, err := imaging.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindProcessing, "decode image", err)
	}

	width, height := landscapeWidth, landscapeHeight
	if variant == VariantPortrait {
		width, height = portraitWidth, portraitHeight
	}
	filled := imaging.Fill(src, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, filled, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, apperr.Wrap(apperr.KindProcessing, "encode image", err)
	}

	return &Compressed{
		SourceName: upload.Name,
		MimeType:   OutputMimeType,
		Buffer:     buf.Bytes(),
	}, nil
}

// BatchResult holds compressed buffers in the same order as the inputs.
type BatchResult struct {
	HeroImages []*Compressed
	Images     []*Compressed
}

// CompressBatch compresses both sequences concurrently with the landscape
// frame. All-or-nothing: the first failure aborts the batch and no partial
// results are returned. Output positions mirror input positions.
func CompressBatch(ctx context.Context, hero, gallery []Upload) (*BatchResult, error) {
	res := &BatchResult{
		HeroImages: make([]*Compressed, len(hero)),
		Images:     make([]*Compressed, len(gallery)),
	}

	g, ctx := errgroup.WithContext(ctx)
	run := func(out []*Compressed, i int, u Upload) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := CompressSingle(u, VariantLandscape)
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	for i, u := range hero {
		run(res.HeroImages, i, u)
	}
	for i, u := range gallery {
		run(res.Images, i, u)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
