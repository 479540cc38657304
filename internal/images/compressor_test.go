package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/Creatishin/flora-knots-be/internal/apperr"
)

func jpegUpload(t *testing.T, name string, w, h int) Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return Upload{Name: name, MimeType: "image/jpeg", Data: buf.Bytes()}
}

func pngUpload(t *testing.T, name string, w, h int) Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return Upload{Name: name, MimeType: "image/png", Data: buf.Bytes()}
}

func decodeSize(t *testing.T, c *Compressed) (int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(c.Buffer))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected jpeg output, got %s", format)
	}
	return cfg.Width, cfg.Height
}

func TestCompressSingle_LandscapeFrame(t *testing.T) {
	out, err := CompressSingle(jpegUpload(t, "rose.jpg", 2000, 1500), VariantLandscape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.MimeType != OutputMimeType {
		t.Fatalf("mime not normalized: %s", out.MimeType)
	}
	if out.SourceName != "rose.jpg" {
		t.Fatalf("source name lost: %s", out.SourceName)
	}
	w, h := decodeSize(t, out)
	if w != 1440 || h != 1080 {
		t.Fatalf("expected 1440x1080, got %dx%d", w, h)
	}
}

func TestCompressSingle_PortraitFrame(t *testing.T) {
	out, err := CompressSingle(jpegUpload(t, "testimony.jpg", 1000, 1000), VariantPortrait)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, h := decodeSize(t, out)
	if w != 720 || h != 1280 {
		t.Fatalf("expected 720x1280, got %dx%d", w, h)
	}
}

func TestCompressSingle_NormalizesPNG(t *testing.T) {
	out, err := CompressSingle(pngUpload(t, "knot.png", 800, 600), VariantLandscape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.MimeType != "image/jpeg" {
		t.Fatalf("png input not re-encoded to jpeg: %s", out.MimeType)
	}
	w, h := decodeSize(t, out)
	if w != 1440 || h != 1080 {
		t.Fatalf("expected 1440x1080, got %dx%d", w, h)
	}
}

func TestCompressSingle_RejectsNonImageMime(t *testing.T) {
	// valid JPEG bytes, but the declared type must win before any decode
	up := jpegUpload(t, "invoice.pdf", 100, 100)
	up.MimeType = "application/pdf"
	_, err := CompressSingle(up, VariantLandscape)
	if err == nil {
		t.Fatalf("expected error")
	}
	if apperr.KindOf(err) != apperr.KindUnsupportedMedia {
		t.Fatalf("expected unsupported media, got kind %d", apperr.KindOf(err))
	}
}

func TestCompressSingle_CorruptBytes(t *testing.T) {
	up := Upload{Name: "broken.jpg", MimeType: "image/jpeg", Data: []byte("not an image")}
	_, err := CompressSingle(up, VariantLandscape)
	if err == nil {
		t.Fatalf("expected error")
	}
	if apperr.KindOf(err) != apperr.KindProcessing {
		t.Fatalf("expected processing error, got kind %d", apperr.KindOf(err))
	}
}

func TestCompressBatch_PreservesOrder(t *testing.T) {
	hero := []Upload{
		jpegUpload(t, "hero-0.jpg", 1600, 1200),
		jpegUpload(t, "hero-1.jpg", 600, 400),
	}
	gallery := []Upload{jpegUpload(t, "gallery-0.jpg", 900, 900)}

	res, err := CompressBatch(context.Background(), hero, gallery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.HeroImages) != 2 || len(res.Images) != 1 {
		t.Fatalf("unexpected result lengths: %d hero, %d gallery", len(res.HeroImages), len(res.Images))
	}
	for i, want := range []string{"hero-0.jpg", "hero-1.jpg"} {
		if res.HeroImages[i].SourceName != want {
			t.Fatalf("hero[%d] = %s, want %s", i, res.HeroImages[i].SourceName, want)
		}
		w, h := decodeSize(t, res.HeroImages[i])
		if w != 1440 || h != 1080 {
			t.Fatalf("hero[%d] frame %dx%d", i, w, h)
		}
	}
	if res.Images[0].SourceName != "gallery-0.jpg" {
		t.Fatalf("gallery order broken: %s", res.Images[0].SourceName)
	}
}

func TestCompressBatch_EmptySequences(t *testing.T) {
	res, err := CompressBatch(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.HeroImages) != 0 || len(res.Images) != 0 {
		t.Fatalf("expected empty result")
	}
}

func TestCompressBatch_AllOrNothing(t *testing.T) {
	hero := []Upload{
		jpegUpload(t, "hero-0.jpg", 1600, 1200),
		{Name: "hero-1.jpg", MimeType: "image/jpeg", Data: []byte("corrupt")},
	}
	res, err := CompressBatch(context.Background(), hero, nil)
	if err == nil {
		t.Fatalf("expected batch failure")
	}
	if res != nil {
		t.Fatalf("partial results must be discarded")
	}
}
