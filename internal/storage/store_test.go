package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	cf "github.com/aws/aws-sdk-go-v2/service/cloudfront"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/Creatishin/flora-knots-be/internal/apperr"
	"github.com/Creatishin/flora-knots-be/internal/images"
)

type mockS3 struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
	delErr  error
}

func newMockS3() *mockS3 {
	return &mockS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *mockS3) PutObject(_ context.Context, in *s3svc.PutObjectInput, _ ...func(*s3svc.Options)) (*s3svc.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[*in.Key] = data
	m.types[*in.Key] = *in.ContentType
	return &s3svc.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3svc.DeleteObjectInput, _ ...func(*s3svc.Options)) (*s3svc.DeleteObjectOutput, error) {
	if m.delErr != nil {
		return nil, m.delErr
	}
	delete(m.objects, *in.Key)
	return &s3svc.DeleteObjectOutput{}, nil
}

type mockCloudFront struct {
	paths []string
	err   error
}

func (m *mockCloudFront) CreateInvalidation(_ context.Context, in *cf.CreateInvalidationInput, _ ...func(*cf.Options)) (*cf.CreateInvalidationOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.paths = append(m.paths, in.InvalidationBatch.Paths.Items...)
	return &cf.CreateInvalidationOutput{}, nil
}

func fixedStore(s3c *mockS3, cfc *mockCloudFront) *Store {
	s := New(s3c, cfc, "flora-knots-media", "DIST123", zap.NewNop())
	s.nowFunc = func() time.Time {
		return time.Date(2024, 5, 12, 9, 30, 0, 0, time.UTC)
	}
	return s
}

func TestUpload_KeyAndContentType(t *testing.T) {
	s3c := newMockS3()
	s := fixedStore(s3c, &mockCloudFront{})

	img := &images.Compressed{SourceName: "rose.jpg", MimeType: "image/jpeg", Buffer: []byte("jpegbytes")}
	key, err := s.Upload(context.Background(), "category/roses", img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(key, "category/roses_2024-05-12T09-30-00") {
		t.Fatalf("unexpected key: %s", key)
	}
	if strings.ContainsAny(key, ":.") {
		t.Fatalf("key must not contain ':' or '.': %s", key)
	}
	if string(s3c.objects[key]) != "jpegbytes" {
		t.Fatalf("body not stored")
	}
	if s3c.types[key] != "image/jpeg" {
		t.Fatalf("content type not stored: %s", s3c.types[key])
	}
}

func TestUpload_KeyCarriesMilliseconds(t *testing.T) {
	s3c := newMockS3()
	s := fixedStore(s3c, &mockCloudFront{})
	s.nowFunc = func() time.Time {
		return time.Date(2024, 5, 12, 9, 30, 0, 123000000, time.UTC)
	}

	img := &images.Compressed{MimeType: "image/jpeg", Buffer: []byte("x")}
	key, err := s.Upload(context.Background(), "testimony", img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "testimony_2024-05-12T09-30-00-123Z" {
		t.Fatalf("milliseconds dropped from key: %s", key)
	}

	// A second upload in the same second under the same prefix must not
	// reuse the key, or it would overwrite the first object.
	s.nowFunc = func() time.Time {
		return time.Date(2024, 5, 12, 9, 30, 0, 124000000, time.UTC)
	}
	key2, err := s.Upload(context.Background(), "testimony", img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key2 == key {
		t.Fatalf("same-second uploads collided on key %s", key)
	}
	if len(s3c.objects) != 2 {
		t.Fatalf("expected 2 stored objects, got %d", len(s3c.objects))
	}
}

func TestUpload_PropagatesFailure(t *testing.T) {
	s3c := newMockS3()
	s3c.putErr = errors.New("s3 down")
	s := fixedStore(s3c, &mockCloudFront{})

	_, err := s.Upload(context.Background(), "testimony", &images.Compressed{MimeType: "image/jpeg"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if apperr.KindOf(err) != apperr.KindProcessing {
		t.Fatalf("expected processing kind, got %d", apperr.KindOf(err))
	}
}

func TestDelete_BestEffort(t *testing.T) {
	s3c := newMockS3()
	s3c.objects["k1"] = []byte("x")
	s := fixedStore(s3c, &mockCloudFront{})

	if ok := s.Delete(context.Background(), "k1"); !ok {
		t.Fatalf("expected delete to succeed")
	}
	if ok := s.Delete(context.Background(), ""); ok {
		t.Fatalf("empty key must be a no-op")
	}

	s3c.delErr = errors.New("s3 down")
	if ok := s.Delete(context.Background(), "k2"); ok {
		t.Fatalf("failure must be swallowed and reported false")
	}
}

func TestInvalidate(t *testing.T) {
	cfc := &mockCloudFront{}
	s := fixedStore(newMockS3(), cfc)

	if ok := s.Invalidate(context.Background(), "category/roses_x"); !ok {
		t.Fatalf("expected invalidation to succeed")
	}
	if len(cfc.paths) != 1 || cfc.paths[0] != "/category/roses_x" {
		t.Fatalf("path must be slash-prefixed, got %v", cfc.paths)
	}

	cfc.err = errors.New("cloudfront down")
	if ok := s.Invalidate(context.Background(), "k"); ok {
		t.Fatalf("failure must be swallowed")
	}

	// no distribution configured
	bare := New(newMockS3(), cfc, "bucket", "", zap.NewNop())
	if ok := bare.Invalidate(context.Background(), "k"); ok {
		t.Fatalf("no-op expected without a distribution")
	}
}
