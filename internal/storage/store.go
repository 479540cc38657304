// Package storage puts compressed images in S3 and keeps the CDN cache in
// step with deletions. Deletion and invalidation are best-effort; upload
// failures propagate because the caller cannot persist a key it never got.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	cf "github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/Creatishin/flora-knots-be/internal/apperr"
	"github.com/Creatishin/flora-knots-be/internal/aws"
	"github.com/Creatishin/flora-knots-be/internal/images"
)

// keyTimeLayout carries millisecond resolution; keyTimestamp strips the ':'
// and '.' S3 tolerates but CDNs and shells do not.
const keyTimeLayout = "2006-01-02T15:04:05.000Z"

func keyTimestamp(t time.Time) string {
	s := t.UTC().Format(keyTimeLayout)
	s = strings.ReplaceAll(s, ":", "-")
	return strings.ReplaceAll(s, ".", "-")
}

// Store wraps the bucket and the distribution fronting it.
type Store struct {
	s3             aws.S3API
	cloudfront     aws.CloudFrontAPI
	bucket         string
	distributionID string
	log            *zap.Logger
	nowFunc        func() time.Time
}

// New creates a Store. distributionID may be empty when no CDN is attached;
// Invalidate then becomes a no-op.
func New(s3Client aws.S3API, cfClient aws.CloudFrontAPI, bucket, distributionID string, log *zap.Logger) *Store {
	return &Store{
		s3:             s3Client,
		cloudfront:     cfClient,
		bucket:         bucket,
		distributionID: distributionID,
		log:            log.With(zap.String("component", "storage")),
		nowFunc:        time.Now,
	}
}

// Upload stores a compressed image under a timestamped key derived from
// prefix and returns the key.
func (s *Store) Upload(ctx context.Context, prefix string, img *images.Compressed) (string, error) {
	key := fmt.Sprintf("%s_%s", prefix, keyTimestamp(s.nowFunc()))

	_, err := s.s3.PutObject(ctx, &s3svc.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(img.Buffer),
		ContentType: &img.MimeType,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindProcessing, "upload image", err)
	}
	return key, nil
}

// Delete removes an object. Best-effort: failures are logged and reported as
// false.
func (s *Store) Delete(ctx context.Context, key string) bool {
	if key == "" {
		return false
	}
	_, err := s.s3.DeleteObject(ctx, &s3svc.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		s.log.Warn("delete object failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Invalidate purges the CDN cache entry for key. Best-effort.
func (s *Store) Invalidate(ctx context.Context, key string) bool {
	if s.distributionID == "" || key == "" {
		return false
	}

	callerRef := fmt.Sprintf("%d", s.nowFunc().UnixNano())
	path := "/" + key
	one := int32(1)

	_, err := s.cloudfront.CreateInvalidation(ctx, &cf.CreateInvalidationInput{
		DistributionId: &s.distributionID,
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: &callerRef,
			Paths: &cftypes.Paths{
				Quantity: &one,
				Items:    []string{path},
			},
		},
	})
	if err != nil {
		s.log.Warn("cdn invalidation failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Remove deletes an object and invalidates its CDN entry, both best-effort.
func (s *Store) Remove(ctx context.Context, key string) {
	s.Delete(ctx, key)
	s.Invalidate(ctx, key)
}
