package docstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store fetches documents from an S3-compatible object store. It accepts
// s3://bucket/key references, https object URLs whose first path segment is
// the key (virtual-hosted style), and bare keys resolved against the default
// bucket.
type S3Store struct {
	client        *s3.Client
	defaultBucket string
}

// NewS3Store creates a store backed by the AWS default credential chain.
// endpoint overrides the S3 endpoint for R2/MinIO-style deployments.
func NewS3Store(ctx context.Context, defaultBucket, endpoint string) (*S3Store, error) {
	if defaultBucket == "" {
		return nil, fmt.Errorf("resume bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &S3Store{client: client, defaultBucket: defaultBucket}, nil
}

// Fetch resolves a reference and downloads the object bytes.
func (s *S3Store) Fetch(ctx context.Context, ref string) ([]byte, string, error) {
	bucket, key, err := s.resolveRef(ref)
	if err != nil {
		return nil, "", err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, "", fmt.Errorf("failed to read object body: %w", err)
	}

	contentType := aws.ToString(out.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = ContentTypeForRef(key)
	}
	return buf.Bytes(), contentType, nil
}

// resolveRef maps the supported reference shapes to (bucket, key).
func (s *S3Store) resolveRef(ref string) (string, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", &ErrUnsupportedRef{Ref: ref}
	}

	if strings.HasPrefix(ref, "s3://") {
		rest := strings.TrimPrefix(ref, "s3://")
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return "", "", &ErrUnsupportedRef{Ref: ref}
		}
		return bucket, key, nil
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", "", &ErrUnsupportedRef{Ref: ref}
		}
		key := strings.TrimPrefix(u.Path, "/")
		if key == "" {
			return "", "", &ErrUnsupportedRef{Ref: ref}
		}
		return s.defaultBucket, key, nil
	}

	// Bare object key against the default bucket.
	return s.defaultBucket, ref, nil
}
