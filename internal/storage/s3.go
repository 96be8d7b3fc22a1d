package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Storage struct {
	client     *s3.Client
	bucket     string
	region     string
	publicBase string
}

// NewS3Storage serves objects from bucket. publicBase, when set, replaces
// the virtual-hosted bucket URL in PublicURL (a CDN or custom endpoint).
func NewS3Storage(client *s3.Client, bucket, region, publicBase string) *S3Storage {
	return &S3Storage{
		client:     client,
		bucket:     bucket,
		region:     region,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

// List returns the keys under prefix, skipping folder placeholders.
func (s *S3Storage) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			var noBucket *types.NoSuchBucket
			if errors.As(err, &noBucket) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		for _, obj := range page.Contents {
			if key := aws.ToString(obj.Key); key != "" && !strings.HasSuffix(key, "/") {
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *S3Storage) PublicURL(key string) string {
	return PublicURL(s.bucket, s.region, s.publicBase, key)
}

// PublicURL builds the URL an object is served from.
func PublicURL(bucket, region, publicBase, key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if publicBase != "" {
		return strings.TrimRight(publicBase, "/") + "/" + strings.TrimLeft(escaped, "/")
	}
	return "https://" + bucket + ".s3." + region + ".amazonaws.com/" + strings.TrimLeft(escaped, "/")
}
