// Package blob reads and writes the analytic datasets as JSON Lines, either
// on S3 or on a local directory.
package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by this package.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Store reads and writes datasets under s3://bucket/prefix/<dataset>/.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// S3Option configures an S3Store.
type S3Option func(*S3Store)

// WithS3Client sets a custom S3 client (useful for testing).
func WithS3Client(c S3API) S3Option {
	return func(s *S3Store) { s.client = c }
}

// NewS3Store creates a store for the given s3://bucket/prefix URI.
func NewS3Store(ctx context.Context, uri, region string, opts ...S3Option) (*S3Store, error) {
	bucket, prefix, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	s := &S3Store{bucket: bucket, prefix: prefix}
	for _, o := range opts {
		o(s)
	}
	if s.client == nil {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		s.client = s3.NewFromConfig(cfg)
	}
	return s, nil
}

// ParseS3URI splits an s3://bucket/prefix URI.
func ParseS3URI(uri string) (bucket, prefix string, err error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q (want s3://bucket/prefix)", uri)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

func (s *S3Store) datasetPrefix(dataset string) string {
	if s.prefix == "" {
		return dataset + "/"
	}
	return s.prefix + "/" + dataset + "/"
}

// WriteDataset fully replaces the named dataset: existing objects under its
// prefix are deleted, then a single JSON Lines part object is written.
func (s *S3Store) WriteDataset(ctx context.Context, dataset string, data []byte) error {
	if err := s.deletePrefix(ctx, s.datasetPrefix(dataset)); err != nil {
		return fmt.Errorf("clearing dataset %s: %w", dataset, err)
	}
	key := s.datasetPrefix(dataset) + "part-00000.json"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("writing dataset %s: %w", dataset, err)
	}
	return nil
}

// ReadAll concatenates every object under the store's prefix, in key order.
// Used for event feeds exported as JSON Lines parts.
func (s *S3Store) ReadAll(ctx context.Context) ([]byte, error) {
	keys, err := s.listKeys(ctx, s.prefix)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, key := range keys {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: &s.bucket,
			Key:    &key,
		})
		if err != nil {
			return nil, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, key, err)
		}
		if _, err := io.Copy(&buf, out.Body); err != nil {
			_ = out.Body.Close()
			return nil, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, key, err)
		}
		_ = out.Body.Close()
		if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

func (s *S3Store) listKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var continuation *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            &prefix,
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("listing s3://%s/%s: %w", s.bucket, prefix, err)
		}
		for _, obj := range out.Contents {
			keys = append(keys, *obj.Key)
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			return keys, nil
		}
		continuation = out.NextContinuationToken
	}
}

func (s *S3Store) deletePrefix(ctx context.Context, prefix string) error {
	keys, err := s.listKeys(ctx, prefix)
	if err != nil {
		return err
	}
	// DeleteObjects accepts at most 1000 keys per call.
	for len(keys) > 0 {
		batch := keys
		if len(batch) > 1000 {
			batch = keys[:1000]
		}
		keys = keys[len(batch):]

		objects := make([]s3types.ObjectIdentifier, 0, len(batch))
		for i := range batch {
			objects = append(objects, s3types.ObjectIdentifier{Key: &batch[i]})
		}
		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: &s.bucket,
			Delete: &s3types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("deleting under %s: %w", prefix, err)
		}
	}
	return nil
}

// jsonLines renders rows as newline-delimited JSON.
func jsonLines[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
