// Package archive stores analytics snapshots in S3 for later review.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	fig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/techagentng/oceanwatch/config"
	"github.com/techagentng/oceanwatch/models"
)

// ObjectPutter is the subset of the S3 client the sink needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Sink struct {
	client ObjectPutter
	bucket string
	prefix string
}

func NewS3Sink(client ObjectPutter, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

// NewS3SinkFromConfig builds the S3 client from static credentials when they
// are configured and the default chain otherwise. It returns nil when no bucket is set.
func NewS3SinkFromConfig(ctx context.Context, c *config.Config) (*S3Sink, error) {
	if c.S3Bucket == "" {
		return nil, nil
	}
	opts := []func(*fig.LoadOptions) error{fig.WithRegion(c.S3Region)}
	if c.AWSAccessKeyID != "" {
		opts = append(opts, fig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AWSAccessKeyID, c.AWSSecretAccessKey, ""),
		))
	}
	cfg, err := fig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %v", err)
	}
	return NewS3Sink(s3.NewFromConfig(cfg), c.S3Bucket, c.S3Prefix), nil
}

// Key is the object key of a summary: <prefix>/<yyyy-mm-dd>/<unix nanos>.json.
func (s *S3Sink) Key(summary models.Summary) string {
	t := summary.GeneratedAt.UTC()
	return path.Join(s.prefix, t.Format("2006-01-02"), fmt.Sprintf("%d.json", t.UnixNano()))
}

func (s *S3Sink) Store(ctx context.Context, summary models.Summary) error {
	body, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(summary)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload summary to S3: %v", err)
	}
	return nil
}
