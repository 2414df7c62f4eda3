package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const DefaultRegion = "us-east-1"

// Archive keeps a copy of every generated document.
type Archive interface {
	// Put stores data under name and returns the location it was written to.
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type Settings struct {
	Enabled bool   `mapstructure:"enabled"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// PutObjectAPI is the part of the S3 client the archive needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// New returns an S3 archive, or a no-op archive when archiving is disabled.
func New(ctx context.Context, settings Settings) (Archive, error) {
	if !settings.Enabled {
		return Nop{}, nil
	}
	if settings.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is required when archiving is enabled")
	}

	awsCfg, err := LoadConfig(ctx, settings)
	if err != nil {
		return nil, err
	}
	return NewS3Archive(s3.NewFromConfig(awsCfg), settings.Bucket, settings.Prefix), nil
}

func LoadConfig(ctx context.Context, settings Settings) (awssdk.Config, error) {
	region := settings.Region
	if region == "" {
		region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(region)}
	if settings.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(settings.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return awsCfg, nil
}

type s3Archive struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Archive(client PutObjectAPI, bucket, prefix string) Archive {
	return &s3Archive{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (a *s3Archive) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Join(a.prefix, name)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        awssdk.String(a.bucket),
		Key:           awssdk.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   awssdk.String(contentType),
		ContentLength: awssdk.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, a.bucket, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

// Nop discards documents.
type Nop struct{}

func (Nop) Put(context.Context, string, string, []byte) (string, error) {
	return "", nil
}
