// Package s3 implements the storage driver contract over an S3 bucket.
//
// S3 has no directories; the driver models one as a zero-byte marker object
// whose key ends in "/", with the directory's subtree being every object
// under that key prefix. This matches how the AWS console and most S3
// tooling render folders.
package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/relayfs/relayfs/pkg/driver"
)

// deleteBatchSize is the DeleteObjects API limit per request.
const deleteBatchSize = 1000

// Config holds the settings needed to reach the bucket.
type Config struct {
	// Region is the AWS region. Required.
	Region string

	// Bucket is the bucket name. Required.
	Bucket string

	// KeyPrefix namespaces all keys under a common prefix (e.g. "relayfs/").
	KeyPrefix string

	// Endpoint overrides the S3 endpoint, for MinIO/Localstack setups.
	Endpoint string

	// AccessKeyID and SecretAccessKey set static credentials; when empty
	// the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// S3Driver executes directory operations against an S3 bucket.
type S3Driver struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// New builds the S3 client from the configuration and returns the driver.
// No request is issued until the first operation.
func New(ctx context.Context, cfg Config) (*S3Driver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 driver: bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 driver: region is required")
	}

	var configOptions []func(*awsConfig.LoadOptions) error
	configOptions = append(configOptions, awsConfig.WithRegion(cfg.Region))

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("s3 driver: load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing is required by MinIO and Localstack
			o.UsePathStyle = true
		}
	})

	return NewWithClient(client, cfg.Bucket, cfg.KeyPrefix), nil
}

// NewWithClient wraps an existing S3 client. Used by tests.
func NewWithClient(client *s3.Client, bucket, keyPrefix string) *S3Driver {
	return &S3Driver{
		client:    client,
		bucket:    bucket,
		keyPrefix: keyPrefix,
	}
}

func (d *S3Driver) Type() driver.Type {
	return driver.TypeS3
}

// DirectoryKey maps an absolute directory path to the marker object key.
// "/a/b" with prefix "fs/" becomes "fs/a/b/".
func (d *S3Driver) DirectoryKey(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return d.keyPrefix
	}
	return d.keyPrefix + trimmed + "/"
}

func (d *S3Driver) MakeDirectory(ctx context.Context, path string, mode uint32) error {
	key := d.DirectoryKey(path)
	if key == d.keyPrefix {
		return driver.NewError(driver.CodeAlreadyExists, "root directory always exists", path)
	}

	if exists, err := d.keyExists(ctx, key); err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), path)
	} else if exists {
		return driver.NewError(driver.CodeAlreadyExists, "directory already exists", path)
	}

	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
		Body:   strings.NewReader(""),
	})
	if err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), path)
	}

	return nil
}

func (d *S3Driver) RemoveDirectory(ctx context.Context, path string, recursive bool) error {
	key := d.DirectoryKey(path)
	if key == d.keyPrefix {
		return driver.NewError(driver.CodeIO, "cannot remove root directory", path)
	}

	if !recursive {
		return d.removeEmpty(ctx, key, path)
	}
	return d.removeRecursive(ctx, key, path)
}

// removeEmpty deletes the marker only if nothing else lives under the prefix.
func (d *S3Driver) removeEmpty(ctx context.Context, key, path string) error {
	out, err := d.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(d.bucket),
		Prefix:  aws.String(key),
		MaxKeys: aws.Int32(2),
	})
	if err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), path)
	}

	switch {
	case len(out.Contents) == 0:
		return driver.NewError(driver.CodeNotFound, "directory does not exist", path)
	case len(out.Contents) > 1 || aws.ToString(out.Contents[0].Key) != key:
		return driver.NewError(driver.CodeNotEmpty, "directory not empty", path)
	}

	_, err = d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), path)
	}

	return nil
}

// removeRecursive lists the whole prefix and batch-deletes it,
// deleteBatchSize objects per DeleteObjects request.
func (d *S3Driver) removeRecursive(ctx context.Context, key, path string) error {
	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(key),
	})

	found := false
	batch := make([]types.ObjectIdentifier, 0, deleteBatchSize)

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return driver.NewError(driver.CodeIO, err.Error(), path)
		}

		for _, object := range page.Contents {
			found = true
			batch = append(batch, types.ObjectIdentifier{Key: object.Key})

			if len(batch) == deleteBatchSize {
				if err := d.deleteBatch(ctx, batch); err != nil {
					return driver.NewError(driver.CodeIO, err.Error(), path)
				}
				batch = batch[:0]
			}
		}
	}

	if !found {
		return driver.NewError(driver.CodeNotFound, "directory does not exist", path)
	}

	if len(batch) > 0 {
		if err := d.deleteBatch(ctx, batch); err != nil {
			return driver.NewError(driver.CodeIO, err.Error(), path)
		}
	}

	return nil
}

func (d *S3Driver) deleteBatch(ctx context.Context, objects []types.ObjectIdentifier) error {
	_, err := d.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(d.bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	return err
}

func (d *S3Driver) keyExists(ctx context.Context, key string) (bool, error) {
	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
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
