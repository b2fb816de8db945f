// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package assets provides the object-storage gateway for user-uploaded media.

Avatars, link icons, and profile background images are stored in an
S3-compatible bucket (Cloudflare R2 in production, MinIO in development).
Objects are keyed by a generated asset ID so that deletion never needs to
parse a public URL.

Core Responsibilities:

  - Upload: Streams file bytes into the bucket and returns the public URL
    plus the asset ID needed for later deletion.
  - Delete: Removes an object by asset ID.
  - Isolation: Domain services depend on the [Gateway] interface, never on
    the AWS SDK directly.
*/
package assets

import (
	"bytes"
	stdctx "context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/taibuivan/linkbridge/internal/platform/config"
	"github.com/taibuivan/linkbridge/internal/platform/constants"
	"github.com/taibuivan/linkbridge/pkg/uuid"
)

// File carries the bytes and metadata of an upload on its way to storage.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Asset identifies a stored object: the public URL clients render, and the
// bucket key used for deletion.
type Asset struct {
	URL     string `json:"url"`
	AssetID string `json:"assetId"`
}

// Gateway is the storage abstraction used by domain services.
type Gateway interface {
	Upload(context stdctx.Context, folder string, filename string, contentType string, data []byte) (*Asset, error)
	Delete(context stdctx.Context, assetID string) error
}

// S3Gateway implements [Gateway] on top of an S3-compatible bucket.
type S3Gateway struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

// Enforce interface compliance at compile time.
var _ Gateway = (*S3Gateway)(nil)

/*
NewS3Gateway builds an S3 client against the configured endpoint and returns
a ready-to-use gateway.

Parameters:
  - context: Context for client construction.
  - cfg: Application configuration holding bucket credentials.
  - logger: Structured logger for storage events.

Returns:
  - *S3Gateway: The configured gateway.
  - error: If the AWS configuration cannot be assembled.
*/
func NewS3Gateway(context stdctx.Context, cfg *config.Config, logger *slog.Logger) (*S3Gateway, error) {

	// Resolve the custom endpoint (R2 / MinIO) instead of aws.amazon.com
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.S3Endpoint != "" {
				return aws.Endpoint{
					URL:               cfg.S3Endpoint,
					HostnameImmutable: true,
					SigningRegion:     cfg.S3Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		},
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(context,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("assets: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		options.UsePathStyle = true
	})

	logger.Info("asset gateway ready",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("endpoint", cfg.S3Endpoint),
	)

	return &S3Gateway{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

/*
Upload stores file bytes under a generated key and returns the resulting asset.

The object key is "<folder>/<uuidv7><ext>", preserving the original file
extension so browsers infer the content type from the public URL as well.
*/
func (gateway *S3Gateway) Upload(context stdctx.Context, folder string, filename string, contentType string, data []byte) (*Asset, error) {

	// Time-sortable keys keep bucket listings roughly chronological
	assetID := folder + "/" + uuid.New() + strings.ToLower(path.Ext(filename))

	uploadCtx, cancel := stdctx.WithTimeout(context, constants.StorageTimeout)
	defer cancel()

	_, err := gateway.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(gateway.bucket),
		Key:         aws.String(assetID),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("assets: upload failed: %w", err)
	}

	return &Asset{
		URL:     gateway.publicBaseURL + "/" + assetID,
		AssetID: assetID,
	}, nil
}

/*
Delete removes an object by asset ID.

S3 DeleteObject is idempotent: deleting a missing key succeeds, so callers
do not need to special-case already-removed assets.
*/
func (gateway *S3Gateway) Delete(context stdctx.Context, assetID string) error {
	deleteCtx, cancel := stdctx.WithTimeout(context, constants.StorageTimeout)
	defer cancel()

	_, err := gateway.client.DeleteObject(deleteCtx, &s3.DeleteObjectInput{
		Bucket: aws.String(gateway.bucket),
		Key:    aws.String(assetID),
	})
	if err != nil {
		return fmt.Errorf("assets: delete failed: %w", err)
	}

	return nil
}
