// Package s3 stores catalog photos in an S3 compatible bucket.
package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"sarana/config"
	"sarana/infras/otel"
	"sarana/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrKey    = "key"
	otelAttrBucket = "bucket"
	otelAttrSize   = "size"
)

// S3 writes and removes objects in the configured bucket. Keys are slash separated paths.
type S3 interface {
	Put(ctx context.Context, key, contentType string, data []byte) (url string, err error)
	Remove(ctx context.Context, key string) error
}

type s3Impl struct {
	client objectAPI
	bucket string
	domain string
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) S3 {
	creds := credentials.NewStaticCredentialsProvider(cfg.External.S3.AccessKeyID, cfg.External.S3.SecretAccessKey, "")

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), awsConfig.WithCredentialsProvider(creds))
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.External.S3.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.External.S3.APIEndpoint)
		}

		o.UsePathStyle = true
		o.Region = "auto"
	})

	return newWithClient(client, cfg.External.S3.BucketName, cfg.External.S3.PublicDomain, otl)
}

func newWithClient(client objectAPI, bucket, domain string, otl otel.Otel) *s3Impl {
	return &s3Impl{
		client: client,
		bucket: bucket,
		domain: domain,
		otel:   otl,
	}
}

func (svc *s3Impl) Put(ctx context.Context, key, contentType string, data []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Put")
	defer scope.End()
	defer scope.TraceIfError(err)

	key = strings.TrimPrefix(key, "/")
	scope.SetAttributes(map[string]any{
		otelAttrKey:    key,
		otelAttrBucket: svc.bucket,
		otelAttrSize:   len(data),
	})

	body := bytes.NewReader(data)

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(svc.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(body.Size()),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload object")

		return constant.Empty, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return PublicURL(svc.domain, key), nil
}

func (svc *s3Impl) Remove(ctx context.Context, key string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Remove")
	defer scope.End()
	defer scope.TraceIfError(err)

	key = strings.TrimPrefix(key, "/")
	scope.SetAttributes(map[string]any{
		otelAttrKey:    key,
		otelAttrBucket: svc.bucket,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to remove object")

		return fmt.Errorf("failed to remove %s: %w", key, err)
	}

	return nil
}

// PublicURL joins the public domain and object key.
func PublicURL(publicDomain, key string) string {
	return strings.TrimSuffix(publicDomain, "/") + "/" + strings.TrimPrefix(key, "/")
}
