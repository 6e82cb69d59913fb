package catalog

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader implements Loader for catalog files stored in an S3 bucket.
type s3Loader struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a loader using the default AWS credential chain.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 catalog loader initialised")

	return NewS3LoaderWithClient(s3.NewFromConfig(cfg), bucket, logger), nil
}

// NewS3LoaderWithClient creates a loader over an existing client.
func NewS3LoaderWithClient(client *s3.Client, bucket string, logger zerolog.Logger) Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger.With().Str("component", "s3-catalog-loader").Logger(),
	}
}

// Load reads an object. The key is the full S3 key, prefix included.
func (l *s3Loader) Load(ctx context.Context, key string) ([]byte, error) {
	l.logger.Debug().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading catalog file from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	data, err := readMaybeGzip(result.Body, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object %s: %w", key, err)
	}
	return data, nil
}

// fallbackLoader tries S3 first, then the local loader.
type fallbackLoader struct {
	remote  Loader
	local   Loader
	prefix  string
	enabled bool
	logger  zerolog.Logger
}

// NewFallbackLoader creates a loader that prefers remote and falls back to local.
// The prefix is prepended to names for the remote lookup only. A nil remote or
// enabled=false always uses local.
func NewFallbackLoader(remote, local Loader, prefix string, enabled bool, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		remote:  remote,
		local:   local,
		prefix:  prefix,
		enabled: enabled,
		logger:  logger.With().Str("component", "fallback-loader").Logger(),
	}
}

func (l *fallbackLoader) Load(ctx context.Context, name string) ([]byte, error) {
	if l.enabled && l.remote != nil {
		key := l.prefix + name

		data, err := l.remote.Load(ctx, key)
		if err == nil {
			l.logger.Info().Str("s3_key", key).Msg("catalog file loaded from S3")
			return data, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", key).
			Msg("failed to load from S3, falling back to local source")
	}

	return l.local.Load(ctx, name)
}
