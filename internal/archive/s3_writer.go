package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// putObjectAPI is the subset of the S3 client used by s3Writer.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Writer implements Writer on AWS S3.
type s3Writer struct {
	client putObjectAPI
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Writer creates an S3-backed writer. Keys are stored under prefix.
func NewS3Writer(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Writer, error) {
	logger = logger.With().Str("component", "s3-archive").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 archive initialised")

	return newS3Writer(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func newS3Writer(client putObjectAPI, bucket, prefix string, logger zerolog.Logger) *s3Writer {
	return &s3Writer{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Write uploads the gzipped report and returns its s3:// location.
func (w *s3Writer) Write(ctx context.Context, key string, report any) (string, error) {
	var buf bytes.Buffer
	if err := encode(&buf, report); err != nil {
		return "", err
	}

	fullKey := w.prefix + key
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(w.bucket),
		Key:             aws.String(fullKey),
		Body:            bytes.NewReader(buf.Bytes()),
		ContentType:     aws.String("application/json"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		w.logger.Error().
			Err(err).
			Str("bucket", w.bucket).
			Str("key", fullKey).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", w.bucket, fullKey, err)
	}

	location := fmt.Sprintf("s3://%s/%s", w.bucket, fullKey)
	w.logger.Info().Str("location", location).Msg("report archived to S3")

	return location, nil
}

// fallbackWriter tries S3 first, then falls back to the local file system.
type fallbackWriter struct {
	s3Writer   Writer
	fileWriter Writer
	s3Enabled  bool
	logger     zerolog.Logger
}

// NewFallbackWriter creates a writer that tries S3 first, then the local file
// system. If s3Writer is nil only the file writer is used.
func NewFallbackWriter(s3Writer, fileWriter Writer, s3Enabled bool, logger zerolog.Logger) Writer {
	return &fallbackWriter{
		s3Writer:   s3Writer,
		fileWriter: fileWriter,
		s3Enabled:  s3Enabled,
		logger:     logger.With().Str("component", "fallback-archive").Logger(),
	}
}

// Write attempts S3 first, then the local file system.
func (w *fallbackWriter) Write(ctx context.Context, key string, report any) (string, error) {
	if w.s3Enabled && w.s3Writer != nil {
		location, err := w.s3Writer.Write(ctx, key, report)
		if err == nil {
			return location, nil
		}

		w.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("failed to archive to S3, falling back to local file system")
	} else {
		w.logger.Debug().
			Bool("s3_enabled", w.s3Enabled).
			Bool("has_s3_writer", w.s3Writer != nil).
			Msg("S3 disabled or not configured, using local file system")
	}

	return w.fileWriter.Write(ctx, key, report)
}
