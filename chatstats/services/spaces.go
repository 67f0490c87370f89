package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SpacesService mirrors CSV exports and chart images to an S3-compatible
// bucket (DigitalOcean Spaces) so staff can fetch them outside the chat.
type SpacesService struct {
	client     *s3.Client
	bucket     string
	region     string
	exportRoot string
}

func NewSpacesService(key, secret, region, bucket, exportRoot string) (*SpacesService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load Spaces config: %w", err)
	}

	return &SpacesService{
		client:     s3.NewFromConfig(cfg),
		bucket:     bucket,
		region:     region,
		exportRoot: strings.Trim(exportRoot, "/"),
	}, nil
}

// UploadExport stores a blob under a timestamped key and returns the public
// URL.
func (s *SpacesService) UploadExport(ctx context.Context, name string, blob []byte, contentType string) (string, error) {
	key := fmt.Sprintf("%s/%s/%s", s.exportRoot, time.Now().UTC().Format("2006-01-02"), name)
	key = strings.TrimPrefix(key, "/")

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(blob),
		ContentType: &contentType,
	})
	if err != nil {
		slog.Error("Failed to upload export",
			slog.String("key", key),
			slog.Any("error", err))
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}

	url := fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, key)
	slog.Info("Export uploaded",
		slog.String("key", key),
		slog.Int("size", len(blob)))
	return url, nil
}
