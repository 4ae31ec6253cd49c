package s3svc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3migrate/pkg/dto"
)

// ListBuckets returns all buckets accessible with the current
// credentials, sorted by name. The region lookup is best effort: a
// bucket whose location cannot be read is still listed.
func (s *Service) ListBuckets(ctx context.Context) ([]dto.Bucket, error) {
	s.log.Debug("Listing buckets")

	output, err := s.awsS3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		s.log.Error("Failed to list buckets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	buckets := make([]dto.Bucket, 0, len(output.Buckets))
	for _, bucket := range output.Buckets {
		if bucket.Name == nil {
			continue
		}
		b := dto.Bucket{
			Name:         *bucket.Name,
			CreationDate: bucket.CreationDate,
		}
		region, err := s.bucketRegion(ctx, b.Name)
		if err != nil {
			s.log.Debug("Failed to resolve bucket region",
				slog.String("bucket", b.Name),
				slog.String("error", err.Error()))
		} else {
			b.Region = region
		}
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Name < buckets[j].Name })

	s.log.Debug("Listed buckets", slog.Int("count", len(buckets)))
	return buckets, nil
}

// bucketRegion resolves the bucket location constraint. An empty
// constraint means us-east-1 and is reported as empty.
func (s *Service) bucketRegion(ctx context.Context, bucket string) (string, error) {
	resp, err := s.awsS3Client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: &bucket,
	})
	if err != nil {
		return "", fmt.Errorf("bucketRegion: error when called GetBucketLocation: %w", err)
	}
	return string(resp.LocationConstraint), nil
}
