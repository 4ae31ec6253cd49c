package s3svc

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/sgaunet/s3migrate/pkg/dto"
)

// DefaultRestoreDays is the restore duration used when the config does
// not specify one.
const DefaultRestoreDays int32 = 7

// ListObjects returns the fully materialized, key-sorted object list of
// a bucket. Pagination is handled transparently.
func (s *Service) ListObjects(ctx context.Context, bucket string, prefix string) ([]dto.Object, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	paginator := s3.NewListObjectsV2Paginator(s.awsS3Client, input)

	result := []dto.Object{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ListObjects: error of paginator.NextPage: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			o := dto.Object{
				Key:          *obj.Key,
				LastModified: obj.LastModified,
				StorageClass: dto.ClassFromAPI(types.StorageClass(obj.StorageClass)),
			}
			if obj.Size != nil {
				o.Size = *obj.Size
			}
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })

	s.log.Debug("Listed objects", slog.String("bucket", bucket), slog.Int("count", len(result)))
	return result, nil
}

// RefreshObject re-fetches the metadata of a single object, including
// its restore status.
func (s *Service) RefreshObject(ctx context.Context, bucket string, key string) (dto.Object, error) {
	head, err := s.awsS3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return dto.Object{}, fmt.Errorf("RefreshObject: error when called HeadObject: %w", err)
	}
	o := dto.Object{
		Key:          key,
		LastModified: head.LastModified,
		StorageClass: dto.ClassFromAPI(head.StorageClass),
	}
	if head.ContentLength != nil {
		o.Size = *head.ContentLength
	}
	if head.Restore != nil {
		o.Restore = dto.ParseRestoreToken(*head.Restore)
	}
	return o, nil
}

// TransitionStorageClass moves an object to the target class by copying
// it onto itself with a new storage class. The metadata is preserved.
func (s *Service) TransitionStorageClass(ctx context.Context, bucket string, key string, target dto.StorageClass) error {
	apiClass, ok := target.ToAPI()
	if !ok {
		return fmt.Errorf("TransitionStorageClass: class %s is not a valid migration target", target)
	}
	// the x-amz-copy-source header value must be URL-encoded
	source := url.PathEscape(fmt.Sprintf("%s/%s", bucket, key))
	_, err := s.awsS3Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:            aws.String(bucket),
		Key:               aws.String(key),
		CopySource:        aws.String(source),
		StorageClass:      apiClass,
		MetadataDirective: types.MetadataDirectiveCopy,
	})
	if err != nil {
		return fmt.Errorf("TransitionStorageClass: error when called CopyObject: %w", err)
	}
	s.log.Debug("Transitioned object",
		slog.String("key", key),
		slog.String("class", string(target)))
	return nil
}

// RequestRestore requests a temporary restore of an archived object.
// https://pkg.go.dev/github.com/aws/aws-sdk-go-v2/service/s3/types#RestoreRequest
func (s *Service) RequestRestore(ctx context.Context, bucket string, key string, days int32) error {
	if days <= 0 {
		days = int32(s.cfg.RestoreDays)
		if days <= 0 {
			days = DefaultRestoreDays
		}
		s.log.Debug("Using default restore days", slog.Int("days", int(days)))
	}
	r := types.RestoreRequest{
		Days: aws.Int32(days),
		GlacierJobParameters: &types.GlacierJobParameters{
			Tier: types.TierStandard,
		},
	}
	_, err := s.awsS3Client.RestoreObject(ctx, &s3.RestoreObjectInput{
		Bucket:         aws.String(bucket),
		Key:            aws.String(key),
		RestoreRequest: &r,
	})
	if err != nil {
		return fmt.Errorf("RequestRestore: error when called RestoreObject: %w", err)
	}
	s.log.Debug("Restore requested", slog.String("key", key), slog.Int("days", int(days)))
	return nil
}
