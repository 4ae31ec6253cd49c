// Package s3svc wraps the aws-sdk-go-v2 S3 client with the operations
// the migration console needs.
package s3svc

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3migrate/pkg/config"
)

// Service is the struct for the S3 service.
type Service struct {
	cfg         config.Config
	awsS3Client *s3.Client
	log         *slog.Logger
}

// NewService creates a new S3 service.
// By default the logger is set to write to /dev/null.
func NewService(cfg config.Config, s3Client *s3.Client) *Service {
	return &Service{
		cfg:         cfg,
		awsS3Client: s3Client,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger.
func (s *Service) SetLogger(log *slog.Logger) {
	s.log = log
}

// NewAwsConfig builds the aws.Config from the tool configuration:
// a custom endpoint with static credentials (minio and friends), an
// SSO profile, or the default credential chain, in that order.
func NewAwsConfig(ctx context.Context, cfg config.Config) (aws.Config, error) {
	if cfg.S3Endpoint != "" {
		staticResolver := aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				PartitionID:       "aws",
				URL:               cfg.S3Endpoint,
				SigningRegion:     cfg.S3Region,
				HostnameImmutable: true,
			}, nil
		})
		return aws.Config{
			Region:           cfg.S3Region,
			Credentials:      credentials.NewStaticCredentialsProvider(cfg.S3APIKey, cfg.S3AccessKey, ""),
			EndpointResolver: staticResolver,
		}, nil
	}
	if cfg.SSOAwsProfile != "" {
		return awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithSharedConfigProfile(cfg.SSOAwsProfile),
		)
	}
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
	)
}

// NewClient builds the S3 client for the given tool configuration.
func NewClient(ctx context.Context, cfg config.Config) (*s3.Client, error) {
	awsCfg, err := NewAwsConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}
