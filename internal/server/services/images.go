package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/dmitrijs2005/herowall/internal/logging"
	sc "github.com/dmitrijs2005/herowall/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const uploadURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// ImageService hands out presigned upload URLs for card artwork. The
// returned key is what clients store as a card's image reference.
type ImageService struct {
	config *sc.Config
	log    logging.Logger
	now    func() time.Time
}

func NewImageService(config *sc.Config, log logging.Logger) *ImageService {
	return &ImageService{
		config: config,
		log:    log.With("module", "images"),
		now:    time.Now,
	}
}

func (s *ImageService) storageKey(userID string) string {
	d := s.now().UTC()
	return fmt.Sprintf("cards/%s/%d/%02d/%02d/%v", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ImageService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a fresh object key under the caller's prefix and a
// presigned PUT URL for it.
func (s *ImageService) PresignUpload(ctx context.Context, userID string) (string, string, error) {

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		s.log.Error(ctx, "s3 client setup failed", "error", err)
		return "", "", common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := s.storageKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(uploadURLValidity))

	if err != nil {
		s.log.Error(ctx, "presign put failed", "error", err, "key", key)
		return "", "", common.ErrorInternal
	}

	return key, req.URL, nil
}
