package artifacts

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashicorp/go-hclog"
)

// DefaultRegion applies when neither configuration nor AWS_REGION
// names a region
const DefaultRegion = "us-east-1"

// ResolveRegion picks the effective region from configuration, then
// the environment, then the default
func ResolveRegion(region string) string {
	if region != "" {
		return region
	}
	if env := os.Getenv("AWS_REGION"); env != "" {
		return env
	}
	return DefaultRegion
}

// Uploader pushes run artifacts to S3. Upload problems never abort a
// run; missing local files are skipped with a warning and failures
// surface as a partial count plus the first error.
type Uploader struct {
	uploader *manager.Uploader
	bucket   string
	logger   hclog.Logger
}

// NewUploader builds an uploader against the default AWS credential
// chain
func NewUploader(ctx context.Context, bucket, region string, logger hclog.Logger) (*Uploader, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(ResolveRegion(region)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &Uploader{
		uploader: manager.NewUploader(s3.NewFromConfig(cfg)),
		bucket:   bucket,
		logger:   logger,
	}, nil
}

// Bucket returns the upload target
func (u *Uploader) Bucket() string {
	return u.bucket
}

// UploadFile puts one local file at key
func (u *Uploader) UploadFile(ctx context.Context, localPath, key string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	_, err = u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// UploadRun uploads the named artifacts from dir under prefix. Files
// absent locally are skipped with a warning. Failed uploads are
// logged and the loop continues; the first failure is returned with
// the count of files that did land.
func (u *Uploader) UploadRun(ctx context.Context, dir, prefix string, names []string) (int, error) {
	uploaded := 0
	var firstErr error

	for _, name := range names {
		localPath := filepath.Join(dir, name)
		if _, err := os.Stat(localPath); err != nil {
			u.logger.Warn("artifact missing, skipping upload", "file", name)
			continue
		}

		key := path.Join(prefix, name)
		if err := u.UploadFile(ctx, localPath, key); err != nil {
			u.logger.Error("artifact upload failed", "key", key, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		u.logger.Info("uploaded artifact", "bucket", u.bucket, "key", key)
		uploaded++
	}

	return uploaded, firstErr
}
