package assets

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// maxManifestBytes bounds how much of a remote manifest is read.
const maxManifestBytes = 4 << 20

// ObjectGetter is the subset of *s3.Client used to fetch a manifest.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadS3 fetches a manifest.json object from S3. Deployments that publish
// bundles to a bucket use this so every server instance derives the same
// asset version from the same object.
//
//	client := s3.NewFromConfig(cfg)
//	manifest, err := assets.LoadS3(ctx, client, "my-bucket", "build/manifest.json")
func LoadS3(ctx context.Context, client ObjectGetter, bucket, key string) (*Manifest, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("assets: get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxManifestBytes+1))
	if err != nil {
		return nil, fmt.Errorf("assets: read s3://%s/%s: %w", bucket, key, err)
	}
	if len(data) > maxManifestBytes {
		return nil, fmt.Errorf("assets: s3://%s/%s exceeds %d bytes", bucket, key, maxManifestBytes)
	}
	return Parse(data)
}

// NewAnonymousS3Client returns an S3 client for public buckets.
func NewAnonymousS3Client(region string) *s3.Client {
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.AnonymousCredentials{},
	})
}
