package export

import (
	"bytes"
	"context"
	"fmt"
	"path"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const DefaultRegion = "us-east-1"

type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive uploads exported workbooks to an S3 bucket under a key prefix.
type Archive struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewArchive(client PutObjectAPI, bucket, prefix string) (*Archive, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	return &Archive{client: client, bucket: bucket, prefix: prefix}, nil
}

// NewS3Archive builds an Archive from the default AWS credential chain.
func NewS3Archive(ctx context.Context, bucket, prefix string) (*Archive, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithDefaultRegion(DefaultRegion))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return NewArchive(s3.NewFromConfig(awsCfg), bucket, prefix)
}

// Put stores body under prefix/name and returns the object URI.
func (a *Archive) Put(ctx context.Context, name string, body []byte) (string, error) {
	key := path.Join(a.prefix, name)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        awssdk.String(a.bucket),
		Key:           awssdk.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   awssdk.String(ContentType),
		ContentLength: awssdk.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, a.bucket, err)
	}

	uri := fmt.Sprintf("s3://%s/%s", a.bucket, key)
	zerolog.Ctx(ctx).Info().Str("uri", uri).Int("bytes", len(body)).Msg("export archived")
	return uri, nil
}
