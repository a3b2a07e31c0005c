package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

// objectAPI is the part of the S3 client SpacesStorage needs.
type objectAPI interface {
	HeadObjectWithContext(ctx aws.Context, input *s3.HeadObjectInput, opts ...request.Option) (*s3.HeadObjectOutput, error)
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// SpacesStorage keeps blobs in a DigitalOcean Spaces (S3 compatible) bucket
// under the "uploads/" prefix.
type SpacesStorage struct {
	client   objectAPI
	bucket   string
	cdnURL   string
	spoolDir string
}

func NewSpacesStorage(endpoint, region, bucket, cdnURL, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client:   s3.New(sess),
		bucket:   bucket,
		cdnURL:   cdnURL,
		spoolDir: os.TempDir(),
	}, nil
}

func objectKey(rel string) string {
	return "uploads/" + rel
}

// URL returns the public CDN address of a blob.
func (ss *SpacesStorage) URL(rel string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(ss.cdnURL, "/"), objectKey(rel))
}

func (ss *SpacesStorage) Put(ctx context.Context, src io.Reader, mimeType string) (string, error) {
	tmp, hasher, err := spool(ss.spoolDir, src)
	if err != nil {
		return "", err
	}
	defer discard(tmp)

	rel := BlobPath(hasher.Sum(nil), mimeType)
	key := objectKey(rel)

	exists, err := ss.exists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		log.Debug().Str("key", key).Str("url", ss.URL(rel)).Msg("[storage] object already stored")
		return rel, nil
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	_, err = ss.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(ss.bucket),
		Key:          aws.String(key),
		Body:         tmp,
		ContentType:  aws.String(contentTypeFor(rel, mimeType)),
		CacheControl: aws.String("public, max-age=604800, immutable"),
		ACL:          aws.String("public-read"),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("[storage] failed to upload object to Spaces")
		return "", fmt.Errorf("failed to upload to Spaces: %w", err)
	}

	log.Info().Str("key", key).Str("url", ss.URL(rel)).Msg("[storage] stored object")
	return rel, nil
}

func (ss *SpacesStorage) exists(ctx context.Context, key string) (bool, error) {
	_, err := ss.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("failed to check object %s: %w", key, err)
}

func contentTypeFor(rel, declared string) string {
	if declared != "" {
		return declared
	}
	if byExt := mime.TypeByExtension(filepath.Ext(rel)); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}
