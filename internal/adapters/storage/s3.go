package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
)

// S3API is the subset of the S3 client used by S3ObjectStore
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3PresignAPI is the subset of the S3 presign client used for upload URLs
type S3PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var (
	_ S3API        = (*s3.Client)(nil)
	_ S3PresignAPI = (*s3.PresignClient)(nil)
	_ ObjectStore  = (*S3ObjectStore)(nil)
)

// S3ObjectStore implements ObjectStore on a single S3 bucket
type S3ObjectStore struct {
	client    S3API
	presigner S3PresignAPI
	bucket    string
	logger    *logrus.Logger
}

// NewS3ObjectStore creates an S3-backed store.
// presigner may be nil when PresignPut is never called.
func NewS3ObjectStore(client S3API, presigner S3PresignAPI, bucket string, logger *logrus.Logger) (*S3ObjectStore, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &S3ObjectStore{
		client:    client,
		presigner: presigner,
		bucket:    bucket,
		logger:    logger,
	}, nil
}

// Open implements ObjectStore.Open
func (s *S3ObjectStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, NewStorageError("Open", key, ErrInvalidKey)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, NewStorageError("Open", key, translateS3Error(err))
	}
	return out.Body, nil
}

// Delete implements ObjectStore.Delete
func (s *S3ObjectStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return NewStorageError("Delete", key, ErrInvalidKey)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return NewStorageError("Delete", key, translateS3Error(err))
	}
	return nil
}

// Copy implements ObjectStore.Copy within the bucket
func (s *S3ObjectStore) Copy(ctx context.Context, srcKey, destKey string) error {
	if srcKey == "" || destKey == "" {
		return NewStorageError("Copy", srcKey, ErrInvalidKey)
	}

	if _, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(CopySource(s.bucket, srcKey)),
		Key:        aws.String(destKey),
	}); err != nil {
		return NewStorageError("Copy", srcKey, translateS3Error(err))
	}

	s.logger.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"from":   srcKey,
		"to":     destKey,
	}).Debug("Object copied")
	return nil
}

// PresignPut implements ObjectStore.PresignPut
func (s *S3ObjectStore) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", NewStorageError("PresignPut", key, ErrInvalidKey)
	}
	if s.presigner == nil {
		return "", NewStorageError("PresignPut", key, fmt.Errorf("presign client not configured"))
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := s.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", NewStorageError("PresignPut", key, err)
	}
	return req.URL, nil
}

// Close implements ObjectStore.Close
func (s *S3ObjectStore) Close() error {
	return nil
}

// CopySource builds the URL-escaped "bucket/key" value CopyObject expects
func CopySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return bucket + "/" + strings.Join(segments, "/")
}

func translateS3Error(err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrFileNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}
	return err
}
