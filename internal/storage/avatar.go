// Package storage holds the object-storage client used for avatar
// uploads. Any S3-compatible endpoint works; MinIO is the development
// default.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const maxAvatarSize = 5 * 1024 * 1024 // 5 MB

var (
	ErrFileTooBig      = errors.New("file exceeds the 5MB avatar limit")
	ErrInvalidFileType = errors.New("only JPEG and PNG avatars are allowed")
)

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// AvatarStore uploads avatar images and hands back a public reference URL.
type AvatarStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewAvatarStore connects to the S3-compatible endpoint and makes sure the
// bucket exists. baseURL is the public prefix under which stored objects
// are reachable; when empty, the endpoint itself is used.
func NewAvatarStore(endpoint, accessKey, secretKey, bucket string, useSSL bool, baseURL string) (*AvatarStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	if baseURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, endpoint)
	}
	return &AvatarStore{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Store validates and uploads an avatar, returning its public URL. Object
// keys are random, so re-uploading never overwrites an older avatar that
// a cached profile may still reference.
func (s *AvatarStore) Store(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	if size > maxAvatarSize {
		return "", ErrFileTooBig
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := extByContentType[ct]
	if !ok {
		return "", ErrInvalidFileType
	}

	key := fmt.Sprintf("avatars/%s%s", uuid.New().String(), ext)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: ct,
	})
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key), nil
}
