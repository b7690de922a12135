// Package storage keeps uploaded resume files on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Blob drivers.
const (
	DriverDisk   = "disk"
	DriverS3     = "s3"
	DriverMemory = "memory"
)

// Store is a flat key/value store for file contents.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns the blob or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes a blob; missing blobs are not an error.
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a Store.
type Config struct {
	Driver      string
	Dir         string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PathStyle bool
}

// Open creates the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverDisk:
		return NewDiskStore(cfg.Dir)
	case DriverS3:
		return NewS3Store(ctx, cfg)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// ResumeKey builds the key of an uploaded resume.
func ResumeKey(userID, resumeID, ext string) string {
	return path.Join("resumes", userID, resumeID+strings.ToLower(ext))
}

// cleanKey normalizes a slash-separated key and rejects escapes.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return clean, nil
}
