// Package storage keeps uploaded avatars and screenshots on local disk or in S3.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Read when the key does not exist.
var ErrNotFound = errors.New("file not found")

// Storage stores opaque blobs under slash-separated keys such as "avatars/<name>".
type Storage interface {
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Read(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Key prefixes.
const (
	AvatarsPrefix     = "avatars"
	ScreenshotsPrefix = "screenshots"
)

// AvatarKey and ScreenshotKey build the storage key for an upload name.
func AvatarKey(name string) string     { return AvatarsPrefix + "/" + name }
func ScreenshotKey(name string) string { return ScreenshotsPrefix + "/" + name }
