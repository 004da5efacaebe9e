// Package snapshot stores the file backend's JSON snapshot either on the
// local filesystem or in S3-compatible object storage.
package snapshot

import (
	"context"
	"fmt"
	"strings"

	sc "github.com/dmitrijs2005/smartnotes/internal/server/config"
)

// Sink loads and saves one opaque snapshot blob.
type Sink interface {
	// Load returns the stored snapshot, or nil with no error when none exists yet.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored snapshot atomically.
	Save(ctx context.Context, data []byte) error
	// Location describes where the snapshot lives, for logs.
	Location() string
}

const s3Scheme = "s3://"

// NewSink picks a Sink for location: "s3://bucket/key" selects object
// storage, anything else is a local file path.
func NewSink(ctx context.Context, location string, cfg *sc.Config) (Sink, error) {
	if !strings.HasPrefix(location, s3Scheme) {
		return NewFileSink(location), nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(location, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid snapshot location %q, want s3://bucket/key", location)
	}
	return NewS3Sink(ctx, cfg, bucket, key)
}
