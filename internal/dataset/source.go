package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"food-facilities-api-server/internal/models"
)

// Source yields the raw permit CSV.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// ObjectOpener reads an object from a bucket store.
type ObjectOpener interface {
	OpenObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// FileSource reads the CSV from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	return f, nil
}

func (s FileSource) String() string { return s.Path }

// ObjectSource reads the CSV from an S3 object.
type ObjectSource struct {
	Opener ObjectOpener
	Bucket string
	Key    string
}

func (s ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	rc, err := s.Opener.OpenObject(ctx, s.Bucket, s.Key)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s, err)
	}
	return rc, nil
}

func (s ObjectSource) String() string { return "s3://" + s.Bucket + "/" + s.Key }

// NewSource picks a Source for location: "s3://bucket/key" uses opener,
// anything else is a file path. opener may be nil for file locations.
func NewSource(location string, opener ObjectOpener) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("dataset: empty source location")
	}
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return FileSource{Path: location}, nil
	}

	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return nil, fmt.Errorf("dataset: malformed s3 location %q", location)
	}
	if opener == nil {
		return nil, fmt.Errorf("dataset: no object store configured for %q", location)
	}
	return ObjectSource{Opener: opener, Bucket: bucket, Key: key}, nil
}

// Load opens src and parses the whole CSV.
func Load(ctx context.Context, src Source) ([]models.FoodFacility, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	facilities, err := ParseCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src, err)
	}
	return facilities, nil
}
