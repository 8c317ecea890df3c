package crm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GCSBlobStore is the live BlobStore backed by a Cloud Storage bucket.
type GCSBlobStore struct {
	client *storage.Client
	bucket string
}

func NewGCSBlobStore(client *storage.Client, bucket string) *GCSBlobStore {
	return &GCSBlobStore{client: client, bucket: bucket}
}

func classifyStorageErr(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrPathNotFound
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == 401 || gerr.Code == 403) {
		return fmt.Errorf("%w: %v", ErrPermission, err)
	}
	if status.Code(err) == codes.PermissionDenied {
		return fmt.Errorf("%w: %v", ErrPermission, err)
	}
	return err
}

// List returns the immediate children of a path using delimiter listing.
// GCS cannot distinguish an absent prefix from an empty one; both come back
// as zero results, which the aggregator treats the same way.
func (s *GCSBlobStore) List(ctx context.Context, p string) ([]BlobEntry, []string, error) {
	prefix := strings.TrimSuffix(p, "/") + "/"
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})

	var files []BlobEntry
	var prefixes []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("list %s: %w", prefix, classifyStorageErr(err))
		}
		if attrs.Prefix != "" {
			prefixes = append(prefixes, strings.TrimSuffix(attrs.Prefix, "/"))
			continue
		}
		if attrs.Name == prefix {
			continue // zero-byte folder placeholder
		}
		files = append(files, BlobEntry{Path: attrs.Name, Name: path.Base(attrs.Name)})
	}
	return files, prefixes, nil
}

func (s *GCSBlobStore) PublicURL(_ context.Context, objectPath string) (string, error) {
	segments := strings.Split(objectPath, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, strings.Join(segments, "/")), nil
}

func (s *GCSBlobStore) Metadata(ctx context.Context, objectPath string) (*BlobMetadata, error) {
	attrs, err := s.client.Bucket(s.bucket).Object(objectPath).Attrs(ctx)
	if err != nil {
		return nil, fmt.Errorf("attrs %s: %w", objectPath, classifyStorageErr(err))
	}
	return &BlobMetadata{
		Name:    path.Base(attrs.Name),
		Created: attrs.Created,
		Updated: attrs.Updated,
		Custom:  attrs.Metadata,
	}, nil
}

func (s *GCSBlobStore) Upload(ctx context.Context, objectPath, contentType string, content io.Reader, custom map[string]string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = custom
	if _, err := io.Copy(w, content); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write %s: %w", objectPath, classifyStorageErr(err))
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", objectPath, classifyStorageErr(err))
	}
	return s.PublicURL(ctx, objectPath)
}

func (s *GCSBlobStore) Delete(ctx context.Context, objectPath string) error {
	if err := s.client.Bucket(s.bucket).Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", objectPath, classifyStorageErr(err))
	}
	return nil
}
