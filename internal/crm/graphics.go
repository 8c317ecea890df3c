package crm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guybracha/karinaCrm2/internal/models"
)

// Three generations of the storage layout coexist. All of them are probed on
// every aggregation, in this declared order.
const (
	usersRoot       = "users_prod"
	legacyLogosRoot = "logos"
)

func ordersPath(uid string) string      { return usersRoot + "/" + uid + "/orders_prod" }
func userLogosPath(uid string) string   { return usersRoot + "/" + uid + "/logos" }
func legacyLogosPath(uid string) string { return legacyLogosRoot + "/" + uid }

func sanitizeFolderID(folderID string) string {
	return strings.Trim(strings.TrimSpace(folderID), "/")
}

// ListStorageGraphics walks the customer's storage folder across the
// per-order, per-user and legacy roots and returns one order-agnostic list.
// The roots are probed concurrently but always emitted in that fixed order;
// an absent root contributes zero items, any other failure aborts the whole
// aggregation.
func (s *Service) ListStorageGraphics(ctx context.Context, folderID string) ([]models.Graphic, error) {
	safeID := sanitizeFolderID(folderID)
	if safeID == "" {
		return []models.Graphic{}, nil
	}

	roots := []string{ordersPath(safeID), userLogosPath(safeID), legacyLogosPath(safeID)}
	results := make([][]models.Graphic, len(roots))
	eg, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		eg.Go(func() error {
			graphics, err := s.collectGraphics(gctx, root)
			if errors.Is(err, ErrPathNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = graphics
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		s.log.Warn("failed loading graphics from storage", "folderId", safeID, "error", err)
		return nil, err
	}

	merged := make([]models.Graphic, 0)
	for _, part := range results {
		merged = append(merged, part...)
	}
	return merged, nil
}

// collectGraphics gathers every leaf file under root and resolves its URL and
// best-effort metadata concurrently. Slots are pre-indexed so concurrency
// never reorders the result.
func (s *Service) collectGraphics(ctx context.Context, root string) ([]models.Graphic, error) {
	entries, err := s.collectEntries(ctx, root)
	if err != nil {
		return nil, err
	}
	graphics := make([]models.Graphic, len(entries))
	eg, gctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		eg.Go(func() error {
			url, err := s.blobs.PublicURL(gctx, entry.Path)
			if err != nil {
				return fmt.Errorf("resolve URL for %s: %w", entry.Path, err)
			}
			meta, err := s.blobs.Metadata(gctx, entry.Path)
			if err != nil {
				meta = nil // metadata is best effort
			}
			graphics[i] = models.Graphic{
				ID:         deriveGraphicID(entry, meta),
				Label:      deriveLabel(entry, meta),
				FileURL:    url,
				UploadedAt: deriveUploadedAt(meta),
				Path:       entry.Path,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return graphics, nil
}

// collectEntries recursively walks nested sub-locations under a path.
func (s *Service) collectEntries(ctx context.Context, p string) ([]BlobEntry, error) {
	files, prefixes, err := s.blobs.List(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, child := range prefixes {
		nested, err := s.collectEntries(ctx, child)
		if err != nil {
			return nil, err
		}
		files = append(files, nested...)
	}
	return files, nil
}

func deriveGraphicID(entry BlobEntry, meta *BlobMetadata) string {
	if meta != nil && meta.Custom["id"] != "" {
		return meta.Custom["id"]
	}
	if entry.Path != "" {
		return entry.Path
	}
	return entry.Name
}

func deriveLabel(entry BlobEntry, meta *BlobMetadata) string {
	if meta != nil {
		if label := meta.Custom["label"]; label != "" {
			return label
		}
		if meta.Name != "" {
			return meta.Name
		}
	}
	parts := strings.Split(entry.Path, "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + " · " + parts[len(parts)-1]
	}
	name := strings.TrimSuffix(entry.Name, path.Ext(entry.Name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.TrimSpace(name)
}

func deriveUploadedAt(meta *BlobMetadata) string {
	if meta == nil {
		return nowISO()
	}
	if !meta.Created.IsZero() {
		return meta.Created.UTC().Format(time.RFC3339)
	}
	if !meta.Updated.IsZero() {
		return meta.Updated.UTC().Format(time.RFC3339)
	}
	return nowISO()
}

// UploadGraphic stores a file under the customer's logos folder and returns
// the resulting graphic entry. The caller is expected to follow up with
// SaveGraphics so the order document stays consistent with storage.
func (s *Service) UploadGraphic(ctx context.Context, folderID, filename, contentType string, content io.Reader, label string) (*models.Graphic, error) {
	safeID := sanitizeFolderID(folderID)
	if safeID == "" {
		return nil, errors.New("cannot upload a graphic without a storage folder")
	}

	ts := time.Now().UnixMilli()
	name := strings.Join(strings.Fields(filename), "_")
	if name == "" {
		name = fmt.Sprintf("graphic-%d", ts)
	}
	objectPath := fmt.Sprintf("%s/%d-%s", userLogosPath(safeID), ts, name)

	custom := map[string]string{"id": NewID()}
	if label != "" {
		custom["label"] = label
	}
	url, err := s.blobs.Upload(ctx, objectPath, contentType, content, custom)
	if err != nil {
		return nil, fmt.Errorf("upload graphic %s: %w", objectPath, err)
	}

	graphic := &models.Graphic{
		ID:         custom["id"],
		Label:      label,
		FileURL:    url,
		UploadedAt: nowISO(),
		Path:       objectPath,
	}
	if graphic.Label == "" {
		graphic.Label = deriveLabel(BlobEntry{Path: objectPath, Name: path.Base(objectPath)}, nil)
	}
	return graphic, nil
}

// DeleteGraphic removes a stored file. A file that is already gone counts as
// deleted; permission failures surface with a user-facing message.
func (s *Service) DeleteGraphic(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return errors.New("cannot delete a graphic without a valid storage path")
	}
	err := s.blobs.Delete(ctx, objectPath)
	if errors.Is(err, ErrPathNotFound) {
		return nil
	}
	if errors.Is(err, ErrPermission) {
		return fmt.Errorf("storage denied the delete, check the security rules: %w", err)
	}
	if err != nil {
		return fmt.Errorf("delete graphic %s: %w", objectPath, err)
	}
	return nil
}
