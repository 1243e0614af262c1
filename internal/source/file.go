// Package source provides dashboard fetchers that do not talk to the
// backend directly: local payload files, file watching and snapshot caching.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/service"
)

var _ service.DashboardFetcher = (*FileSource)(nil)

// FileSource serves payloads from JSON files. Path may be a single file, or a
// directory holding "<period>_<status>.json" files with "dashboard.json" as
// the fallback.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed fetcher.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the watched path.
func (s *FileSource) Path() string { return s.path }

// Resolve returns the file that serves filters.
func (s *FileSource) Resolve(filters model.Filters) (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrNotFound, err)
	}
	if !info.IsDir() {
		return s.path, nil
	}

	candidates := []string{
		filepath.Join(s.path, fmt.Sprintf("%s_%s.json", filters.Period, filters.OrderStatus)),
		filepath.Join(s.path, "dashboard.json"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: no payload for %s in %s", common.ErrNotFound, filters.Key(), s.path)
}

// FetchDashboard reads and decodes the payload file for filters.
func (s *FileSource) FetchDashboard(ctx context.Context, filters model.Filters) (*model.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.Resolve(filters)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading payload file: %w", err)
	}

	payload, err := model.DecodePayload(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidPayload, path, err)
	}
	payload.FetchedAt = time.Now()

	slog.Debug("Loaded payload file", "path", path, "items", len(payload.Items))
	return payload, nil
}
