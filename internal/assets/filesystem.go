package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-stageload"
	"github.com/alnah/go-stageload/internal/fileutil"
)

// FilesystemFetcher loads assets from a directory on the filesystem.
// Request URLs map onto paths below the directory: "/Levels/A.svg" reads
// {basePath}/Levels/A.svg. Implements stageload.Fetcher.
type FilesystemFetcher struct {
	basePath string
	maxSize  int64
}

// NewFilesystemFetcher creates a FilesystemFetcher for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemFetcher(basePath string, maxSize int64) (*FilesystemFetcher, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	// Resolve symlinks in base path for consistent containment comparisons.
	absPath, err := fileutil.ResolveRoot(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &FilesystemFetcher{basePath: absPath, maxSize: maxSize}, nil
}

// Fetch reads the file named by req.URL and decodes it per req.Kind.
func (f *FilesystemFetcher) Fetch(ctx context.Context, req stageload.Request) (stageload.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateAssetURL(req.URL); err != nil {
		return nil, err
	}

	filePath := filepath.Join(f.basePath, filepath.FromSlash(cleanAssetPath(req.URL)))

	// Containment check: catches symlinks pointing outside basePath.
	if err := fileutil.Contained(f.basePath, filePath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPathTraversal, err)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, req.URL)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %q is a directory", ErrAssetNotFound, req.URL)
	}
	if info.Size() > f.maxSize {
		return nil, fmt.Errorf("%w: %q (%d bytes, max %d)", ErrAssetTooLarge, req.URL, info.Size(), f.maxSize)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	return decodeResource(req, data)
}

// BasePath returns the resolved directory assets are read from.
func (f *FilesystemFetcher) BasePath() string {
	return f.basePath
}

// String describes the source for logs.
func (f *FilesystemFetcher) String() string {
	return "filesystem(" + f.basePath + ")"
}

// Compile-time interface check.
var _ stageload.Fetcher = (*FilesystemFetcher)(nil)
