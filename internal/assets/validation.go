package assets

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ValidateAssetURL checks that an asset URL is safe to map onto a directory.
// Returns ErrInvalidAssetURL if the URL is empty, contains a null byte or a
// backslash, or has a ".." path segment.
func ValidateAssetURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty url", ErrInvalidAssetURL)
	}
	if strings.ContainsAny(raw, "\x00\\") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetURL, raw)
	}
	for seg := range strings.SplitSeq(assetPath(raw), "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %q contains traversal", ErrInvalidAssetURL, raw)
		}
	}
	return nil
}

// assetPath strips query and fragment from raw and returns its path
// component without a leading slash.
func assetPath(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.TrimPrefix(p, "/")
}

// cleanAssetPath returns the slash-separated relative path used by the
// filesystem and embedded sources. raw must have passed ValidateAssetURL.
func cleanAssetPath(raw string) string {
	return strings.TrimPrefix(path.Clean("/"+assetPath(raw)), "/")
}
