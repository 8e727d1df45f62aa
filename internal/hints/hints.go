// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net/http"
	"strings"

	"github.com/alnah/go-stageload/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForConnection returns hints for asset server connection errors.
// Detects Docker and loopback origins, which cannot reach the host's server.
func ForConnection(baseURL string) string {
	var hints []string

	hints = append(hints, "start a local server with 'stageload serve' or check --base-url")

	loopback := strings.Contains(baseURL, "localhost") || strings.Contains(baseURL, "127.0.0.1")
	if loopback && IsInContainer() {
		hints = append(hints, "inside Docker, use host.docker.internal instead of localhost")
	}

	return formatHints(hints)
}

// ForHTTPStatus returns a hint for a non-2xx response code.
func ForHTTPStatus(code int) string {
	switch {
	case code == http.StatusNotFound:
		return format("check --level and that the asset exists under the server root")
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return format("the server refused access; check its permissions")
	case code >= 500:
		return format("the server failed; check its logs and retry")
	default:
		return ""
	}
}

// ForTimeout returns a hint about increasing timeouts for slow origins.
func ForTimeout() string {
	return format("for slow servers, raise --fetch-timeout or --step-timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/stageload/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/stageload) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/stageload") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForUnsupportedImage returns hints for image decode failures.
func ForUnsupportedImage() string {
	return format("supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP; load SVG levels as text")
}

// ForAddrInUse returns hints for a serve address that cannot be bound.
func ForAddrInUse(addr string) string {
	return format(addr + " is busy; pick another with --addr")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
