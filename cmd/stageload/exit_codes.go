package main

import (
	"context"
	"errors"
	"net/url"
	"os"

	"github.com/alnah/go-stageload"
	"github.com/alnah/go-stageload/internal/assets"
	"github.com/alnah/go-stageload/internal/config"
	"github.com/alnah/go-stageload/internal/devserver"
	"github.com/alnah/go-stageload/internal/game"
	"github.com/alnah/go-stageload/internal/level"
	"github.com/alnah/go-stageload/internal/logging"
)

// Exit codes for the stageload CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess     = 0   // Session loaded / server stopped cleanly
	ExitGeneral     = 1   // General/unexpected error
	ExitUsage       = 2   // Invalid flags, config, or validation
	ExitIO          = 3   // Local asset or file errors
	ExitNetwork     = 4   // Asset server unreachable or bad status
	ExitInterrupted = 130 // Stopped by signal (128 + SIGINT)
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnexpectedArgs) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, level.ErrInvalidName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrInvalidBaseURL) ||
		errors.Is(err, assets.ErrNoSources) ||
		errors.Is(err, stageload.ErrEmptyURL) ||
		errors.Is(err, stageload.ErrUnknownKind) {
		return ExitUsage
	}

	// Network errors (exit 4)
	if errors.Is(err, assets.ErrHTTPStatus) ||
		errors.Is(err, devserver.ErrAddrInUse) ||
		isConnectionError(err) {
		return ExitNetwork
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, assets.ErrAssetNotFound) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, assets.ErrAssetTooLarge) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, assets.ErrUnsupportedImage) ||
		errors.Is(err, level.ErrDocumentMissing) ||
		errors.Is(err, level.ErrNotSVG) ||
		errors.Is(err, game.ErrClosed) {
		return ExitIO
	}

	return ExitGeneral
}

// isConnectionError reports whether err came from the HTTP transport
// rather than from an answer of the server.
func isConnectionError(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue)
}
