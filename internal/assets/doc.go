// Package assets provides the asset sources used to feed a stageload loader.
//
// # Source Architecture
//
// Every source implements stageload.Fetcher:
//
//	stageload.Fetcher (interface)
//	    │
//	    ├── FilesystemFetcher - reads from a directory on disk
//	    ├── HTTPFetcher       - GETs from a remote origin
//	    ├── EmbeddedFetcher   - reads from the go:embed filesystem (built-ins)
//	    └── Resolver          - chains sources with not-found fallback
//
// New assembles the usual chain: a local directory first, then the remote
// origin, then the embedded built-ins. This lets a developer override one
// sprite locally while everything else comes from the server.
//
// # Decoding
//
// Text requests return the body verbatim. Image requests are decoded with
// image.Decode; PNG, JPEG and GIF come from the standard library, BMP, TIFF
// and WebP from golang.org/x/image. SVG documents are vector data and must
// be requested as text; requesting one as an image yields ErrUnsupportedImage.
//
// # Directory Structure
//
// Request URLs are site-relative paths mapped directly onto the source:
//
//	{basePath}/
//	├── ship.png
//	└── Levels/
//	    └── {name}.svg
//
// # Security
//
// Asset URLs are validated to reject traversal segments and null bytes.
// FilesystemFetcher resolves symlinks and verifies paths stay within basePath.
package assets
