package assets

import (
	"bytes"
	"fmt"
	"image"
	"path"
	"strings"

	// Raster decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/alnah/go-stageload"
)

// decodeResource builds the Resource matching req.Kind from raw bytes.
func decodeResource(req stageload.Request, data []byte) (stageload.Resource, error) {
	switch req.Kind {
	case stageload.KindText:
		return &stageload.Text{URL: req.URL, Body: string(data)}, nil
	case stageload.KindImage:
		return decodeImage(req.URL, data)
	default:
		return nil, fmt.Errorf("%w: %v", stageload.ErrUnknownKind, req.Kind)
	}
}

func decodeImage(url string, data []byte) (*stageload.Image, error) {
	if isSVG(url, data) {
		return nil, fmt.Errorf("%w: %s is vector data, request it as text", ErrUnsupportedImage, url)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedImage, url, err)
	}
	return &stageload.Image{URL: url, Format: format, Data: img}, nil
}

func isSVG(url string, data []byte) bool {
	if strings.EqualFold(path.Ext(assetPath(url)), ".svg") {
		return true
	}
	head := data[:min(len(data), 512)]
	return bytes.Contains(head, []byte("<svg"))
}
