package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-stageload"
)

// pngBytes encodes a w x h opaque image.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// writeFile creates dir/rel with content, making parent directories.
func writeFile(t *testing.T, dir, rel string, content []byte) {
	t.Helper()

	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(p, content, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

// stubFetcher returns a fixed result and counts calls.
type stubFetcher struct {
	res   stageload.Resource
	err   error
	calls int
}

func (s *stubFetcher) Fetch(context.Context, stageload.Request) (stageload.Resource, error) {
	s.calls++
	return s.res, s.err
}

func imageReq(url string) stageload.Request {
	return stageload.Request{URL: url, Kind: stageload.KindImage}
}

func textReq(url string) stageload.Request {
	return stageload.Request{URL: url, Kind: stageload.KindText}
}
