package stageload

import (
	"fmt"
	"image"
)

// Kind identifies what a request resolves to.
type Kind int

const (
	// KindImage requests a decoded image.
	KindImage Kind = iota + 1
	// KindText requests the body as a string.
	KindText
)

// String returns the lower-case kind name used in logs and config.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Request is a single pending fetch, by URL, of a stated kind.
type Request struct {
	URL  string
	Kind Kind
}

// Validate checks that the request can be issued.
func (r Request) Validate() error {
	if r.URL == "" {
		return ErrEmptyURL
	}
	if r.Kind != KindImage && r.Kind != KindText {
		return fmt.Errorf("%w: %s", ErrUnknownKind, r.Kind)
	}
	return nil
}

func (r Request) String() string {
	return r.Kind.String() + " " + r.URL
}

// Resource is the loaded result of a Request. The concrete type is either
// *Image or *Text; the set is closed.
type Resource interface {
	Kind() Kind
	Source() string
	resource()
}

// Image is a decoded image resource.
type Image struct {
	URL    string
	Format string // decoder name reported by image.Decode ("png", "webp", ...)
	Data   image.Image
}

func (*Image) Kind() Kind { return KindImage }
func (i *Image) Source() string { return i.URL }
func (*Image) resource() {}

// Bounds returns the image bounds, or the zero rectangle when no pixels are attached.
func (i *Image) Bounds() image.Rectangle {
	if i.Data == nil {
		return image.Rectangle{}
	}
	return i.Data.Bounds()
}

// Text is a text document resource.
type Text struct {
	URL  string
	Body string
}

func (*Text) Kind() Kind { return KindText }
func (t *Text) Source() string { return t.URL }
func (*Text) resource() {}

// Compile-time interface checks.
var (
	_ Resource = (*Image)(nil)
	_ Resource = (*Text)(nil)
)
