package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/alnah/go-stageload"
)

func TestResolver_Fetch(t *testing.T) {
	t.Parallel()

	found := &stageload.Text{URL: "a.txt", Body: "second"}
	errIO := errors.New("disk on fire")

	tests := []struct {
		name       string
		first      *stubFetcher
		second     *stubFetcher
		wantBody   string
		wantErr    error
		wantSecond int
	}{
		{
			name:       "first source wins",
			first:      &stubFetcher{res: &stageload.Text{URL: "a.txt", Body: "first"}},
			second:     &stubFetcher{res: found},
			wantBody:   "first",
			wantSecond: 0,
		},
		{
			name:       "not found falls through",
			first:      &stubFetcher{err: fmt.Errorf("%w: a.txt", ErrAssetNotFound)},
			second:     &stubFetcher{res: found},
			wantBody:   "second",
			wantSecond: 1,
		},
		{
			name:       "http 404 falls through",
			first:      &stubFetcher{err: fmt.Errorf("%w: %w: 404", ErrAssetNotFound, ErrHTTPStatus)},
			second:     &stubFetcher{res: found},
			wantBody:   "second",
			wantSecond: 1,
		},
		{
			name:       "io error stops the chain",
			first:      &stubFetcher{err: errIO},
			second:     &stubFetcher{res: found},
			wantErr:    errIO,
			wantSecond: 0,
		},
		{
			name:       "decode error stops the chain",
			first:      &stubFetcher{err: ErrUnsupportedImage},
			second:     &stubFetcher{res: found},
			wantErr:    ErrUnsupportedImage,
			wantSecond: 0,
		},
		{
			name:       "not found everywhere",
			first:      &stubFetcher{err: ErrAssetNotFound},
			second:     &stubFetcher{err: fmt.Errorf("%w: last", ErrAssetNotFound)},
			wantErr:    ErrAssetNotFound,
			wantSecond: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewResolver(tt.first, nil, tt.second)
			if r.Len() != 2 {
				t.Fatalf("Len() = %d, want 2 (nil skipped)", r.Len())
			}

			res, err := r.Fetch(context.Background(), textReq("a.txt"))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Fetch() error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("Fetch() error = %v", err)
				}
				if body := res.(*stageload.Text).Body; body != tt.wantBody {
					t.Errorf("Body = %q, want %q", body, tt.wantBody)
				}
			}
			if tt.second.calls != tt.wantSecond {
				t.Errorf("second source calls = %d, want %d", tt.second.calls, tt.wantSecond)
			}
		})
	}
}

func TestResolver_Empty(t *testing.T) {
	t.Parallel()

	if _, err := NewResolver().Fetch(context.Background(), textReq("a")); !errors.Is(err, ErrNoSources) {
		t.Errorf("Fetch() error = %v, want ErrNoSources", err)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("embedded only by default", func(t *testing.T) {
		t.Parallel()

		r, err := New(Options{})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if r.String() != "embedded" {
			t.Errorf("String() = %q, want embedded", r.String())
		}
		if _, err := r.Fetch(context.Background(), textReq("/Levels/TestLevel.svg")); err != nil {
			t.Errorf("Fetch(TestLevel) error = %v", err)
		}
	})

	t.Run("local override falls back to embedded", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "Levels/TestLevel.svg", []byte("<svg id=\"override\"/>"))

		r, err := New(Options{BasePath: dir, BaseURL: "http://localhost:1"})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if r.Len() != 3 {
			t.Errorf("Len() = %d, want 3", r.Len())
		}
		if s := r.String(); !strings.HasPrefix(s, "filesystem(") || !strings.HasSuffix(s, " -> embedded") {
			t.Errorf("String() = %q, want filesystem first and embedded last", s)
		}

		res, err := r.Fetch(context.Background(), textReq("/Levels/TestLevel.svg"))
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if body := res.(*stageload.Text).Body; !strings.Contains(body, "override") {
			t.Errorf("Body = %q, want local override", body)
		}
	})

	t.Run("invalid base path", func(t *testing.T) {
		t.Parallel()

		if _, err := New(Options{BasePath: "/nonexistent/path/abc123xyz"}); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("New() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("invalid base url", func(t *testing.T) {
		t.Parallel()

		if _, err := New(Options{BaseURL: "localhost"}); !errors.Is(err, ErrInvalidBaseURL) {
			t.Errorf("New() error = %v, want ErrInvalidBaseURL", err)
		}
	})

	t.Run("everything disabled", func(t *testing.T) {
		t.Parallel()

		if _, err := New(Options{DisableEmbedded: true}); !errors.Is(err, ErrNoSources) {
			t.Errorf("New() error = %v, want ErrNoSources", err)
		}
	})
}
