package level

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/alnah/go-stageload"
)

func textFetcher(body string) stageload.Fetcher {
	return stageload.FetcherFunc(func(_ context.Context, req stageload.Request) (stageload.Resource, error) {
		return &stageload.Text{URL: req.URL, Body: body}, nil
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		dir     string
		wantURL string
		wantErr error
	}{
		{name: "default dir", level: "TestLevel", dir: "/Levels", wantURL: "/Levels/TestLevel.svg"},
		{name: "trailing slash", level: "Caves", dir: "/Levels/", wantURL: "/Levels/Caves.svg"},
		{name: "relative dir", level: "Caves", dir: "levels", wantURL: "levels/Caves.svg"},
		{name: "empty dir", level: "Caves", dir: "", wantURL: "/Caves.svg"},
		{name: "empty name", level: "", dir: "/Levels", wantErr: ErrInvalidName},
		{name: "traversal", level: "../x", dir: "/Levels", wantErr: ErrInvalidName},
		{name: "extension", level: "Caves.svg", dir: "/Levels", wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := New(tt.level, tt.dir)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if l.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", l.URL, tt.wantURL)
			}
			if req := l.Request(); req.Kind != stageload.KindText || req.URL != tt.wantURL {
				t.Errorf("Request() = %v, want text %s", req, tt.wantURL)
			}
		})
	}
}

func TestLevel_Process(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		put      stageload.Resource
		wantErr  error
		wantSize int
	}{
		{name: "svg document", put: &stageload.Text{URL: "/Levels/A.svg", Body: "<svg></svg>"}, wantSize: 11},
		{name: "missing", put: nil, wantErr: ErrDocumentMissing},
		{name: "not svg", put: &stageload.Text{URL: "/Levels/A.svg", Body: "hello"}, wantErr: ErrNotSVG},
		{name: "stored as image", put: &stageload.Image{URL: "/Levels/A.svg"}, wantErr: ErrDocumentMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := New("A", "/Levels")
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			store := stageload.NewStore()
			store.Put(tt.put)

			err = l.Process(store)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Process() error = %v, want %v", err, tt.wantErr)
				}
				if l.Processed() {
					t.Error("Processed() = true after failure")
				}
				if !errors.Is(l.Err(), tt.wantErr) {
					t.Errorf("Err() = %v, want %v", l.Err(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if !l.Processed() || l.Size() != tt.wantSize {
				t.Errorf("Processed() = %v, Size() = %d; want true, %d", l.Processed(), l.Size(), tt.wantSize)
			}
		})
	}
}

func TestLevel_Register(t *testing.T) {
	t.Parallel()

	l, err := New("TestLevel", "/Levels")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ld := stageload.NewLoader(textFetcher("<svg/>"))
	done := make(chan struct{})
	ld.PushStage(ld.LoadResources)
	if err := l.Register(ld); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	ld.PushStage(func() { close(done) })

	if ld.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", ld.Pending())
	}
	ld.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loader did not reach the final stage")
	}
	if !l.Processed() {
		t.Errorf("level not processed: %v", l.Err())
	}
}

func TestLevel_Step(t *testing.T) {
	t.Parallel()

	l, err := New("TestLevel", "/Levels")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p := stageload.NewPipeline(textFetcher("<svg/>"))
	p.AddStep("load", stageload.LoadStep(l.Request())).AddStep("process", l.Step())

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if l.Size() != len("<svg/>") {
		t.Errorf("Size() = %d, want %d", l.Size(), len("<svg/>"))
	}
}

func TestHiddenLayers(t *testing.T) {
	t.Parallel()

	want := []string{"PHYSICS", "META", "SPAWNS"}
	if !slices.Equal(HiddenLayers, want) {
		t.Errorf("HiddenLayers = %v, want %v", HiddenLayers, want)
	}
}
