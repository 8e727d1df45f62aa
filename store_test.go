package stageload

import (
	"image"
	"slices"
	"sync"
	"testing"
)

func TestStore_TypedLookups(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Put(&Image{URL: "ship.png", Format: "png", Data: image.NewRGBA(image.Rect(0, 0, 4, 2))})
	s.Put(&Text{URL: "level.svg", Body: "<svg/>"})
	s.Put(nil)

	img, ok := s.Image("ship.png")
	if !ok {
		t.Fatal("Image(ship.png) missing")
	}
	if got := img.Bounds().Dx(); got != 4 {
		t.Errorf("Bounds().Dx() = %d, want 4", got)
	}

	body, ok := s.Text("level.svg")
	if !ok || body != "<svg/>" {
		t.Errorf("Text(level.svg) = %q, %v; want <svg/>, true", body, ok)
	}

	if _, ok := s.Image("level.svg"); ok {
		t.Error("Image() returned a text resource")
	}
	if _, ok := s.Text("ship.png"); ok {
		t.Error("Text() returned an image resource")
	}
	if _, ok := s.Get("nope"); ok {
		t.Error("Get(nope) found something")
	}
	if _, ok := s.Image("nope"); ok {
		t.Error("Image(nope) found something")
	}
	if _, ok := s.Text("nope"); ok {
		t.Error("Text(nope) found something")
	}

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if want := []string{"level.svg", "ship.png"}; !slices.Equal(s.URLs(), want) {
		t.Errorf("URLs() = %v, want %v", s.URLs(), want)
	}
}

func TestStore_LastWriteWins(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Put(&Text{URL: "a", Body: "one"})
	s.Put(&Text{URL: "a", Body: "two"})

	if body, _ := s.Text("a"); body != "two" {
		t.Errorf("Text(a) = %q, want two", body)
	}

	// A later write may change the kind as well.
	s.Put(&Image{URL: "a"})
	if _, ok := s.Text("a"); ok {
		t.Error("Text(a) still present after image overwrite")
	}
}

func TestStore_Concurrent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Put(&Text{URL: "shared", Body: string(rune('a' + i%26))})
			_, _ = s.Text("shared")
		}()
	}
	wg.Wait()

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestImage_BoundsWithoutData(t *testing.T) {
	t.Parallel()

	img := &Image{URL: "empty"}
	if !img.Bounds().Empty() {
		t.Errorf("Bounds() = %v, want empty", img.Bounds())
	}
}
