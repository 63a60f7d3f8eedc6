package naming

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, root, out, ext, want string
	}{
		{"clip.mkv", "", "sb", "jpg", "sb/clip.storyboard.jpg"},
		{"/media/movies/a/clip.mkv", "/media/movies", "/sb", "jpg", "/sb/a/clip.storyboard.jpg"},
		{"/media/movies/clip.mkv", "/media/movies", "/sb", "png", "/sb/clip.storyboard.png"},
		{"/elsewhere/clip.mkv", "/media/movies", "/sb", "jpg", "/sb/clip.storyboard.jpg"},
		{"/media/noext", "", "/sb", "jpg", "/sb/noext.storyboard.jpg"},
		{"/media/archive.tar.mkv", "", "/sb", "jpg", "/sb/archive.tar.storyboard.jpg"},
	}
	for _, tt := range tests {
		got := OutputPath(tt.input, tt.root, tt.out, tt.ext)
		if got != filepath.FromSlash(tt.want) {
			t.Errorf("OutputPath(%q, %q, %q, %q) = %q, want %q", tt.input, tt.root, tt.out, tt.ext, got, tt.want)
		}
	}
}

func TestCollisionResolver(t *testing.T) {
	cr := NewCollisionResolver()
	want := "/sb/clip.storyboard.jpg"

	if got := cr.Resolve("/a/clip.mkv", want); got != want {
		t.Errorf("first claim = %q, want %q", got, want)
	}
	if got := cr.Resolve("/a/clip.mkv", want); got != want {
		t.Errorf("same owner again = %q, want %q", got, want)
	}
	if got := cr.Resolve("/b/clip.mp4", want); got != "/sb/clip-2.storyboard.jpg" {
		t.Errorf("second input = %q", got)
	}
	if got := cr.Resolve("/c/clip.avi", want); got != "/sb/clip-3.storyboard.jpg" {
		t.Errorf("third input = %q", got)
	}
}

func TestCollisionResolver_PlainName(t *testing.T) {
	cr := NewCollisionResolver()
	cr.Resolve("a", "/out/x.jpg")
	if got := cr.Resolve("b", "/out/x.jpg"); got != "/out/x-2.jpg" {
		t.Errorf("Resolve = %q, want /out/x-2.jpg", got)
	}
}

func TestCollisionResolver_Concurrent(t *testing.T) {
	cr := NewCollisionResolver()
	var wg sync.WaitGroup
	seen := make(chan string, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- cr.Resolve(filepath.Join("/in", string(rune('a'+i))), "/out/x.storyboard.jpg")
		}()
	}
	wg.Wait()
	close(seen)
	unique := map[string]bool{}
	for p := range seen {
		if unique[p] {
			t.Errorf("path %q handed out twice", p)
		}
		unique[p] = true
	}
}
