package geode

import (
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestScreenshotNameSanitizes(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"frame-1", "frame-1"},
		{"  padded  ", "padded"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"a/b\\c:d", "a_b_c_d"},
		{"v1.2", "v1.2"},
	}
	for _, c := range cases {
		if got := screenshotName(c.in); got != c.want {
			t.Errorf("screenshotName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWritePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Pix[0] = 255
	img.Pix[3] = 255

	path := filepath.Join(t.TempDir(), "out.png")
	if err := writePNG(path, img); err != nil {
		t.Fatalf("writePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("wrote an empty PNG")
	}
}

func TestScreenshotQueues(t *testing.T) {
	s := NewScene()
	s.Screenshot("one")
	s.Screenshot("two")
	if len(s.screenshotQueue) != 2 {
		t.Fatalf("queued %d screenshots, want 2", len(s.screenshotQueue))
	}
}
