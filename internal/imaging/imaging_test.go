package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// encodeTestImage produces an in-memory PNG of the given size.
func encodeTestImage(t *testing.T, width, height int) *bytes.Reader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestThumbnail_ResizesWideImage(t *testing.T) {
	src := encodeTestImage(t, 1200, 600)

	data, err := Thumbnail(src, ThumbMaxWidth)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if data == nil {
		t.Fatal("Thumbnail returned nil for image wider than max")
	}

	thumb, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if w := thumb.Bounds().Dx(); w != ThumbMaxWidth {
		t.Errorf("thumbnail width = %d, want %d", w, ThumbMaxWidth)
	}
	if h := thumb.Bounds().Dy(); h != 200 {
		t.Errorf("thumbnail height = %d, want 200 (aspect preserved)", h)
	}
}

func TestThumbnail_SkipsSmallImage(t *testing.T) {
	src := encodeTestImage(t, 200, 100)

	data, err := Thumbnail(src, ThumbMaxWidth)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil for image narrower than max, got %d bytes", len(data))
	}
}

func TestThumbnail_RejectsGarbage(t *testing.T) {
	if _, err := Thumbnail(bytes.NewReader([]byte("not an image")), ThumbMaxWidth); err == nil {
		t.Fatal("expected error for non-image input")
	}
}
