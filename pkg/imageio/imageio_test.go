package imageio

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ekarev/label-mockup/pkg/errors"
)

// createTestImage creates a test image with a gradient pattern
func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func TestSaveLoadRoundtripPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	src := createTestImage(40, 30)

	if err := Save(src, path, SaveOptions{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("loaded size = %v, want 40x30", img.Bounds())
	}

	// PNG is lossless, spot-check a pixel
	want := src.NRGBAAt(10, 20)
	got := color.NRGBAModel.Convert(img.At(10, 20)).(color.NRGBA)
	if got != want {
		t.Errorf("pixel (10,20) = %v, want %v", got, want)
	}
}

func TestSaveJPEG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jpg")

	if err := Save(createTestImage(32, 32), path, SaveOptions{Quality: 90}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Errorf("loaded size = %v, want 32x32", img.Bounds())
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	if err := Save(createTestImage(8, 8), path, SaveOptions{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.png" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only out.png", names)
	}
}

func TestSaveCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "out.png")

	if err := Save(createTestImage(8, 8), path, SaveOptions{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xyz")

	err := Save(createTestImage(8, 8), path, SaveOptions{})
	if err == nil {
		t.Fatal("Save succeeded for unsupported extension")
	}
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("error code = %v, want UNSUPPORTED_FORMAT", errors.GetCode(err))
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("failed save left a file at the destination")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	if err == nil {
		t.Fatal("Load succeeded for missing file")
	}
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error code = %v, want NOT_FOUND", errors.GetCode(err))
	}
}

func TestLoadUndecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("this is not a raster"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load succeeded for junk bytes")
	}
	if !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("error code = %v, want DECODE_FAILED", errors.GetCode(err))
	}
}

func TestLoadFromURLRejectsBadScheme(t *testing.T) {
	_, err := LoadFromURL("ftp://example.com/label.png")
	if err == nil {
		t.Fatal("LoadFromURL accepted ftp scheme")
	}
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error code = %v, want NETWORK_ERROR", errors.GetCode(err))
	}
}

func TestVariantPath(t *testing.T) {
	tests := []struct {
		path string
		tag  string
		want string
	}{
		{"out.png", "left", "out_left.png"},
		{"dir/mock.webp", "center", "dir/mock_center.webp"},
		{"noext", "right", "noext_right"},
	}
	for _, tt := range tests {
		if got := VariantPath(tt.path, tt.tag); got != tt.want {
			t.Errorf("VariantPath(%q, %q) = %q, want %q", tt.path, tt.tag, got, tt.want)
		}
	}
}

func TestDerivedOutputPath(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"art/label.png", "art/label_bottle.png"},
		{"photo.jpeg", "photo_bottle.png"},
		{"https://cdn.example.com/assets/wine.webp", "wine_bottle.png"},
		{"https://example.com/", "label_bottle.png"},
	}
	for _, tt := range tests {
		if got := DerivedOutputPath(tt.source); got != tt.want {
			t.Errorf("DerivedOutputPath(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}
