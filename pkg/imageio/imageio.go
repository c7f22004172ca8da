// Package imageio loads and saves the rasters that flow through the mockup
// pipeline. Loading accepts file paths and http(s) URLs with WebP support
// beyond the registered standard decoders. Saving is atomic: the encoded
// raster is written to a temp file in the destination directory and renamed
// into place, so a partially-written file never appears at the target path.
package imageio

import (
	"bytes"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/ekarev/label-mockup/pkg/errors"
)

// DefaultQuality is used for lossy encoders when no quality is given.
const DefaultQuality = 95

const userAgent = "label-mockup/1.0 (+https://github.com/ekarev/label-mockup)"

// SaveOptions controls the lossy encoders.
type SaveOptions struct {
	Quality  int  // JPEG/WebP quality, 1-100; 0 means DefaultQuality
	Lossless bool // WebP only
}

// Load reads and decodes the raster at path with WebP support.
func Load(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "input raster %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "stat %s", path)
	}

	// Try imaging.Open (registered decoders)
	img, openErr := imaging.Open(path)
	if openErr == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "open %s", path)
	}
	defer f.Close()

	if img, err := webp.Decode(f); err == nil {
		return img, nil
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, errors.Wrap(errors.ErrCodeDecode, openErr, "decode %s", path)
}

// LoadFromURL downloads and decodes the raster at imageURL.
func LoadFromURL(imageURL string) (image.Image, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "invalid URL %s", imageURL)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, errors.New(errors.ErrCodeNetwork,
			"unsupported URL scheme %s (only http and https are supported)", parsedURL.Scheme)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "create request for %s", imageURL)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "download %s", imageURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeNetwork, "download %s: HTTP %s", imageURL, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errors.New(errors.ErrCodeDecode,
			"URL does not point to an image (Content-Type: %s)", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read response from %s", imageURL)
	}

	return decodeBytes(data)
}

// LoadSource loads a raster from either a file path or an http(s) URL.
func LoadSource(source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return LoadFromURL(source)
	}
	return Load(source)
}

// decodeBytes decodes a raster from byte data with WebP support.
func decodeBytes(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, errors.New(errors.ErrCodeDecode, "unknown or unsupported raster format")
}

// Save encodes img to path, choosing the encoder from the file extension
// (png, jpg/jpeg, webp; a missing extension means png). The write is
// atomic: encode to a temp file in the same directory, then rename.
func Save(img image.Image, path string, opts SaveOptions) error {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultQuality
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "create output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if err := encode(tmp, img, path, opts); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeEncode, err, "flush %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeEncode, err, "flush %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeEncode, err, "rename temp file to %s", path)
	}
	return nil
}

func encode(w io.Writer, img image.Image, path string, opts SaveOptions) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "webp":
		wopts := &webp.Options{Lossless: opts.Lossless, Quality: float32(opts.Quality)}
		if err := webp.Encode(w, img, wopts); err != nil {
			return errors.Wrap(errors.ErrCodeEncode, err, "encode webp %s", path)
		}
	case "jpg", "jpeg":
		if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(opts.Quality)); err != nil {
			return errors.Wrap(errors.ErrCodeEncode, err, "encode jpeg %s", path)
		}
	case "png", "":
		if err := imaging.Encode(w, img, imaging.PNG); err != nil {
			return errors.Wrap(errors.ErrCodeEncode, err, "encode png %s", path)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported output format %q", ext)
	}
	return nil
}

// VariantPath inserts tag before the extension of path, so variants of the
// same mockup land next to each other: out.png + "left" -> out_left.png.
func VariantPath(path, tag string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + tag + ext
}

// DerivedOutputPath returns the default output path for a label source:
// the label's stem with a _bottle suffix and a png extension, next to the
// input. URL sources land in the working directory.
func DerivedOutputPath(labelSource string) string {
	name := labelSource
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		name = "label"
		if u, err := url.Parse(labelSource); err == nil {
			if base := filepath.Base(u.Path); base != "" && base != "." && base != "/" {
				name = base
			}
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + "_bottle.png"
}
