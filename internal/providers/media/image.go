package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"path/filepath"
	"strings"

	"github.com/yukibot/yuki/internal/core"
	_ "golang.org/x/image/webp"
)

// Both wrap core.ErrUnsupportedImage.
var (
	ErrNotImage     = fmt.Errorf("%w: not an image", core.ErrUnsupportedImage)
	ErrCorruptImage = fmt.Errorf("%w: cannot decode", core.ErrUnsupportedImage)
)

var SupportedImageExts = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// CheckImageMeta validates what is known before downloading a photo.
func CheckImageMeta(path string, size, maxBytes int64) error {
	if size > maxBytes {
		return fmt.Errorf("%w: %d bytes", core.ErrTooLarge, size)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupportedExt(ext) {
		return fmt.Errorf("%w: extension %q", core.ErrUnsupportedImage, ext)
	}

	if mt := mime.TypeByExtension(ext); !strings.HasPrefix(mt, "image/") {
		return fmt.Errorf("%w: mime %q", ErrNotImage, mt)
	}
	return nil
}

// DecodeImage makes sure data is a readable image and reports its MIME type.
func DecodeImage(data []byte) (core.Image, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return core.Image{}, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}
	return core.Image{Data: data, MIME: "image/" + format}, nil
}

func IsSupportedExt(ext string) bool {
	for _, e := range SupportedImageExts {
		if e == ext {
			return true
		}
	}
	return false
}

// CheckMIME rejects files whose declared type is not an image.
func CheckMIME(mt string) error {
	if !strings.HasPrefix(mt, "image/") {
		return fmt.Errorf("%w: mime %q", ErrNotImage, mt)
	}
	return nil
}
