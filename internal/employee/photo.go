package employee

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// maxPhotoBytes bounds the size of an attached photo.
const maxPhotoBytes = 5 << 20

// PhotoDataURL reads an image file and returns it as a data URL, the form
// the details service stores.
func PhotoDataURL(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading photo: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("reading photo: %s is a directory", path)
	}
	if info.Size() > maxPhotoBytes {
		return "", fmt.Errorf("photo too large (%d bytes, max %d)", info.Size(), maxPhotoBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading photo: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
