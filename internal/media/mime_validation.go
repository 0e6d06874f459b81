package media

import (
	"fmt"
	"mime"
	"path"
	"strings"
)

var allowedPhotoMimeTypes = []string{"image/png", "image/jpeg", "image/webp"}

var allowedPhotoExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

func sniffMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	if mediaType == "" {
		return "", fmt.Errorf("mime type missing")
	}
	return strings.ToLower(mediaType), nil
}

func isAllowedMime(mimeType string) bool {
	for _, candidate := range allowedPhotoMimeTypes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

// extensionMatchesMime ties the declared mime type back to the file name so a
// renamed upload cannot sneak past the photo whitelist.
func extensionMatchesMime(fileName, mimeType string) bool {
	ext := strings.ToLower(path.Ext(fileName))
	expected, ok := allowedPhotoExtensions[ext]
	if !ok {
		return false
	}
	return strings.EqualFold(expected, mimeType)
}
