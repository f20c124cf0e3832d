package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var supportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

// ThumbnailName derives the browse-thumbnail filename for a scanned page:
// "APV0001_page1_img1.jpg" becomes "APV0001_page1_img1_w150px.jpg"
func ThumbnailName(imageName string, width int) string {
	ext := filepath.Ext(imageName)
	stem := strings.TrimSuffix(imageName, ext)
	return fmt.Sprintf("%s_w%dpx%s", stem, width, ext)
}

// GenerateThumbnail creates a fixed-width thumbnail with a deterministic
// filename so re-runs can skip images that are already done.
// returns the full path where the thumbnail was saved
func GenerateThumbnail(originalImagePath, thumbnailDir string, width int) (string, error) {
	if err := os.MkdirAll(thumbnailDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory %s: %w", thumbnailDir, err)
	}

	img, err := imaging.Open(originalImagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", originalImagePath, err)
	}

	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)

	thumbnailSavePath := filepath.Join(thumbnailDir, ThumbnailName(filepath.Base(originalImagePath), width))
	err = imaging.Save(thumb, thumbnailSavePath, imaging.JPEGQuality(80))
	if err != nil {
		return "", fmt.Errorf("failed to save thumbnail to %s: %w", thumbnailSavePath, err)
	}

	return thumbnailSavePath, nil
}
