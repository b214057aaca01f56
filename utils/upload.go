package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ImageUploadDir is the directory under the media root that holds post images.
const ImageUploadDir = "posts"

var (
	ErrNotAnImage   = errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	ErrFileTooLarge = errors.New("The uploaded file is too large.")
	ErrEmptyFile    = errors.New("The submitted file is empty.")
)

// SaveImage sniffs the upload, rejects anything that is not an image and
// stores it under mediaRoot/posts with a random name. The returned path is
// relative to mediaRoot and uses forward slashes.
func SaveImage(fh *multipart.FileHeader, mediaRoot string, maxBytes int64) (string, error) {
	if fh.Size == 0 {
		return "", ErrEmptyFile
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return "", ErrFileTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	limit := maxBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return "", ErrFileTooLarge
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrNotAnImage
	}

	dir := filepath.Join(mediaRoot, ImageUploadDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}
	name := uuid.NewString() + mt.Extension()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path.Join(ImageUploadDir, name), nil
}

// RemoveMedia deletes a stored media file. Missing files are ignored.
func RemoveMedia(mediaRoot, rel string) {
	if rel == "" {
		return
	}
	p := filepath.Join(mediaRoot, filepath.FromSlash(rel))
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		Sugar.Warnf("remove media failed path=%s err=%v", p, err)
	}
}
