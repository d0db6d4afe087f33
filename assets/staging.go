package assets

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxImageSize = 10 << 20 // 10 MB

var (
	ErrImageTooLarge    = fmt.Errorf("image exceeds maximum size of %d MB", MaxImageSize/(1<<20))
	ErrUnsupportedImage = errors.New("unsupported image type")
)

var validImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Stager writes multipart uploads to a local directory so the gateway can
// read them from disk.
type Stager struct {
	dir string
}

func NewStager(dir string) *Stager {
	return &Stager{dir: dir}
}

// Save copies the uploaded file into the staging directory and returns its
// path. The caller owns the file and must RemoveLocal it.
func (s *Stager) Save(header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !validImageTypes[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	filename := fmt.Sprintf("%s-%s%s",
		time.Now().Format("20060102"),
		uuid.New().String(),
		ext,
	)
	path := filepath.Join(s.dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return path, nil
}

// RemoveLocal deletes a staged file. Failures are logged, never returned.
func RemoveLocal(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[assets] failed to remove temp file %s: %v", path, err)
	}
}
