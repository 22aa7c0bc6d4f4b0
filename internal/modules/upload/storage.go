package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxFileSize = 10 << 20

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("only JPEG, PNG, GIF and WEBP images are allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// imageExtension sniffs the leading bytes of an upload and returns the file
// extension for an allowed image type.
func imageExtension(head []byte) (string, error) {
	mimeType := strings.Split(http.DetectContentType(head), ";")[0]
	ext, ok := imageExt[mimeType]
	if !ok {
		return "", ErrInvalidMimeType
	}
	return ext, nil
}

// ImageStorage stores an image and returns the public URL it is served from.
type ImageStorage interface {
	Upload(ctx context.Context, r io.Reader) (string, error)
}

// LocalStorage writes images under baseDir/YYYY/MM/DD with uuid names and
// serves them under urlBase.
type LocalStorage struct {
	baseDir string
	urlBase string
	now     func() time.Time
}

func NewLocalStorage(baseDir, urlBase string) *LocalStorage {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if urlBase == "" {
		urlBase = "/static/uploads"
	}
	return &LocalStorage{baseDir: baseDir, urlBase: strings.TrimRight(urlBase, "/"), now: time.Now}
}

func (s *LocalStorage) BaseDir() string { return s.baseDir }
func (s *LocalStorage) URLBase() string { return s.urlBase }

func (s *LocalStorage) Upload(ctx context.Context, r io.Reader) (string, error) {
	// Detect MIME type from the first 512 bytes
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return "", ErrEmptyFile
	}
	head = head[:n]

	ext, err := imageExtension(head)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := s.now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	filename := uuid.NewString() + ext
	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	// One byte past the cap tells an oversized body apart from an exact fit.
	written, err := io.Copy(dst, io.LimitReader(io.MultiReader(bytes.NewReader(head), r), MaxFileSize+1))
	closeErr := dst.Close()
	switch {
	case err != nil:
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write file: %w", err)
	case closeErr != nil:
		_ = os.Remove(absPath)
		return "", fmt.Errorf("close file: %w", closeErr)
	case written > MaxFileSize:
		_ = os.Remove(absPath)
		return "", ErrFileTooLarge
	}

	return s.urlBase + "/" + relDir + "/" + filename, nil
}
