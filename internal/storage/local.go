// Package storage keeps uploaded images on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpeg",
	"image/jpg":  ".jpg",
}

// LocalStore writes uploads under a directory and exposes them under a URL prefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Dir returns the directory on disk.
func (s *LocalStore) Dir() string { return s.dir }

// URLPrefix returns the public path prefix.
func (s *LocalStore) URLPrefix() string { return s.urlPrefix }

// SaveImage stores a png or jpeg upload under a random name and returns its
// public path.
func (s *LocalStore) SaveImage(fh *multipart.FileHeader) (string, error) {
	ext, ok := allowedImageTypes[strings.ToLower(fh.Header.Get("Content-Type"))]
	if !ok {
		return "", apperrors.NewValidationError([]apperrors.FieldViolation{{Field: "image", Constraint: "mimetype"}})
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path.Join(s.urlPrefix, name), nil
}

// Remove deletes a file previously returned by SaveImage. Paths outside the
// store are rejected; a file that is already gone is not an error.
func (s *LocalStore) Remove(publicPath string) error {
	name := strings.TrimPrefix(path.Clean("/"+publicPath), s.urlPrefix+"/")
	if name == "" || strings.Contains(name, "/") || name == "." || name == ".." {
		return fmt.Errorf("refusing to remove %q outside upload dir", publicPath)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
