// Package storage keeps uploaded files in a content-addressed layout: the
// SHA-256 of the bytes names the file, so identical uploads share one blob and
// nothing is ever overwritten or deleted.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// Storage stores a blob and returns its path relative to the store root.
type Storage interface {
	Put(ctx context.Context, src io.Reader, mimeType string) (string, error)
}

// ErrNotAFile is returned when the destination of a blob exists but is not a
// regular file.
var ErrNotAFile = errors.New("destination path already exists, but it is not a file")

// BlobPath returns "<hex[:2]>/<hex>[.<ext>]" for a digest.
func BlobPath(digest []byte, mimeType string) string {
	sum := hex.EncodeToString(digest)
	name := sum
	if ext := model.ExtensionForMIME(mimeType); ext != "" {
		name = sum + "." + ext
	}
	return path.Join(sum[:2], name)
}

// spool copies src into a temporary file under dir while hashing it. The
// caller owns the returned file and must close and remove it.
func spool(dir string, src io.Reader) (*os.File, hash.Hash, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create spool directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), src); err != nil {
		discard(tmp)
		return nil, nil, fmt.Errorf("failed to spool upload: %w", err)
	}
	return tmp, hasher, nil
}

func discard(f *os.File) {
	_ = f.Close()
	if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("file", f.Name()).Msg("[storage] failed to remove temp file")
	}
}

// LocalStorage keeps blobs on the local filesystem.
type LocalStorage struct {
	uploadDir string
}

func NewLocalStorage(uploadDir string) *LocalStorage {
	return &LocalStorage{uploadDir: uploadDir}
}

func (ls *LocalStorage) Root() string {
	return ls.uploadDir
}

func (ls *LocalStorage) Put(ctx context.Context, src io.Reader, mimeType string) (string, error) {
	tmp, hasher, err := spool(ls.uploadDir, src)
	if err != nil {
		return "", err
	}
	defer discard(tmp)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := BlobPath(hasher.Sum(nil), mimeType)
	dest := filepath.Join(ls.uploadDir, filepath.FromSlash(rel))

	info, err := os.Stat(dest)
	switch {
	case err == nil && info.Mode().IsRegular():
		log.Debug().Str("path", rel).Msg("[storage] blob already stored")
		return rel, nil
	case err == nil:
		return "", fmt.Errorf("%s: %w", rel, ErrNotAFile)
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("failed to stat destination: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to flush upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to move blob into place: %w", err)
	}
	if err := os.Chmod(dest, 0o644); err != nil {
		log.Warn().Err(err).Str("path", rel).Msg("[storage] failed to chmod blob")
	}

	log.Info().Str("path", rel).Msg("[storage] stored blob")
	return rel, nil
}

// Resolve maps a blob path to a filesystem path, rejecting paths that leave
// the upload directory.
func (ls *LocalStorage) Resolve(rel string) (string, error) {
	clean := path.Clean("/" + strings.TrimPrefix(rel, "/"))
	if clean == "/" || strings.HasPrefix(path.Base(clean), ".") {
		return "", os.ErrNotExist
	}
	return filepath.Join(ls.uploadDir, filepath.FromSlash(clean)), nil
}
