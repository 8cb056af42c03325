package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// LocalStorage persists uploaded files on the local filesystem. Stored
// paths are relative to the base directory and safe to keep in the
// database; the evidence endpoint resolves them back to disk.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating the
// directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save stores an uploaded file under the given subdirectory and returns
// the relative path to keep in the database. The stored filename is a
// fresh UUID so uploads never collide.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil // no file uploaded
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir := ls.basePath
	if subPath != "" {
		dir = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	ext := filepath.Ext(fileHeader.Filename)
	storedName := uuid.New().String() + ext
	dstPath := filepath.Join(dir, storedName)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	relPath := storedName
	if subPath != "" {
		relPath = filepath.Join(subPath, storedName)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", relPath).Msg("File saved")
	return relPath, nil
}

// Resolve maps a stored relative path back to an absolute filesystem path.
// Returns os.ErrNotExist if the file is gone.
func (ls *LocalStorage) Resolve(storedPath string) (string, error) {
	if storedPath == "" {
		return "", os.ErrNotExist
	}

	// Reject traversal out of the base directory.
	full := filepath.Join(ls.basePath, filepath.Clean("/"+storedPath))
	if _, err := os.Stat(full); err != nil {
		return "", err
	}
	return full, nil
}

// Delete removes a stored file. Missing files are treated as already
// deleted.
func (ls *LocalStorage) Delete(storedPath string) error {
	if storedPath == "" {
		return nil
	}

	full := filepath.Join(ls.basePath, filepath.Clean("/"+storedPath))
	if _, err := os.Stat(full); os.IsNotExist(err) {
		logger.Warn().Str("path", full).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(full); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
