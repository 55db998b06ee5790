package kss

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/relabs-tech/todoapp/core/logger"
)

// LocalFilesystem stores every key as a file below a base folder
type LocalFilesystem struct {
	baseFolder string
}

// NewLocalFilesystem returns a new LocalFilesystem. The base folder is created if needed.
func NewLocalFilesystem(baseFolder string) (*LocalFilesystem, error) {
	if baseFolder == "" {
		return nil, fmt.Errorf("base folder must not be empty")
	}
	if err := os.MkdirAll(baseFolder, 0700); err != nil {
		return nil, fmt.Errorf("could not create base folder: %w", err)
	}
	logger.Default().Debugln("KSS local filesystem enabled in", baseFolder)
	return &LocalFilesystem{baseFolder: baseFolder}, nil
}

func (f *LocalFilesystem) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key '%s'", key)
	}
	return filepath.Join(f.baseFolder, filepath.FromSlash(key), "file"), nil
}

// Put stores data under key, replacing previous data
func (f *LocalFilesystem) Put(ctx context.Context, key string, data []byte) error {
	filePath, err := f.path(key)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return fmt.Errorf("could not create folder for key '%s': %w", key, err)
	}
	tmp := filePath + ".tmp"
	if err = os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("could not write key '%s': %w", key, err)
	}
	if err = os.Rename(tmp, filePath); err != nil {
		return fmt.Errorf("could not write key '%s': %w", key, err)
	}
	return nil
}

// Get returns the data stored under key
func (f *LocalFilesystem) Get(ctx context.Context, key string) ([]byte, error) {
	filePath, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, err
}
