package bill

import (
	"fmt"
	"os"
	"path/filepath"
)

// Spool holds an upload on disk for the duration of a scan. Nothing outlives
// the request: the service removes every spooled file once the scanner is
// done with it.
type Spool interface {
	// Save writes a file and returns the path/filename
	Save(filename string, data []byte) (string, error)

	// Delete removes a file
	Delete(path string) error
}

// LocalSpool implements the Spool interface on the local filesystem
type LocalSpool struct {
	basePath string
}

// NewLocalSpool creates a new LocalSpool instance
func NewLocalSpool(basePath string) (*LocalSpool, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating spool directory: %w", err)
	}
	return &LocalSpool{basePath: basePath}, nil
}

// Save writes a file to the spool directory
func (l *LocalSpool) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

// Delete removes a file from the spool directory
func (l *LocalSpool) Delete(path string) error {
	fullPath := filepath.Join(l.basePath, path)
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
