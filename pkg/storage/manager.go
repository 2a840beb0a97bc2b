package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Manager handles statement files on disk: naming, already-downloaded
// checks, and atomic saves
type Manager struct {
	dir string
}

// NewManager creates a storage manager rooted at dir
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{dir: dir}, nil
}

// ExpectedFileName returns the local file name for a pay date
func ExpectedFileName(date string) string {
	return date + ".pdf"
}

// Has reports whether the statement for a pay date is already on disk.
// Two locations count: the managed directory itself, and a subdirectory
// named after the date's year (people file old statements away by year).
func (m *Manager) Has(date string) bool {
	name := ExpectedFileName(date)

	if _, err := os.Stat(filepath.Join(m.dir, name)); err == nil {
		return true
	}

	year, _, _ := strings.Cut(date, "-")
	if _, err := os.Stat(filepath.Join(m.dir, year, name)); err == nil {
		return true
	}

	return false
}

// Save streams a statement body to <date>.pdf in the managed directory,
// overwriting any existing file. Year subdirectories are read-only as far
// as the manager is concerned; it never writes into them.
func (m *Manager) Save(date string, r io.Reader) error {
	filename := filepath.Join(m.dir, ExpectedFileName(date))

	// Write to a temporary file and rename so a failed download never
	// leaves a half-written statement behind
	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to save statement data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// Dir returns the managed directory path
func (m *Manager) Dir() string {
	return m.dir
}
