package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestExpectedFileName(t *testing.T) {
	if got := ExpectedFileName("2023-01-15"); got != "2023-01-15.pdf" {
		t.Errorf("Expected 2023-01-15.pdf, got %s", got)
	}
}

func TestManagerHas(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Nothing on disk yet
	if manager.Has("2023-01-15") {
		t.Error("Expected Has to return false for a missing statement")
	}

	// Statement in the managed directory
	if err := os.WriteFile(filepath.Join(tempDir, "2023-01-15.pdf"), []byte("pdf"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if !manager.Has("2023-01-15") {
		t.Error("Expected Has to return true for a statement in the directory")
	}

	// Statement filed away in a year subdirectory
	if err := os.MkdirAll(filepath.Join(tempDir, "2022"), 0755); err != nil {
		t.Fatalf("Failed to create year directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "2022", "2022-12-15.pdf"), []byte("pdf"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if !manager.Has("2022-12-15") {
		t.Error("Expected Has to return true for a statement in the year subdirectory")
	}

	// A file for a different date doesn't count
	if manager.Has("2022-11-15") {
		t.Error("Expected Has to return false for a date with no file anywhere")
	}
}

func TestManagerSave(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	testData := []byte("%PDF-1.4 statement body")
	if err := manager.Save("2023-01-15", bytes.NewReader(testData)); err != nil {
		t.Fatalf("Failed to save statement: %v", err)
	}

	expectedPath := filepath.Join(tempDir, "2023-01-15.pdf")
	content, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(content, testData) {
		t.Error("File content does not match expected data")
	}

	if !manager.Has("2023-01-15") {
		t.Error("Expected Has to return true after saving")
	}

	// No leftover temp file
	if _, err := os.Stat(expectedPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temporary file to be gone after save")
	}
}

func TestManagerSaveOverwrites(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.Save("2023-01-15", bytes.NewReader([]byte("old"))); err != nil {
		t.Fatalf("Failed to save statement: %v", err)
	}
	if err := manager.Save("2023-01-15", bytes.NewReader([]byte("new"))); err != nil {
		t.Fatalf("Failed to overwrite statement: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(tempDir, "2023-01-15.pdf"))
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if string(content) != "new" {
		t.Errorf("Expected overwritten content, got %q", content)
	}
}

func TestNewManagerCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "stubs")

	if _, err := NewManager(target); err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		t.Error("Expected managed directory to be created")
	}
}
