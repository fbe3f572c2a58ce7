// Package testutil provides testing utilities shared across packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempBytecode writes a bytecode program to a temporary file and returns its
// path. The file is automatically cleaned up when the test finishes.
func TempBytecode(t *testing.T, code []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.bin")
	if err := os.WriteFile(path, code, 0644); err != nil {
		t.Fatalf("failed to write temp bytecode: %v", err)
	}
	return path
}

// TempFile creates a temporary file with the given content and extension.
func TempFile(t *testing.T, content, ext string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+ext)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// AssertUint32Equal checks if two uint32 values are equal.
func AssertUint32Equal(t *testing.T, expected, actual uint32) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected %d, got %d", expected, actual)
	}
}
