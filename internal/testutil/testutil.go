// Package testutil provides test helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"
)

// UTF16LE encodes s as little-endian UTF-16 without a BOM.
func UTF16LE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

// Executable builds a fake game executable: a header, the UTF-16 marker,
// the UTF-16 build-info table, then zero padding.
func Executable(marker, table string) []byte {
	var data []byte
	data = append(data, []byte("MZ\x90\x00 some header bytes ")...)
	data = append(data, UTF16LE(marker)...)
	data = append(data, UTF16LE(table)...)
	data = append(data, make([]byte, 256)...)
	return data
}

// WriteFile writes content to name inside a fresh temp dir and returns the
// full path.
func WriteFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteExecutable writes a fake executable carrying table after marker.
func WriteExecutable(t *testing.T, marker, table string) string {
	t.Helper()
	return WriteFile(t, "Game.exe", Executable(marker, table))
}
