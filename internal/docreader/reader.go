// Package docreader turns question-bank documents into the ordered list of
// paragraph strings the segmenter consumes.
package docreader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a supported document format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

// ErrUnsupportedFormat is returned for files that are neither DOCX nor text.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Detect picks the format from the file extension.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return FormatDOCX, nil
	case ".txt", ".text", ".md":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// ParseFormat accepts a format name as given on a command line or query
// string.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "docx", "word":
		return FormatDOCX, nil
	case "text", "txt", "md", "markdown":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Options tunes reading.
type Options struct {
	// Encoding applies to text documents only. Empty means EncodingAuto.
	Encoding Encoding
}

// ReadFile reads the paragraphs of the document at path.
func ReadFile(path string, opts Options) ([]string, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Read(data, format, opts)
}

// Read extracts paragraphs from an in-memory document.
func Read(data []byte, format Format, opts Options) ([]string, error) {
	switch format {
	case FormatDOCX:
		return readDOCX(bytes.NewReader(data), int64(len(data)))
	case FormatText:
		return readText(data, opts.Encoding)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ReadFrom is Read for a stream.
func ReadFrom(r io.Reader, format Format, opts Options) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Read(data, format, opts)
}
