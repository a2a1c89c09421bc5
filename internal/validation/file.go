package validation

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrFileTooLarge = errors.New("file size exceeds limit")
	ErrFileType     = errors.New("file type not allowed")
)

// UploadConstraints defines validation rules for file uploads
type UploadConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// DefaultUploadConstraints is the allowed set for the files app:
// pdf, png, jpeg and gif, capped at 5 MiB.
var DefaultUploadConstraints = UploadConstraints{
	AllowedMimeTypes: map[string]bool{
		"application/pdf": true,
		"image/png":       true,
		"image/jpeg":      true,
		"image/gif":       true,
	},
	AllowedExtensions: map[string]bool{
		".pdf":  true,
		".png":  true,
		".jpg":  true,
		".jpeg": true,
		".gif":  true,
	},
	MaxSize: 5 << 20, // 5 MiB
}

// ValidateUpload validates an upload against the constraint set.
// The content type is detected from the file's magic numbers, not trusted
// from the request header.
func ValidateUpload(header *multipart.FileHeader, constraints UploadConstraints) (string, error) {
	// Check size first (before reading content)
	if header.Size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return "", fmt.Errorf("%w: maximum size is %d MB", ErrFileTooLarge, maxMB)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Read first 512 bytes for magic number detection
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	detectedType := http.DetectContentType(buffer[:n])
	// DetectContentType may append charset parameters for text types
	detectedType = strings.TrimSpace(strings.SplitN(detectedType, ";", 2)[0])

	if !constraints.AllowedMimeTypes[detectedType] {
		return "", fmt.Errorf("%w (detected: %s)", ErrFileType, detectedType)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return "", fmt.Errorf("%w (extension: %s)", ErrFileType, ext)
	}

	return detectedType, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces a user-supplied name to a filesystem-safe display
// name: path components are dropped and unsafe runes collapse to underscores.
func SanitizeFilename(name string) string {
	// Strip directories from both separator conventions
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")

	if name == "" {
		return "file"
	}
	return name
}
