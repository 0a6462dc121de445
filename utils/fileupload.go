package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxModelFileSize is 50MB in bytes; sliced plates can get large
	MaxModelFileSize = 50 * 1024 * 1024
)

// AllowedModelFormats are the model file extensions accepted for upload
var AllowedModelFormats = []string{".stl", ".3mf", ".gcode"}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateModelFile validates an uploaded 3D model file's format and size
func ValidateModelFile(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxModelFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxModelFileSize/(1024*1024)),
		}
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, allowed := range AllowedModelFormats {
		if ext == allowed {
			return nil
		}
	}

	return &FileUploadError{
		Code:    "INVALID_FILE_FORMAT",
		Message: fmt.Sprintf("Only %s files are allowed", strings.Join(AllowedModelFormats, ", ")),
	}
}
