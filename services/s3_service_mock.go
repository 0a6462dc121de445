package services

import (
	"fmt"
	"mime/multipart"
	"sync"
)

// MockModelStorage is an in-memory ModelStorage for testing.
type MockModelStorage struct {
	storedModels map[string][]byte // map of S3 key to file content
	mu           sync.RWMutex
}

// NewMockModelStorage creates a new mock model storage.
func NewMockModelStorage() *MockModelStorage {
	return &MockModelStorage{
		storedModels: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global storage instance.
func (m *MockModelStorage) SetAsMockForTesting() {
	SetModelStorage(m)
}

// UploadModel simulates uploading a model file.
func (m *MockModelStorage) UploadModel(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	if _, err := file.Read(content); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	s3Key := fmt.Sprintf("models/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.storedModels[s3Key] = content
	m.mu.Unlock()

	return s3Key, nil
}

// GetPresignedURL simulates generating a presigned URL.
func (m *MockModelStorage) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.storedModels[s3Key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("model not found in mock storage: %s", s3Key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", s3Key), nil
}

// DeleteModel simulates deleting a model file.
func (m *MockModelStorage) DeleteModel(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.storedModels, s3Key)
	m.mu.Unlock()

	return nil
}

// ModelExists checks if a model exists in mock storage (for assertions).
func (m *MockModelStorage) ModelExists(s3Key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.storedModels[s3Key]
	return exists
}

// Clear removes all stored models.
func (m *MockModelStorage) Clear() {
	m.mu.Lock()
	m.storedModels = make(map[string][]byte)
	m.mu.Unlock()
}
