package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/printworks/printworks-api/config"
)

// ModelStorage defines the interface for 3D model file storage. Product
// profiles keep an S3 key for their sliced model file; reads get a
// short-lived presigned URL.
type ModelStorage interface {
	UploadModel(fileHeader *multipart.FileHeader) (string, error)
	GetPresignedURL(s3Key string) (string, error)
	DeleteModel(s3Key string) error
}

// S3ModelStorage stores model files in an S3 bucket.
type S3ModelStorage struct {
	client *s3.Client
	bucket string
}

var modelStorageInstance ModelStorage

// InitModelStorage initializes the S3-backed model storage.
func InitModelStorage() (ModelStorage, error) {
	cfg := appConfig.GetConfig()

	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)

	modelStorageInstance = &S3ModelStorage{
		client: client,
		bucket: cfg.AWSS3Bucket,
	}

	return modelStorageInstance, nil
}

// GetModelStorage returns the initialized model storage instance.
func GetModelStorage() ModelStorage {
	return modelStorageInstance
}

// SetModelStorage sets the model storage instance (primarily for testing).
func SetModelStorage(storage ModelStorage) {
	modelStorageInstance = storage
}

// modelContentType maps a model file extension onto its MIME type.
func modelContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".stl":
		return "model/stl"
	case ".3mf":
		return "model/3mf"
	case ".gcode":
		return "text/x.gcode"
	default:
		return "application/octet-stream"
	}
}

// UploadModel uploads a model file to S3 and returns the S3 key.
func (s *S3ModelStorage) UploadModel(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: failed to close file: %v", closeErr)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// Format: models/{timestamp}_{filename}
	timestamp := time.Now().Unix()
	filename := filepath.Base(fileHeader.Filename)
	s3Key := fmt.Sprintf("models/%d_%s", timestamp, filename)

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3Key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(modelContentType(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s3Key, nil
}

// GetPresignedURL generates a presigned URL for accessing a private
// model file. The URL expires after 1 hour.
func (s *S3ModelStorage) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)

	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// DeleteModel deletes a model file from S3.
func (s *S3ModelStorage) DeleteModel(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete model from S3: %w", err)
	}

	return nil
}
