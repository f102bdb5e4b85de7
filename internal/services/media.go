package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MediaService handles profile photo uploads via pre-signed S3 URLs.
type MediaService struct {
	users    UserStore
	s3Client *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewMediaService creates a new media service
func NewMediaService(users UserStore, region, bucket, accessKey, secretKey, endpoint string) (*MediaService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &MediaService{
		users:    users,
		s3Client: s3Client,
		bucket:   bucket,
		region:   region,
		endpoint: endpoint,
	}, nil
}

// UploadResponse represents the response with pre-signed URL
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	PhotoURL  string `json:"photo_url"`
	ExpiresIn int    `json:"expires_in"`
}

// GetProfilePhotoUploadURL generates a pre-signed URL for uploading a
// profile photo and the public URL it will be retrievable from.
func (s *MediaService) GetProfilePhotoUploadURL(ctx context.Context, userID, contentType string) (*UploadResponse, error) {
	s3Key := fmt.Sprintf("profiles/%s/%s.jpg", userID, uuid.New().String())

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3Key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 5 * time.Minute
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	photoURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, s3Key)
	if s.endpoint != "" {
		photoURL = fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, s3Key)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		PhotoURL:  photoURL,
		ExpiresIn: 300,
	}, nil
}

// ConfirmProfilePhoto stores the uploaded photo URL on the user profile
func (s *MediaService) ConfirmProfilePhoto(ctx context.Context, userID, photoURL string) error {
	if photoURL == "" {
		return fmt.Errorf("photo_url is required")
	}
	return s.users.UpdatePhotoURL(ctx, userID, photoURL)
}
