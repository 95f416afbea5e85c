package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

type GCSService struct {
	client *storage.Client
}

func NewGCSService(ctx context.Context) (*GCSService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSService{client: client}, nil
}

func (s *GCSService) UploadFile(ctx context.Context, bucketName, objectName, contentType string, content io.Reader) error {
	bucket := s.client.Bucket(bucketName)
	obj := bucket.Object(objectName)
	writer := obj.NewWriter(ctx)
	if contentType != "" {
		writer.ContentType = contentType
	}
	if _, err := io.Copy(writer, content); err != nil {
		return err
	}
	return writer.Close()
}

func (s *GCSService) DownloadFile(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	bucket := s.client.Bucket(bucketName)
	obj := bucket.Object(objectName)
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (s *GCSService) DeleteFile(ctx context.Context, bucketName, objectName string) error {
	bucket := s.client.Bucket(bucketName)
	obj := bucket.Object(objectName)
	return obj.Delete(ctx)
}

func (s *GCSService) ListFiles(ctx context.Context, bucketName, prefix string) ([]string, error) {
	var fileNames []string
	bucket := s.client.Bucket(bucketName)
	var query *storage.Query
	if prefix != "" {
		query = &storage.Query{Prefix: prefix}
	}
	it := bucket.Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		fileNames = append(fileNames, attrs.Name)
	}
	return fileNames, nil
}

// ArticleObjectName is where a published article lives inside the bucket.
func ArticleObjectName(slug string) string {
	return fmt.Sprintf("articles/%s.html", slug)
}

// PublishArticleHTML uploads a rendered article and returns its public URL.
func PublishArticleHTML(ctx context.Context, storage CloudStorageManager, bucketName, slug, html string) (string, error) {
	objectName := ArticleObjectName(slug)
	if err := storage.UploadFile(ctx, bucketName, objectName, "text/html; charset=utf-8", strings.NewReader(html)); err != nil {
		return "", fmt.Errorf("failed to upload article %s: %w", slug, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName), nil
}
