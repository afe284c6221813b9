package media

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"

	"github.com/franciscosanchezn/gin-recipe-api/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
}

// SetLogger replaces the package logger.
func SetLogger(l *logrus.Logger) {
	log = l
}

const keyPrefix = "recipes/"

// Upload is a stored object and its public address.
type Upload struct {
	Key string
	URL string
}

// URLs returns the public addresses of uploads, in order.
func URLs(uploads []Upload) []string {
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		urls = append(urls, u.URL)
	}
	return urls
}

// Uploader turns multipart files into stored recipe images.
type Uploader struct {
	storage   ObjectStorage
	processor *Processor
}

func NewUploader(storage ObjectStorage, processor *Processor) *Uploader {
	return &Uploader{storage: storage, processor: processor}
}

// NewStorage builds the backend selected by cfg.
func NewStorage(ctx context.Context, cfg config.MediaConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case config.MediaMinio:
		return NewMinioStorage(cfg.Minio, cfg.BaseURL)
	case config.MediaGCS:
		return NewGCSStorage(ctx, cfg.GCS, cfg.BaseURL)
	case config.MediaLocal, "":
		return NewLocalStorage(cfg.Dir, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.Backend)
	}
}

// SaveAll validates and processes every file before storing any of them.
// If a store fails, the objects already written are removed.
func (u *Uploader) SaveAll(ctx context.Context, files []*multipart.FileHeader) ([]Upload, error) {
	images := make([]*Image, 0, len(files))
	for _, fh := range files {
		if err := u.processor.CheckName(fh.Filename); err != nil {
			return nil, err
		}
		if fh.Size > u.processor.MaxBytes() {
			return nil, u.processor.tooLarge()
		}
		img, err := u.process(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	uploads := make([]Upload, 0, len(images))
	for _, img := range images {
		key := keyPrefix + uuid.NewString() + img.Ext
		if err := u.storage.Put(ctx, key, bytes.NewReader(img.Data), int64(len(img.Data)), img.ContentType); err != nil {
			u.Discard(ctx, uploads)
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		uploads = append(uploads, Upload{Key: key, URL: u.storage.URL(key)})
	}

	log.WithField("count", len(uploads)).Debug("Stored recipe images")
	return uploads, nil
}

func (u *Uploader) process(fh *multipart.FileHeader) (*Image, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer src.Close()
	return u.processor.Process(src, fh.Filename)
}

// Discard removes stored uploads. Failures are logged, not returned.
func (u *Uploader) Discard(ctx context.Context, uploads []Upload) {
	for _, up := range uploads {
		if err := u.storage.Delete(ctx, up.Key); err != nil {
			log.WithFields(logrus.Fields{
				"key":   up.Key,
				"error": err.Error(),
			}).Warn("Failed to discard uploaded image")
		}
	}
}
