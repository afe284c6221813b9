package media

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
)

const (
	DefaultMaxWidth = 1600
	DefaultMaxBytes = 5 << 20
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Image is a processed upload ready to be stored.
type Image struct {
	Data        []byte
	Ext         string
	ContentType string
	Width       int
	Height      int
}

// Processor validates uploaded images and normalizes them: orientation is
// applied, wide images are downscaled and the result is re-encoded in the
// source format.
type Processor struct {
	maxWidth int
	maxBytes int64
}

func NewProcessor(maxWidth int, maxBytes int64) *Processor {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Processor{maxWidth: maxWidth, maxBytes: maxBytes}
}

// MaxBytes returns the largest accepted upload size.
func (p *Processor) MaxBytes() int64 {
	return p.maxBytes
}

func (p *Processor) invalidType() error {
	return models.NewValidationError("Invalid file type, only JPG, JPEG, and PNG are allowed")
}

func (p *Processor) tooLarge() error {
	mb := p.maxBytes >> 20
	if mb < 1 {
		mb = 1
	}
	return models.NewValidationError(fmt.Sprintf("File too large. Maximum size is %dMB.", mb))
}

// CheckName rejects file names without an accepted image extension.
func (p *Processor) CheckName(filename string) error {
	if !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return p.invalidType()
	}
	return nil
}

// Process reads at most maxBytes from r and returns the normalized image.
func (p *Processor) Process(r io.Reader, filename string) (*Image, error) {
	if err := p.CheckName(filename); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, p.tooLarge()
	}

	var format imaging.Format
	var ext string
	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/jpeg":
		format, ext = imaging.JPEG, ".jpg"
	case "image/png":
		format, ext = imaging.PNG, ".png"
	default:
		return nil, p.invalidType()
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, p.invalidType()
	}
	if img.Bounds().Dx() > p.maxWidth {
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &Image{
		Data:        buf.Bytes(),
		Ext:         ext,
		ContentType: contentType,
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}, nil
}
