package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/franciscosanchezn/gin-recipe-api/internal/config"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// fileHeaders builds real multipart headers the way gin hands them to controllers.
func fileHeaders(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		fw, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["images"]
}

func TestProcessor(t *testing.T) {
	p := NewProcessor(100, 1<<20)

	t.Run("downscales wide png", func(t *testing.T) {
		img, err := p.Process(bytes.NewReader(pngBytes(t, 200, 80)), "dish.PNG")
		require.NoError(t, err)
		assert.Equal(t, ".png", img.Ext)
		assert.Equal(t, "image/png", img.ContentType)
		assert.Equal(t, 100, img.Width)
		assert.Equal(t, 40, img.Height)
	})

	t.Run("keeps narrow jpeg size", func(t *testing.T) {
		img, err := p.Process(bytes.NewReader(jpegBytes(t, 60, 30)), "dish.jpeg")
		require.NoError(t, err)
		assert.Equal(t, ".jpg", img.Ext)
		assert.Equal(t, "image/jpeg", img.ContentType)
		assert.Equal(t, 60, img.Width)
		assert.Equal(t, 30, img.Height)
	})

	tests := []struct {
		name     string
		filename string
		data     []byte
		message  string
	}{
		{"unsupported extension", "dish.gif", pngBytes(t, 10, 10), "Invalid file type, only JPG, JPEG, and PNG are allowed"},
		{"not an image", "dish.png", []byte("plain text pretending to be a picture"), "Invalid file type, only JPG, JPEG, and PNG are allowed"},
		{"too large", "dish.png", bytes.Repeat([]byte{0}, (1<<20)+1), "File too large. Maximum size is 1MB."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Process(bytes.NewReader(tt.data), tt.filename)
			require.Error(t, err)
			assert.Equal(t, models.KindValidation, models.KindOf(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestDefaultLimitsMessage(t *testing.T) {
	p := NewProcessor(0, 0)
	assert.Equal(t, int64(DefaultMaxBytes), p.MaxBytes())
	assert.Equal(t, "File too large. Maximum size is 5MB.", p.tooLarge().Error())
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")

	s, err := NewLocalStorage(dir, "")
	require.NoError(t, err)
	require.NoError(t, s.EnsureBucket(ctx))

	require.NoError(t, s.Put(ctx, "recipes/a.png", strings.NewReader("abc"), 3, "image/png"))
	data, err := os.ReadFile(filepath.Join(dir, "recipes", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	assert.Equal(t, "/uploads/recipes/a.png", s.URL("recipes/a.png"))

	// keys cannot escape the root
	require.NoError(t, s.Put(ctx, "../escape.png", strings.NewReader("x"), 1, "image/png"))
	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	assert.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "recipes/a.png"))
	require.NoError(t, s.Delete(ctx, "recipes/a.png"))
	_, err = os.Stat(filepath.Join(dir, "recipes", "a.png"))
	assert.True(t, os.IsNotExist(err))

	_, err = NewLocalStorage("", "")
	assert.Error(t, err)
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "http://cdn/recipes/a.png", joinURL("http://cdn/", "/recipes/a.png"))
	assert.Equal(t, "/uploads/recipes/a.png", joinURL("/uploads", "recipes/a.png"))
}

func TestUploaderSaveAll(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)
	u := NewUploader(s, NewProcessor(50, 1<<20))

	t.Run("stores every file", func(t *testing.T) {
		uploads, err := u.SaveAll(ctx, fileHeaders(t, map[string][]byte{
			"one.png": pngBytes(t, 120, 60),
			"two.jpg": jpegBytes(t, 20, 20),
		}))
		require.NoError(t, err)
		require.Len(t, uploads, 2)
		for _, up := range uploads {
			assert.True(t, strings.HasPrefix(up.Key, "recipes/"))
			assert.Equal(t, "http://localhost:8080/uploads/"+up.Key, up.URL)
			_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(up.Key)))
			assert.NoError(t, err)
		}
		assert.Len(t, URLs(uploads), 2)

		u.Discard(ctx, uploads)
		for _, up := range uploads {
			_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(up.Key)))
			assert.True(t, os.IsNotExist(err))
		}
	})

	t.Run("rejects batch with a bad file before storing", func(t *testing.T) {
		_, err := u.SaveAll(ctx, fileHeaders(t, map[string][]byte{
			"one.png":   pngBytes(t, 10, 10),
			"notes.txt": []byte("hello"),
		}))
		require.Error(t, err)
		assert.Equal(t, models.KindValidation, models.KindOf(err))

		entries, _ := os.ReadDir(filepath.Join(dir, "recipes"))
		assert.Empty(t, entries)
	})
}

func TestNewStorageRejectsUnknownBackend(t *testing.T) {
	_, err := NewStorage(context.Background(), configFor("ftp"))
	assert.Error(t, err)

	s, err := NewStorage(context.Background(), configFor("local"))
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)
}

func configFor(backend string) config.MediaConfig {
	return config.MediaConfig{Backend: backend, Dir: os.TempDir()}
}
