package assets

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGateway(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	res, err := m.Upload(ctx, path)
	require.NoError(t, err)
	assert.NotEmpty(t, res.URL)
	assert.True(t, m.Has(res.PublicID))

	require.NoError(t, m.Remove(ctx, res.PublicID))
	assert.Equal(t, 0, m.Len())

	var rmErr *RemoveError
	assert.ErrorAs(t, m.Remove(ctx, res.PublicID), &rmErr)
	assert.NoError(t, m.Remove(ctx, ""))
}

func TestMemoryGatewayFailures(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	boom := errors.New("boom")

	var upErr *UploadError
	_, err := m.Upload(ctx, filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorAs(t, err, &upErr)

	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	m.FailUploads(boom)
	_, err = m.Upload(ctx, path)
	require.ErrorAs(t, err, &upErr)
	assert.ErrorIs(t, err, boom)
	m.FailUploads(nil)

	res, err := m.Upload(ctx, path)
	require.NoError(t, err)
	m.FailRemovals(boom)
	assert.ErrorIs(t, m.Remove(ctx, res.PublicID), boom)
	assert.True(t, m.Has(res.PublicID))
}

// fileHeader builds a real multipart.FileHeader by parsing a request.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, header, err := req.FormFile("image")
	require.NoError(t, err)
	return header
}

func TestStagerSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	s := NewStager(dir)

	path, err := s.Save(fileHeader(t, "Photo.JPG", []byte("jpeg bytes")))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".jpg"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	RemoveLocal(path)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// removing twice is quiet
	RemoveLocal(path)
}

func TestStagerRejects(t *testing.T) {
	s := NewStager(t.TempDir())

	_, err := s.Save(fileHeader(t, "script.sh", []byte("#!/bin/sh")))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	header := fileHeader(t, "big.png", []byte("x"))
	header.Size = MaxImageSize + 1
	_, err = s.Save(header)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
