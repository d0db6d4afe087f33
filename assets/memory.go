package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Memory is an in-process Gateway. Failures can be injected to exercise
// the error paths of its callers.
type Memory struct {
	mu        sync.Mutex
	objects   map[string]string
	seq       int
	uploadErr error
	removeErr error
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string]string)}
}

func (m *Memory) Upload(ctx context.Context, localPath string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.uploadErr != nil {
		return nil, &UploadError{Path: localPath, Err: m.uploadErr}
	}
	if _, err := os.Stat(localPath); err != nil {
		return nil, &UploadError{Path: localPath, Err: err}
	}

	m.seq++
	publicID := fmt.Sprintf("memory/%d", m.seq)
	url := "memory://" + publicID
	m.objects[publicID] = url
	return &Result{URL: url, PublicID: publicID}, nil
}

func (m *Memory) Remove(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.removeErr != nil {
		return &RemoveError{PublicID: publicID, Err: m.removeErr}
	}
	if _, ok := m.objects[publicID]; !ok {
		return &RemoveError{PublicID: publicID, Err: errors.New("object not found")}
	}
	delete(m.objects, publicID)
	return nil
}

// FailUploads makes every following Upload fail with err; nil restores it.
func (m *Memory) FailUploads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadErr = err
}

// FailRemovals makes every following Remove fail with err; nil restores it.
func (m *Memory) FailRemovals(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeErr = err
}

func (m *Memory) Has(publicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[publicID]
	return ok
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
