// Package assets moves post images between the local upload directory and
// the remote object store.
package assets

import (
	"context"
	"fmt"
)

// Result is the stable reference returned by a successful upload.
type Result struct {
	URL      string
	PublicID string
}

type Gateway interface {
	// Upload sends the file at localPath to the object store.
	Upload(ctx context.Context, localPath string) (*Result, error)

	// Remove deletes a previously uploaded object. An empty publicID is a
	// no-op.
	Remove(ctx context.Context, publicID string) error
}

// UploadError is returned when the object store rejects or fails an upload
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s failed: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// RemoveError is returned when the object store fails to delete an object
type RemoveError struct {
	PublicID string
	Err      error
}

func (e *RemoveError) Error() string {
	return fmt.Sprintf("remove of %s failed: %v", e.PublicID, e.Err)
}

func (e *RemoveError) Unwrap() error {
	return e.Err
}
