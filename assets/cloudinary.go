package assets

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores images in a Cloudinary folder.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(url, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary configuration error: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, localPath string) (*Result, error) {
	uploadParams := uploader.UploadParams{
		Folder:         c.folder,
		Transformation: "c_limit,w_1200,h_1200,q_auto",
	}

	uploadResult, err := c.cld.Upload.Upload(ctx, localPath, uploadParams)
	if err != nil {
		return nil, &UploadError{Path: localPath, Err: err}
	}
	// The API reports rejected uploads in the body, not as a transport error.
	if uploadResult.Error.Message != "" {
		return nil, &UploadError{Path: localPath, Err: errors.New(uploadResult.Error.Message)}
	}

	return &Result{URL: uploadResult.SecureURL, PublicID: uploadResult.PublicID}, nil
}

func (c *Cloudinary) Remove(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	destroyResult, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return &RemoveError{PublicID: publicID, Err: err}
	}
	if destroyResult.Error.Message != "" {
		return &RemoveError{PublicID: publicID, Err: errors.New(destroyResult.Error.Message)}
	}
	return nil
}
