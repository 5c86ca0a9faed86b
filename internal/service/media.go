package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"

	"github.com/campusfind/campusfind/internal/storage"
	"github.com/google/uuid"
)

var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrMediaUpload marks a media store failure, surfaced distinctly from
	// repository errors so the boundary can answer 502 instead of 500.
	ErrMediaUpload = errors.New("media upload failed")
)

// uploadImage stores an image under a unique name below folder and returns
// its public URL together with the storage handle used for later deletion.
func uploadImage(st storage.Storage, folder string, file multipart.File, header *multipart.FileHeader) (string, string, error) {
	ext := filepath.Ext(header.Filename)
	handle := path.Join(folder, uuid.New().String()+ext)

	err := st.Save(handle, file)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrMediaUpload, err)
	}

	return st.URL(handle), handle, nil
}
