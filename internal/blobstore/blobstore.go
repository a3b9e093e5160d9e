// Package blobstore stores uploaded campaign media and profile photos.
package blobstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"crowdfund/internal/apperr"

	"github.com/google/uuid"
)

// Kind tells the store how to treat an object
type Kind string

const (
	KindImage Kind = "image"
	KindRaw   Kind = "raw"
)

const (
	FolderCampaignImages = "campaign/images"
	FolderCampaignFiles  = "campaign/files"
	FolderProfile        = "profile"
)

// Object is an uploaded file waiting to be stored
type Object struct {
	Filename string
	Data     []byte
}

// Store persists blobs and returns their public URLs
type Store interface {
	Store(ctx context.Context, obj Object, folder string, kind Kind) (string, error)
	Delete(ctx context.Context, url string) error
}

// LocalStore writes blobs under a directory served as static files
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

// Store writes obj to <root>/<folder>/<uuid><ext>
func (s *LocalStore) Store(ctx context.Context, obj Object, folder string, kind Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperr.Wrap(apperr.CodeStorage, err, "upload cancelled")
	}
	if len(obj.Data) == 0 {
		return "", apperr.New(apperr.CodeValidation, "file %q is empty", obj.Filename)
	}
	if kind == KindImage && !isImage(obj.Filename) {
		return "", apperr.New(apperr.CodeValidation, "file %q is not a supported image", obj.Filename)
	}

	dir := filepath.Join(s.root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Wrap(apperr.CodeStorage, err, "failed to create storage folder")
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(obj.Filename))
	if err := os.WriteFile(filepath.Join(dir, name), obj.Data, 0o644); err != nil {
		return "", apperr.Wrap(apperr.CodeStorage, err, "failed to store %s", obj.Filename)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, path.Join(folder, name)), nil
}

// Delete removes a blob previously returned by Store. Unknown URLs and
// already-missing files are ignored.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return nil
	}
	target := filepath.Join(s.root, filepath.FromSlash(path.Clean("/" + rel)))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return apperr.Wrap(apperr.CodeStorage, err, "failed to delete %s", url)
	}
	return nil
}

func isImage(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
