package blobstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"crowdfund/internal/apperr"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "http://localhost:8080/uploads/")

	url, err := store.Store(context.Background(), Object{Filename: "Photo.PNG", Data: []byte("png")}, FolderCampaignImages, KindImage)
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/uploads/campaign/images/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %s", url)
	}

	name := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(root, "campaign", "images", name))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "png" {
		t.Errorf("stored data = %q", data)
	}

	if err := store.Delete(context.Background(), url); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "campaign", "images", name)); !os.IsNotExist(err) {
		t.Errorf("expected file to be removed, stat err = %v", err)
	}
}

func TestLocalStoreRejectsBadInput(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://cdn")

	_, err := store.Store(context.Background(), Object{Filename: "a.png"}, FolderProfile, KindImage)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("empty file: expected VALIDATION, got %v", err)
	}

	_, err = store.Store(context.Background(), Object{Filename: "a.exe", Data: []byte("x")}, FolderProfile, KindImage)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("non-image: expected VALIDATION, got %v", err)
	}

	if _, err := store.Store(context.Background(), Object{Filename: "a.pdf", Data: []byte("x")}, FolderCampaignFiles, KindRaw); err != nil {
		t.Errorf("raw file rejected: %v", err)
	}
}

func TestDeleteIgnoresForeignURL(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://cdn")
	if err := store.Delete(context.Background(), "http://elsewhere/x.png"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

type flakyStore struct {
	mu      sync.Mutex
	failOn  string
	stored  map[string]bool
	deleted []string
}

func (f *flakyStore) Store(_ context.Context, obj Object, folder string, _ Kind) (string, error) {
	if obj.Filename == f.failOn {
		return "", apperr.New(apperr.CodeStorage, "boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "mem://" + folder + "/" + obj.Filename
	f.stored[url] = true
	return url, nil
}

func (f *flakyStore) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	delete(f.stored, url)
	return nil
}

func TestUploadAllPreservesOrder(t *testing.T) {
	store := &flakyStore{stored: map[string]bool{}}
	objs := []Object{
		{Filename: "1.png", Data: []byte("a")},
		{Filename: "2.png", Data: []byte("b")},
		{Filename: "3.png", Data: []byte("c")},
		{Filename: "4.png", Data: []byte("d")},
	}

	urls, err := UploadAll(context.Background(), store, 2, objs, "f", KindImage)
	if err != nil {
		t.Fatalf("UploadAll failed: %v", err)
	}
	for i, obj := range objs {
		if want := "mem://f/" + obj.Filename; urls[i] != want {
			t.Errorf("urls[%d] = %s, want %s", i, urls[i], want)
		}
	}
}

func TestUploadAllCleansUpOnFailure(t *testing.T) {
	store := &flakyStore{stored: map[string]bool{}, failOn: "bad.png"}
	objs := []Object{
		{Filename: "ok1.png", Data: []byte("a")},
		{Filename: "bad.png", Data: []byte("b")},
		{Filename: "ok2.png", Data: []byte("c")},
	}

	_, err := UploadAll(context.Background(), store, 3, objs, "f", KindImage)
	var coded *apperr.Error
	if !errors.As(err, &coded) || coded.Code != apperr.CodeStorage {
		t.Fatalf("expected STORAGE_ERROR, got %v", err)
	}
	if len(store.stored) != 0 {
		t.Errorf("expected all blobs removed, still have %v", store.stored)
	}
	if len(store.deleted) != 2 {
		t.Errorf("expected 2 deletes, got %d", len(store.deleted))
	}
}
