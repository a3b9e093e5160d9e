package blobstore

import (
	"context"
	"sync"

	"crowdfund/internal/apperr"
	"crowdfund/internal/logger"

	"github.com/panjf2000/ants/v2"
)

// UploadAll stores objs concurrently on a pool of at most workers goroutines.
// URLs come back in input order. If any upload fails, the ones that
// succeeded are deleted and the first error is returned.
func UploadAll(ctx context.Context, store Store, workers int, objs []Object, folder string, kind Kind) ([]string, error) {
	if len(objs) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(objs) {
		workers = len(objs)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeStorage, err, "failed to create upload pool")
	}
	defer pool.Release()

	urls := make([]string, len(objs))
	errs := make([]error, len(objs))

	var wg sync.WaitGroup
	for i := range objs {
		i := i
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			urls[i], errs[i] = store.Store(ctx, objs[i], folder, kind)
		})
		if err != nil {
			wg.Done()
			errs[i] = apperr.Wrap(apperr.CodeStorage, err, "failed to submit upload")
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			Cleanup(ctx, store, urls)
			return nil, err
		}
	}
	return urls, nil
}

// Cleanup deletes stored blobs, logging failures
func Cleanup(ctx context.Context, store Store, urls []string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := store.Delete(ctx, url); err != nil {
			logger.Warn("Failed to delete blob %s: %v", url, err)
		}
	}
}
