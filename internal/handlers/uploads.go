package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"greenova/internal/storage"
)

const maxListingImages = 5

// uploadAll pushes every file to the image store concurrently and returns the
// public URLs in input order. Any single failure fails the batch.
func uploadAll(ctx context.Context, store storage.Uploader, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, header := range files {
		wg.Add(1)
		go func(i int, header *multipart.FileHeader) {
			defer wg.Done()
			urls[i], errs[i] = uploadOne(ctx, store, header)
		}(i, header)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return urls, nil
}

func uploadOne(ctx context.Context, store storage.Uploader, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", header.Filename, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return store.Upload(ctx, data, contentType)
}
