package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/xavierca1/hecms/internal/entity"
)

// loadBlob decodes the blob under key. A missing or unparseable blob yields
// the zero value of T and is logged; startup never fails because of it.
func loadBlob[T any](ctx context.Context, blobs entity.BlobStore, key string) (T, bool) {
	var zero T
	data, err := blobs.Load(ctx, key)
	if errors.Is(err, entity.ErrBlobNotFound) {
		return zero, false
	}
	if err != nil {
		log.Printf("[ENGINE] could not read %s, using default: %v", key, err)
		return zero, false
	}
	// Unmarshal fills what it can before failing, so decode into a scratch value.
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("[ENGINE] %v", parseError("blob "+key+" is not valid JSON, using default", err))
		return zero, false
	}
	return v, true
}

func saveBlob(ctx context.Context, blobs entity.BlobStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return storageError("encode "+key, err)
	}
	if err := blobs.Save(ctx, key, data); err != nil {
		return storageError("save "+key, err)
	}
	return nil
}
