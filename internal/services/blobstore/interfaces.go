package blobstore

import "context"

// Store persists binary objects and hands back shareable URLs
type Store interface {
	// Store uploads data under name and returns a read-only signed URL.
	// An empty contentType means audio/mpeg.
	Store(ctx context.Context, data []byte, name, contentType string) (string, error)
	// Delete removes a single object. A missing object is not an error.
	Delete(ctx context.Context, name string) error
	// DeleteByPrefix removes every object whose name starts with prefix
	DeleteByPrefix(ctx context.Context, prefix string) (DeleteResult, error)
}

// DeleteResult tallies a bulk delete
type DeleteResult struct {
	DeletedCount int `json:"deletedCount"`
	ErrorCount   int `json:"errorCount"`
}

// blobAPI is the subset of the Azure client the store drives
type blobAPI interface {
	CreateContainer(ctx context.Context, container string) error
	Upload(ctx context.Context, container, name string, data []byte, contentType string) error
	Delete(ctx context.Context, container, name string) error
	List(ctx context.Context, container, prefix string) ([]string, error)
	BlobURL(container, name string) string
}
