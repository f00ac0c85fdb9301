package ports

import (
	"context"
	"io"
)

// ImageUpload is an image attachment received with an article form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore persists uploaded images and returns the public URL they are served from.
type ImageStore interface {
	Save(ctx context.Context, upload ImageUpload) (string, error)
	Remove(ctx context.Context, url string) error
}

// ImageJanitor schedules removal of images no longer referenced by any article.
type ImageJanitor interface {
	Enqueue(url string)
}
