// Package blobstore abstracts where uploaded photo bytes live. The catalog
// only ever handles the opaque reference a store hands back.
package blobstore

import (
	"context"
	"io"
)

// Store is the boundary contract for photo asset storage.
type Store interface {
	// Save persists the stream and returns a retrievable reference.
	Save(ctx context.Context, r io.Reader, suggestedName string) (string, error)

	// Delete removes the asset. Deleting an already-absent asset is not an error.
	Delete(ref string) error

	// URL returns the locator clients use to fetch the asset.
	URL(ref string) string
}
