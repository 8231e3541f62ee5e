package resolver

import (
	"context"

	"github.com/ogero/stremio-lastvideos/pkg/stremio"
)

// CatalogResolver looks up meta items by identifier.
type CatalogResolver interface {
	// ResolveCatalog returns the meta items matching ids, in ids order.
	// Identifiers without a match are dropped, not reported as errors.
	ResolveCatalog(ctx context.Context, ids []string) ([]stremio.MetaItem, error)
}

// StreamResolver looks up the streams of a content item.
type StreamResolver interface {
	// ResolveStreams returns the streams known for the given content type and endpoint id.
	// An empty result is a valid answer.
	ResolveStreams(ctx context.Context, contentType stremio.ContentType, id string) ([]stremio.Stream, error)
}
