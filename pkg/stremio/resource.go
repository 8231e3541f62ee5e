package stremio

import (
	"fmt"
)

// ResourceKind is a Stremio resource name.
type ResourceKind string

const (
	// ResourceCatalog is the catalog resource.
	ResourceCatalog ResourceKind = "catalog"
	// ResourceStream is the stream resource.
	ResourceStream ResourceKind = "stream"
)

// ContentType is a Stremio content type.
type ContentType string

const (
	// ContentTypeMovie is the movie content type.
	ContentTypeMovie ContentType = "movie"
	// ContentTypeSeries is the series content type.
	ContentTypeSeries ContentType = "series"
)

var resourceKinds = map[ResourceKind]struct{}{
	ResourceCatalog: {},
	ResourceStream:  {},
}

var contentTypes = map[ContentType]struct{}{
	ContentTypeMovie:  {},
	ContentTypeSeries: {},
}

// ParseResourceKind returns the ResourceKind named s, or an error wrapping ErrInvalidResource.
func ParseResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(s)
	if _, ok := resourceKinds[k]; !ok {
		return "", fmt.Errorf("%w: unknown resource %q", ErrInvalidResource, s)
	}
	return k, nil
}

// ParseContentType returns the ContentType named s, or an error wrapping ErrInvalidResource.
func ParseContentType(s string) (ContentType, error) {
	t := ContentType(s)
	if _, ok := contentTypes[t]; !ok {
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidResource, s)
	}
	return t, nil
}
