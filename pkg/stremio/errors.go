package stremio

import "errors"

var (
	// ErrMalformedSegment is returned when an extra path segment does not have the key=values.json shape.
	ErrMalformedSegment = errors.New("malformed extra segment")
	// ErrEmptyQuery is returned when an extra path segment carries no values.
	ErrEmptyQuery = errors.New("empty extra query")
	// ErrNoSupportedIDs is returned when none of the requested identifiers match the manifest prefixes.
	ErrNoSupportedIDs = errors.New("no supported identifiers")
	// ErrInvalidResource is returned for unknown resource kinds or content types.
	ErrInvalidResource = errors.New("invalid resource")
	// ErrNotImplemented is returned for declared resource and type combinations without a resolver.
	ErrNotImplemented = errors.New("not implemented")
	// ErrResolverFailure wraps errors coming from a catalog or stream resolver.
	ErrResolverFailure = errors.New("resolver failure")
	// ErrInvalidManifest is returned when a manifest is internally inconsistent.
	ErrInvalidManifest = errors.New("invalid manifest")
	// ErrInvalidStream is returned when a stream descriptor is internally inconsistent.
	ErrInvalidStream = errors.New("invalid stream")
)
