package resolver

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ogero/stremio-lastvideos/internal/common"
	"github.com/ogero/stremio-lastvideos/pkg/stremio"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:embed assets/*.json
var assets embed.FS

type fixtureCatalogResolver struct {
	metas map[string]stremio.MetaItem
}

// NewFixtureCatalogResolver returns a CatalogResolver serving the embedded meta items.
func NewFixtureCatalogResolver() (CatalogResolver, error) {
	var metas []stremio.MetaItem
	if err := readAsset("assets/metas.json", &metas); err != nil {
		return nil, err
	}
	return NewStaticCatalogResolver(metas)
}

// NewStaticCatalogResolver returns a CatalogResolver serving the given meta items keyed by their ID.
func NewStaticCatalogResolver(metas []stremio.MetaItem) (CatalogResolver, error) {
	r := &fixtureCatalogResolver{metas: make(map[string]stremio.MetaItem, len(metas))}
	for _, meta := range metas {
		if meta.ID == "" {
			return nil, fmt.Errorf("meta item %q has an empty id", meta.Name)
		}
		if _, ok := r.metas[meta.ID]; ok {
			return nil, fmt.Errorf("duplicated meta item %q", meta.ID)
		}
		r.metas[meta.ID] = meta
	}
	return r, nil
}

// ResolveCatalog returns the meta items matching ids, in ids order and without repetitions.
func (r *fixtureCatalogResolver) ResolveCatalog(ctx context.Context, ids []string) ([]stremio.MetaItem, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "resolver.FixtureCatalogResolver.ResolveCatalog")
	defer span.End()

	metas := make([]stremio.MetaItem, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		meta, ok := r.metas[id]
		if !ok {
			common.Log.WarnContext(ctx, "Unmatched id", "id", id)
			common.UnmatchedIDsTotalIncr(ctx, "fixture")
			continue
		}
		common.Log.DebugContext(ctx, "Matched id", "id", id)
		metas = append(metas, meta)
	}
	span.SetAttributes(attribute.Int("metas.count", len(metas)))

	return metas, nil
}

type streamKey struct {
	contentType stremio.ContentType
	id          string
}

type fixtureStreamResolver struct {
	streams map[streamKey][]stremio.Stream
}

// StreamFixture is the set of streams known for one content item.
type StreamFixture struct {
	Type    stremio.ContentType `json:"type"`
	ID      string              `json:"id"`
	Streams []stremio.Stream    `json:"streams"`
}

// NewFixtureStreamResolver returns a StreamResolver serving the embedded streams.
func NewFixtureStreamResolver() (StreamResolver, error) {
	var fixtures []StreamFixture
	if err := readAsset("assets/streams.json", &fixtures); err != nil {
		return nil, err
	}
	return NewStaticStreamResolver(fixtures)
}

// NewStaticStreamResolver returns a StreamResolver serving the given fixtures, rejecting inconsistent streams.
func NewStaticStreamResolver(fixtures []StreamFixture) (StreamResolver, error) {
	r := &fixtureStreamResolver{streams: make(map[streamKey][]stremio.Stream, len(fixtures))}
	for _, f := range fixtures {
		if _, err := stremio.ParseContentType(string(f.Type)); err != nil {
			return nil, fmt.Errorf("failed to validate stream fixture %q: %w", f.ID, err)
		}
		for i, s := range f.Streams {
			if err := s.Validate(); err != nil {
				return nil, fmt.Errorf("failed to validate stream %d of %s %q: %w", i, f.Type, f.ID, err)
			}
		}
		key := streamKey{contentType: f.Type, id: f.ID}
		r.streams[key] = append(r.streams[key], f.Streams...)
	}
	return r, nil
}

// ResolveStreams returns a copy of the streams registered for the pair, or an empty list.
func (r *fixtureStreamResolver) ResolveStreams(ctx context.Context, contentType stremio.ContentType, id string) ([]stremio.Stream, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "resolver.FixtureStreamResolver.ResolveStreams")
	defer span.End()

	streams := r.streams[streamKey{contentType: contentType, id: id}]
	span.SetAttributes(attribute.Int("streams.count", len(streams)))
	if len(streams) == 0 {
		common.Log.DebugContext(ctx, "No streams found", "type", contentType, "id", id)
		return []stremio.Stream{}, nil
	}

	return append([]stremio.Stream(nil), streams...), nil
}

func readAsset(name string, v any) error {
	b, err := assets.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to embed.FS.ReadFile: %w", err)
	}
	if err = json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to json.Unmarshal %s: %w", name, err)
	}
	return nil
}
