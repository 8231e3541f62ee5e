package resolver

import (
	"context"
	"fmt"

	"github.com/ogero/stremio-lastvideos/pkg/stremio"
)

type chainCatalogResolver struct {
	resolvers []CatalogResolver
}

// NewChainCatalogResolver returns a CatalogResolver asking each resolver in turn for the identifiers
// the previous ones could not match. The result keeps the input order.
func NewChainCatalogResolver(resolvers ...CatalogResolver) CatalogResolver {
	return &chainCatalogResolver{resolvers: resolvers}
}

func (r *chainCatalogResolver) ResolveCatalog(ctx context.Context, ids []string) ([]stremio.MetaItem, error) {
	matched := make(map[string]stremio.MetaItem, len(ids))

	pending := ids
	for i, resolver := range r.resolvers {
		if len(pending) == 0 {
			break
		}

		metas, err := resolver.ResolveCatalog(ctx, pending)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve with catalog resolver %d: %w", i, err)
		}
		for _, meta := range metas {
			matched[meta.ID] = meta
		}

		next := make([]string, 0, len(pending))
		for _, id := range pending {
			if _, ok := matched[id]; !ok {
				next = append(next, id)
			}
		}
		pending = next
	}

	metas := make([]stremio.MetaItem, 0, len(matched))
	for _, id := range ids {
		if meta, ok := matched[id]; ok {
			metas = append(metas, meta)
			delete(matched, id)
		}
	}

	return metas, nil
}
