package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ogero/stremio-lastvideos/internal/cache"
	"github.com/ogero/stremio-lastvideos/internal/common"
	"github.com/ogero/stremio-lastvideos/pkg/imdb"
	"github.com/ogero/stremio-lastvideos/pkg/stremio"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type imdbCatalogResolver struct {
	imdb     imdb.IMDB
	cache    *cache.Cache
	cacheTTL time.Duration
}

// NewIMDBCatalogResolver returns a CatalogResolver building meta items from IMDb titles.
// Only `tt` identifiers are looked up and every title is memoized in c for ttl.
func NewIMDBCatalogResolver(imdb imdb.IMDB, c *cache.Cache, ttl time.Duration) CatalogResolver {
	return &imdbCatalogResolver{
		imdb:     imdb,
		cache:    c,
		cacheTTL: ttl,
	}
}

// ResolveCatalog returns the meta items of the IMDb titles in ids.
// Titles IMDb does not know are skipped like unmatched ids; any other failed lookup fails the whole resolution.
func (r *imdbCatalogResolver) ResolveCatalog(ctx context.Context, ids []string) ([]stremio.MetaItem, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "resolver.IMDBCatalogResolver.ResolveCatalog")
	defer span.End()

	metas := make([]stremio.MetaItem, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if !strings.HasPrefix(id, "tt") {
			common.UnmatchedIDsTotalIncr(ctx, "imdb")
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cacheKey := fmt.Sprintf("imdb.title : %s", id)
		title, hit, err := cache.Memoize[imdb.Title](r.cache, cacheKey, r.cacheTTL, func() (*imdb.Title, error) {
			title, err := r.imdb.GetTitle(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to imdb.IMDB.GetTitle: %w", err)
			}
			return title, nil
		})
		cacheResult := "miss"
		if hit {
			cacheResult = "hit"
		}
		span.SetAttributes(attribute.String("cache.imdb.title.result", cacheResult))
		common.CacheGetsTotalIncr(ctx, "imdb.title", cacheResult)
		if errors.Is(err, imdb.ErrNotFound) {
			common.Log.WarnContext(ctx, "Title not found on IMDb", "id", id)
			common.UnmatchedIDsTotalIncr(ctx, "imdb")
			continue
		}
		if err != nil {
			return nil, err
		}

		metas = append(metas, titleToMetaItem(id, title))
	}

	return metas, nil
}

func titleToMetaItem(id string, title *imdb.Title) stremio.MetaItem {
	meta := stremio.MetaItem{
		ID:          id,
		Type:        stremio.ContentTypeMovie,
		Name:        title.Name,
		Poster:      title.Poster,
		Description: title.Description,
		Genres:      title.Genres,
		IMDbRating:  title.Rating,
		Runtime:     title.Duration,
	}
	if title.IsSeries() {
		meta.Type = stremio.ContentTypeSeries
	}
	if title.Year != 0 {
		meta.ReleaseInfo = strconv.Itoa(title.Year)
	}
	return meta
}
