package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/centrifugal/centrifuge"
	"github.com/ogero/stremio-lastvideos/internal/common"
	"github.com/ogero/stremio-lastvideos/internal/loki"
	"github.com/ogero/stremio-lastvideos/internal/resolver"
	"github.com/ogero/stremio-lastvideos/pkg/stremio"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Stats represents statistical data including catalog and stream request counts in the last 24 hours and the last requested id.
type Stats struct {
	// CatalogRequests24 represents the number of catalog requests served in the last 24 hours.
	CatalogRequests24 int `json:"catalogRequests24"`
	// StreamRequests24 represents the number of stream requests served in the last 24 hours.
	StreamRequests24 int `json:"streamRequests24"`
	// LastRequestedID holds the last requested identifier for immediate broadcasting.
	LastRequestedID string `json:"lastRequestedId"`
}

// StremioService resolves Stremio resource requests against the addon manifest and its resolvers.
type StremioService interface {
	// Handler handles incoming HTTP requests via a websocket handler
	http.Handler
	// GetLastVideos resolves the last videos catalog for an encoded `lastVideosIds=...json` segment.
	GetLastVideos(ctx context.Context, segment string) (*stremio.MetasDetailedResponse, error)
	// GetResource resolves a generic resource request. The returned value is the response envelope.
	GetResource(ctx context.Context, kind stremio.ResourceKind, contentType stremio.ContentType, id string) (any, error)
	// BroadcastStats updates and publishes statistical data to a websocket channel.
	// Accepts a function to modify stats and returns an error if updating or publishing fails.
	BroadcastStats(statsUpdater func(stats *Stats) error) error
	// StartPollingStats fetches and broadcasts statistical data at the specified interval until ctx is done.
	StartPollingStats(ctx context.Context, interval time.Duration)
	// Shutdown stops the websocket node.
	Shutdown(ctx context.Context) error
}

const (
	// LastVideosResolvedLogMessage is logged once per successfully resolved last videos request.
	LastVideosResolvedLogMessage = "Resolved last videos"
	// StreamsResolvedLogMessage is logged once per successfully resolved stream request.
	StreamsResolvedLogMessage = "Resolved streams"
)

type resourceHandler func(ctx context.Context, id string) (any, error)

type dispatchKey struct {
	kind        stremio.ResourceKind
	contentType stremio.ContentType
}

type stremioService struct {
	manifest              *stremio.Manifest
	catalog               resolver.CatalogResolver
	streams               resolver.StreamResolver
	loki                  loki.Loki
	statsWebsocketChannel string

	dispatch map[dispatchKey]resourceHandler

	node             *centrifuge.Node
	websocketHandler *centrifuge.WebsocketHandler
	statsMutex       *sync.Mutex
	stats            Stats
}

// NewStremioService creates a new instance of StremioService. The manifest is shared read only.
// loki may be nil, in which case polling only rebroadcasts the current stats.
func NewStremioService(manifest *stremio.Manifest, catalog resolver.CatalogResolver, streams resolver.StreamResolver, loki loki.Loki, statsWebsocketChannel string) (StremioService, error) {
	svc := &stremioService{
		manifest:              manifest,
		catalog:               catalog,
		streams:               streams,
		loki:                  loki,
		statsWebsocketChannel: statsWebsocketChannel,

		statsMutex: &sync.Mutex{},
	}

	svc.dispatch = map[dispatchKey]resourceHandler{
		{stremio.ResourceStream, stremio.ContentTypeMovie}:   svc.streamHandler(stremio.ContentTypeMovie),
		{stremio.ResourceStream, stremio.ContentTypeSeries}:  svc.streamHandler(stremio.ContentTypeSeries),
		{stremio.ResourceCatalog, stremio.ContentTypeMovie}:  notImplementedHandler(stremio.ResourceCatalog, stremio.ContentTypeMovie),
		{stremio.ResourceCatalog, stremio.ContentTypeSeries}: notImplementedHandler(stremio.ResourceCatalog, stremio.ContentTypeSeries),
	}

	node, err := centrifuge.New(centrifuge.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to centrifuge.New: %w", err)
	}
	svc.node = node

	node.OnConnecting(func(ctx context.Context, e centrifuge.ConnectEvent) (centrifuge.ConnectReply, error) {
		return centrifuge.ConnectReply{}, nil
	})

	node.OnConnect(func(client *centrifuge.Client) {
		client.OnSubscribe(func(e centrifuge.SubscribeEvent, cb centrifuge.SubscribeCallback) {
			if e.Channel != statsWebsocketChannel {
				cb(centrifuge.SubscribeReply{}, centrifuge.ErrorPermissionDenied)
				return
			}

			cb(centrifuge.SubscribeReply{
				Options: centrifuge.SubscribeOptions{},
			}, nil)

			go func() {
				err := svc.BroadcastStats(func(data *Stats) error { return nil })
				if err != nil {
					common.Log.Warn("Failed to internal.StremioService.BroadcastStats", "err", err)
				}
			}()
		})
	})

	if err := node.Run(); err != nil {
		return nil, fmt.Errorf("failed to centrifuge.Node.Run: %w", err)
	}

	svc.websocketHandler = centrifuge.NewWebsocketHandler(node, centrifuge.WebsocketConfig{
		ReadBufferSize:     1024,
		UseWriteBufferPool: true,
	})

	return svc, nil
}

// GetLastVideos resolves the last videos catalog for an encoded `lastVideosIds=...json` segment.
// Values are path-unescaped here, since the segment codec keeps them raw.
// Identifiers outside the manifest prefixes are dropped; when none is left the request fails with ErrNoSupportedIDs.
func (s *stremioService) GetLastVideos(ctx context.Context, segment string) (*stremio.MetasDetailedResponse, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "internal.StremioService.GetLastVideos")
	defer span.End()

	query, err := stremio.DecodeExtra(LastVideosExtraName, segment)
	if err != nil {
		common.ResourceRequestsTotalIncr(ctx, string(stremio.ResourceCatalog), string(stremio.ContentTypeSeries), "bad_request")
		return nil, fmt.Errorf("failed to stremio.DecodeExtra: %w", err)
	}

	requestedIDs := query.Get(LastVideosExtraName)
	ids := make([]string, 0, len(requestedIDs))
	for _, rawID := range requestedIDs {
		id, err := url.PathUnescape(rawID)
		if err != nil {
			common.Log.WarnContext(ctx, "Failed to url.PathUnescape", "id", rawID, "err", err)
			continue
		}
		if !s.manifest.IsIDSupported(id) {
			common.Log.WarnContext(ctx, "Unsupported id", "id", id)
			continue
		}
		ids = append(ids, id)
	}
	span.SetAttributes(attribute.Int("ids.requested", len(requestedIDs)), attribute.Int("ids.supported", len(ids)))
	if len(ids) == 0 {
		common.ResourceRequestsTotalIncr(ctx, string(stremio.ResourceCatalog), string(stremio.ContentTypeSeries), "not_found")
		return nil, stremio.ErrNoSupportedIDs
	}

	if limit := s.lastVideosOptionsLimit(); limit > 0 && len(ids) > limit {
		common.Log.WarnContext(ctx, "Too many ids, truncating", "count", len(ids), "limit", limit)
		ids = ids[:limit]
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	metas, err := s.catalog.ResolveCatalog(ctx, ids)
	if err != nil {
		span.RecordError(err)
		common.ResourceRequestsTotalIncr(ctx, string(stremio.ResourceCatalog), string(stremio.ContentTypeSeries), "error")
		return nil, fmt.Errorf("%w: failed to resolver.CatalogResolver.ResolveCatalog: %w", stremio.ErrResolverFailure, err)
	}
	if metas == nil {
		metas = []stremio.MetaItem{}
	}
	common.Log.InfoContext(ctx, LastVideosResolvedLogMessage, "ids", ids, "metas", len(metas))
	common.ResourceRequestsTotalIncr(ctx, string(stremio.ResourceCatalog), string(stremio.ContentTypeSeries), "ok")

	s.broadcastLastRequestedID(ctx, ids[0])

	return &stremio.MetasDetailedResponse{MetasDetailed: metas}, nil
}

// GetResource resolves a generic resource request through the dispatch table.
// Every combination has an outcome: missing entries are reported as ErrNotImplemented.
func (s *stremioService) GetResource(ctx context.Context, kind stremio.ResourceKind, contentType stremio.ContentType, id string) (any, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "internal.StremioService.GetResource")
	defer span.End()
	span.SetAttributes(
		attribute.String("resource", string(kind)),
		attribute.String("type", string(contentType)),
		attribute.String("id", id),
	)

	handler, ok := s.dispatch[dispatchKey{kind: kind, contentType: contentType}]
	if !ok {
		handler = notImplementedHandler(kind, contentType)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	response, err := handler(ctx, id)
	if err != nil {
		span.RecordError(err)
		outcome := "error"
		if errors.Is(err, stremio.ErrNotImplemented) {
			outcome = "not_implemented"
		}
		common.ResourceRequestsTotalIncr(ctx, string(kind), string(contentType), outcome)
		return nil, err
	}
	common.ResourceRequestsTotalIncr(ctx, string(kind), string(contentType), "ok")

	s.broadcastLastRequestedID(ctx, id)

	return response, nil
}

func (s *stremioService) streamHandler(contentType stremio.ContentType) resourceHandler {
	return func(ctx context.Context, id string) (any, error) {
		streams, err := s.streams.ResolveStreams(ctx, contentType, id)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to resolver.StreamResolver.ResolveStreams: %w", stremio.ErrResolverFailure, err)
		}
		if streams == nil {
			streams = []stremio.Stream{}
		}
		common.Log.InfoContext(ctx, StreamsResolvedLogMessage, "type", contentType, "id", id, "streams", len(streams))
		return &stremio.StreamsResponse{Streams: streams}, nil
	}
}

func notImplementedHandler(kind stremio.ResourceKind, contentType stremio.ContentType) resourceHandler {
	return func(ctx context.Context, id string) (any, error) {
		return nil, fmt.Errorf("%w: %s/%s", stremio.ErrNotImplemented, kind, contentType)
	}
}

func (s *stremioService) lastVideosOptionsLimit() int {
	catalog, ok := s.manifest.Catalog(stremio.ContentTypeSeries, LastVideosCatalogID)
	if !ok {
		return 0
	}
	extra, ok := catalog.ExtraItem(LastVideosExtraName)
	if !ok {
		return 0
	}
	return extra.OptionsLimit
}

func (s *stremioService) broadcastLastRequestedID(ctx context.Context, id string) {
	go func() {
		err := s.BroadcastStats(func(data *Stats) error {
			data.LastRequestedID = id
			return nil
		})
		if err != nil {
			common.Log.WarnContext(ctx, "Failed to internal.StremioService.BroadcastStats", "err", err)
		}
	}()
}

// BroadcastStats updates and publishes statistical data to a websocket channel.
// Accepts a function to modify stats and returns an error if updating or publishing fails.
func (s *stremioService) BroadcastStats(statsUpdater func(stats *Stats) error) error {
	stats, err := func() (Stats, error) {
		s.statsMutex.Lock()
		defer s.statsMutex.Unlock()
		err := statsUpdater(&s.stats)
		if err != nil {
			return Stats{}, err
		}
		return s.stats, nil
	}()
	if err != nil {
		return fmt.Errorf("failed to statsUpdater: %w", err)
	}

	b, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to json.Marshal: %w", err)
	}

	_, err = s.node.Publish(s.statsWebsocketChannel, b)
	if err != nil {
		return fmt.Errorf("failed to centrifuge.Node.Publish: %w", err)
	}

	return nil
}

// StartPollingStats fetches and broadcasts statistical data at the specified interval until ctx is done.
func (s *stremioService) StartPollingStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		var catalogRequests, streamRequests int
		if s.loki != nil {
			var err error
			catalogRequests, err = s.loki.GetCatalogRequests24(ctx)
			if err != nil {
				common.Log.Error("failed to get loki.Loki.GetCatalogRequests24", "err", err)
			}
			streamRequests, err = s.loki.GetStreamRequests24(ctx)
			if err != nil {
				common.Log.Error("failed to get loki.Loki.GetStreamRequests24", "err", err)
			}
		}
		err := s.BroadcastStats(func(stats *Stats) error {
			if catalogRequests != 0 {
				stats.CatalogRequests24 = catalogRequests
			}
			if streamRequests != 0 {
				stats.StreamRequests24 = streamRequests
			}
			return nil
		})
		if err != nil {
			common.Log.Warn("failed to internal.StremioService.BroadcastStats", "err", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ServeHTTP handles incoming HTTP requests via a websocket handler
func (s *stremioService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	newCtx := centrifuge.SetCredentials(ctx, &centrifuge.Credentials{})
	r = r.WithContext(newCtx)

	s.websocketHandler.ServeHTTP(w, r)
}

// Shutdown stops the websocket node.
func (s *stremioService) Shutdown(ctx context.Context) error {
	return s.node.Shutdown(ctx)
}
