package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ogero/stremio-lastvideos/internal/common"
	"github.com/ogero/stremio-lastvideos/pkg/stremio"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// App represents the main application structure that holds the Stremio service and the encoded manifest.
type App struct {
	StremioService StremioService
	manifestJSON   []byte
}

/*
NewApp creates a new instance of the App struct.

Parameters:
  - stremioService: The service resolving catalog and stream requests.
  - manifest: The validated addon manifest, encoded once here.

Returns:
  - A pointer to the newly created App instance.
*/
func NewApp(stremioService StremioService, manifest *stremio.Manifest) (*App, error) {
	b, err := json.Marshal(manifest)
	if err != nil {
		return nil, err
	}
	return &App{
		StremioService: stremioService,
		manifestJSON:   b,
	}, nil
}

/*
Routes registers the addon endpoints on r.

The last videos catalog route is more specific than the generic resource route, so chi matches it first.
*/
func (a *App) Routes(r chi.Router) {
	r.Get("/manifest.json", a.ManifestHandler)
	r.Get("/catalog/series/last-videos/{segment}", a.LastVideosHandler)
	r.Get("/{resource}/{type}/{id}", a.ResourceHandler)
	r.Get("/connection/websocket", a.WebsocketHandler)
}

/*
ManifestHandler serves the manifest for the addon.

This method writes the manifest as a JSON response to the HTTP writer.
*/
func (a *App) ManifestHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)

	common.Log.DebugContext(ctx, "ManifestHandler")

	w.Header().Set("Content-Type", "application/json")

	_, err := w.Write(a.manifestJSON)
	if err != nil {
		common.Log.ErrorContext(ctx, "Failed to write response", "err", err)
		span.RecordError(err)
		return
	}
}

/*
LastVideosHandler handles requests for the last videos catalog.

The segment carries the identifier list as `lastVideosIds=<id1>,...,<idn>.json`.
*/
func (a *App) LastVideosHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)

	common.Log.DebugContext(ctx, "LastVideosHandler")

	paramsSegment := chi.URLParam(r, "segment")
	if err := common.ValidateExtraSegment(paramsSegment); err != nil {
		common.Log.WarnContext(ctx, "Failed to common.ValidateExtraSegment", "err", err)
		span.RecordError(err)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	span.SetAttributes(attribute.String("params.segment", paramsSegment))

	response, err := a.StremioService.GetLastVideos(ctx, paramsSegment)
	if err != nil {
		a.writeError(ctx, w, err)
		return
	}

	w.Header().Set("CDN-Cache-Control", "public, max-age=120")
	w.Header().Set("Cache-Control", "public, max-age=120")

	a.writeJSON(ctx, w, response)
}

/*
ResourceHandler handles generic `/{resource}/{type}/{id}.json` requests.

This method validates the request parameters, dispatches them to the Stremio service, and writes the envelope as a JSON response.
*/
func (a *App) ResourceHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)

	common.Log.DebugContext(ctx, "ResourceHandler")

	kind, err := stremio.ParseResourceKind(chi.URLParam(r, "resource"))
	if err != nil {
		common.Log.WarnContext(ctx, "Failed to stremio.ParseResourceKind", "err", err)
		span.RecordError(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("params.resource", string(kind)))

	contentType, err := stremio.ParseContentType(chi.URLParam(r, "type"))
	if err != nil {
		common.Log.WarnContext(ctx, "Failed to stremio.ParseContentType", "err", err)
		span.RecordError(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("params.type", string(contentType)))

	paramsID, err := url.PathUnescape(strings.TrimSuffix(chi.URLParam(r, "id"), ".json"))
	if err != nil {
		common.Log.WarnContext(ctx, "Failed to url.PathUnescape", "err", err)
		span.RecordError(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err = common.ValidateResourceID(paramsID); err != nil {
		common.Log.WarnContext(ctx, "Failed to common.ValidateResourceID", "err", err)
		span.RecordError(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("params.id", paramsID))

	response, err := a.StremioService.GetResource(ctx, kind, contentType, paramsID)
	if err != nil {
		a.writeError(ctx, w, err)
		return
	}

	if streams, ok := response.(*stremio.StreamsResponse); ok && len(streams.Streams) > 0 {
		w.Header().Set("CDN-Cache-Control", "public, max-age=1296000")
		w.Header().Set("Cache-Control", "public, max-age=1296000")
	} else {
		w.Header().Set("CDN-Cache-Control", "public, max-age=120")
		w.Header().Set("Cache-Control", "public, max-age=120")
	}

	a.writeJSON(ctx, w, response)
}

// WebsocketHandler handles WebSocket connections
func (a *App) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	common.Log.DebugContext(ctx, "WebsocketHandler")

	a.StremioService.ServeHTTP(w, r)
}

func (a *App) writeJSON(ctx context.Context, w http.ResponseWriter, response any) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		common.Log.ErrorContext(ctx, "Failed to write response", "err", err)
		trace.SpanFromContext(ctx).RecordError(err)
		return
	}
}

// writeError maps service errors to status codes. Resolver internals never reach the client.
func (a *App) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)

	var status int
	var message string
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		common.Log.WarnContext(ctx, "Request abandoned", "err", err)
		status, message = http.StatusServiceUnavailable, "request abandoned"
	case errors.Is(err, stremio.ErrMalformedSegment),
		errors.Is(err, stremio.ErrEmptyQuery),
		errors.Is(err, stremio.ErrNoSupportedIDs):
		common.Log.WarnContext(ctx, "Resource not found", "err", err)
		w.WriteHeader(http.StatusNotFound)
		return
	case errors.Is(err, stremio.ErrInvalidResource):
		common.Log.WarnContext(ctx, "Invalid resource", "err", err)
		status, message = http.StatusBadRequest, "invalid resource"
	case errors.Is(err, stremio.ErrNotImplemented):
		common.Log.WarnContext(ctx, "Resource not implemented", "err", err)
		status, message = http.StatusNotImplemented, "not implemented"
	default:
		common.Log.ErrorContext(ctx, "Failed to resolve resource", "err", err)
		status, message = http.StatusInternalServerError, "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(stremio.ErrorResponse{Message: message}); err != nil {
		common.Log.ErrorContext(ctx, "Failed to write error response", "err", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}
