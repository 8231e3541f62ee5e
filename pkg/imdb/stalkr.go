package imdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/StalkR/imdb"
	"github.com/ogero/stremio-lastvideos/pkg/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type stalkrIMDB struct {
	roundTripper http.RoundTripper
	timeout      time.Duration
	getTitle     func(c *http.Client, id string) (*imdb.Title, error)
}

// NewStalkrIMDB creates a new instance of the Stalkr implementation of the IMDB service.
func NewStalkrIMDB() IMDB {

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxConnsPerHost = 100
	t.MaxIdleConnsPerHost = 100

	rt := transport.NewModifyHeadersRoundTripper(t,
		transport.WithAcceptLanguage("en"), // avoid IP-based language detection
		transport.WithUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36"),
	)

	return &stalkrIMDB{
		roundTripper: rt,
		timeout:      time.Second * 10,
		getTitle:     imdb.NewTitle,
	}
}

// GetTitle gets a Title by its ID.
// The lookup is bound to ctx, so it is abandoned as soon as the caller goes away.
// Malformed IDs and titles IMDb answers with 404 return ErrNotFound.
func (c *stalkrIMDB) GetTitle(ctx context.Context, imdbID string) (*Title, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "imdb.IMDB.GetTitle")
	defer span.End()
	span.SetAttributes(attribute.String("imdb.id", imdbID))

	var statusCode int
	httpClient := &http.Client{
		Timeout: c.timeout,
		Transport: transport.NewStatusRecorderRoundTripper(
			transport.NewContextRoundTripper(ctx, c.roundTripper),
			func(code int) { statusCode = code },
		),
	}

	imdbResult, err := c.getTitle(httpClient, imdbID)
	if err != nil {
		if statusCode == http.StatusNotFound || errors.Is(err, imdb.ErrInvalidID) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, imdbID)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to stalkrIMDB.getTitle: %w", err)
	}

	return &Title{
		ID:          imdbResult.ID,
		Name:        imdbResult.Name,
		Type:        imdbResult.Type,
		Year:        imdbResult.Year,
		Rating:      imdbResult.Rating,
		Duration:    imdbResult.Duration,
		Genres:      imdbResult.Genres,
		Description: imdbResult.Description,
		Poster:      imdbResult.Poster.ContentURL,
	}, nil
}
