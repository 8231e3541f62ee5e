package stremio

// Manifest represents a Stremio addon manifest
type Manifest struct {
	ID          string        `json:"id"`
	Version     string        `json:"version"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Types       []ContentType `json:"types"`
	// IDPrefixes is nil when unset, in which case every identifier is supported.
	IDPrefixes    []string               `json:"idPrefixes,omitempty"`
	Catalogs      []CatalogItem          `json:"catalogs"`
	Resources     []ResourceKind         `json:"resources"`
	BehaviorHints *ManifestBehaviorHints `json:"behaviorHints,omitempty"`
}

// ManifestBehaviorHints holds the optional manifest hints.
type ManifestBehaviorHints struct {
	Adult bool `json:"adult,omitempty"`
	P2P   bool `json:"p2p,omitempty"`
}

// CatalogItem represents a Stremio manifest catalog item
type CatalogItem struct {
	Type ContentType `json:"type"`
	ID   string      `json:"id"`
	Name string      `json:"name,omitempty"`
	// Extra is nil when the catalog accepts no extra properties.
	Extra []ExtraItem `json:"extra,omitempty"`
}

// ExtraItem describes an extra property accepted by a catalog.
type ExtraItem struct {
	Name         string   `json:"name"`
	IsRequired   bool     `json:"isRequired,omitempty"`
	Options      []string `json:"options,omitempty"`
	OptionsLimit int      `json:"optionsLimit,omitempty"`
}

// MetaItem represents a detailed Stremio meta item.
type MetaItem struct {
	ID          string      `json:"id"`
	Type        ContentType `json:"type"`
	Name        string      `json:"name"`
	Poster      string      `json:"poster,omitempty"`
	PosterShape string      `json:"posterShape,omitempty"`
	Background  string      `json:"background,omitempty"`
	Logo        string      `json:"logo,omitempty"`
	Description string      `json:"description,omitempty"`
	ReleaseInfo string      `json:"releaseInfo,omitempty"`
	Genres      []string    `json:"genres,omitempty"`
	IMDbRating  string      `json:"imdbRating,omitempty"`
	Released    string      `json:"released,omitempty"`
	Runtime     string      `json:"runtime,omitempty"`
	Videos      []Video     `json:"videos,omitempty"`
}

// Video is a single episode of a series meta item.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Released  string `json:"released"`
	Season    int    `json:"season,omitempty"`
	Episode   int    `json:"episode,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Overview  string `json:"overview,omitempty"`
}

// Stream represents a playable Stremio stream. Exactly one of URL or InfoHash is set.
type Stream struct {
	URL           string               `json:"url,omitempty"`
	InfoHash      string               `json:"infoHash,omitempty"`
	FileIndex     *int                 `json:"fileIdx,omitempty"`
	Sources       []string             `json:"sources,omitempty"`
	Name          string               `json:"name,omitempty"`
	Description   string               `json:"description,omitempty"`
	BehaviorHints *StreamBehaviorHints `json:"behaviorHints,omitempty"`
}

// StreamBehaviorHints holds the protocol hints of a stream.
type StreamBehaviorHints struct {
	NotWebReady      bool          `json:"notWebReady,omitempty"`
	BingeGroup       string        `json:"bingeGroup,omitempty"`
	CountryWhitelist []string      `json:"countryWhitelist,omitempty"`
	ProxyHeaders     *ProxyHeaders `json:"proxyHeaders,omitempty"`
}

// ProxyHeaders are the headers a player proxy must add to requests and responses.
type ProxyHeaders struct {
	Request  map[string]string `json:"request,omitempty"`
	Response map[string]string `json:"response,omitempty"`
}

// MetasDetailedResponse is the envelope of a detailed catalog response.
type MetasDetailedResponse struct {
	MetasDetailed []MetaItem `json:"metasDetailed"`
}

// StreamsResponse is the envelope of a stream response.
type StreamsResponse struct {
	Streams []Stream `json:"streams"`
}

// ErrorResponse is the body written on failed requests.
type ErrorResponse struct {
	Message string `json:"message"`
}
