package internal

import (
	"github.com/ogero/stremio-lastvideos/pkg/stremio"
)

const (
	// LastVideosCatalogID is the id of the series catalog filtered by identifier list.
	LastVideosCatalogID = "last-videos"
	// LastVideosExtraName is the extra property carrying the identifier list.
	LastVideosExtraName = "lastVideosIds"
	// LastVideosOptionsLimit is the maximum number of identifiers accepted by the last videos catalog.
	LastVideosOptionsLimit = 100
)

// NewAddonManifest builds and validates the manifest served by the addon.
func NewAddonManifest(version string) (*stremio.Manifest, error) {
	return stremio.NewManifest(stremio.Manifest{
		ID:          "ar.xor.lastvideos.go",
		Version:     version,
		Name:        "Last videos",
		Description: "Latest episodes catalog and streams addon",
		Types:       []stremio.ContentType{stremio.ContentTypeMovie, stremio.ContentTypeSeries},
		IDPrefixes:  []string{"tt", "kitsu"},
		Resources:   []stremio.ResourceKind{stremio.ResourceCatalog, stremio.ResourceStream},
		Catalogs: []stremio.CatalogItem{
			{
				Type: stremio.ContentTypeMovie,
				ID:   "bbbcatalog",
				Name: "Big Buck Bunny",
			},
			{
				Type: stremio.ContentTypeSeries,
				ID:   LastVideosCatalogID,
				Name: "lastVideos",
				Extra: []stremio.ExtraItem{
					{
						Name:         LastVideosExtraName,
						IsRequired:   true,
						OptionsLimit: LastVideosOptionsLimit,
					},
				},
			},
		},
	})
}
